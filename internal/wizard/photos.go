package wizard

import (
	"errors"
	"fmt"
	"sync"
)

// ==================== 图片附件管理器 ====================

const (
	// MaxPhotoSize 单文件大小上限 10 MiB
	MaxPhotoSize = 10 << 20

	FreePlanPhotoLimit = 5
	PaidPlanPhotoLimit = 25
)

// ErrPhotoLimitExceeded 批量添加会突破套餐上限，整批拒绝
var ErrPhotoLimitExceeded = errors.New("图片数量超出套餐上限")

// Candidate 待添加的图片文件
type Candidate struct {
	FileName   string
	Size       int64
	PreviewURL string
	// Release 释放本地预览资源；nil 表示服务端已有图片，无需释放
	Release func() error
}

// Attachment (文件, 预览) 配对
// 第 0 个附件即封面，封面身份完全由位置决定，不设单独标记
type Attachment struct {
	FileName   string
	Size       int64
	PreviewURL string
	release    func() error
	released   bool
}

// Remote 是否为服务端已有图片（预览为永久远程 URL，无本地资源）
func (a *Attachment) Remote() bool {
	return a.release == nil
}

// releaseOnce 临时预览资源恰好释放一次，重复调用为空操作
func (a *Attachment) releaseOnce() error {
	if a.release == nil || a.released {
		return nil
	}
	a.released = true
	return a.release()
}

// AddResult 一次批量添加的结果
type AddResult struct {
	Added            int `json:"added"`             // 实际加入数量
	RejectedOversize int `json:"rejected_oversize"` // 因超过单文件大小被拒的数量
}

// PhotoManager 管理草稿的图片附件列表
type PhotoManager struct {
	mu          sync.Mutex
	limit       int
	attachments []*Attachment
	closed      bool
}

// NewPhotoManager 创建附件管理器，limit 为套餐决定的数量上限
func NewPhotoManager(limit int) *PhotoManager {
	return &PhotoManager{limit: limit}
}

// SetLimit 套餐变更时调整上限，已有附件不回收
func (m *PhotoManager) SetLimit(limit int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limit = limit
}

// Limit 当前数量上限
func (m *PhotoManager) Limit() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.limit
}

// Add 批量添加候选文件
// 超过单文件大小上限的文件逐个拒绝并计数，不影响同批其他文件；
// 剩余文件若加入后会超过套餐上限，则整批拒绝（区别于大小拒绝），一张都不加入
func (m *PhotoManager) Add(candidates []Candidate) (*AddResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, errors.New("附件管理器已关闭")
	}

	result := &AddResult{}

	var accepted []Candidate
	for _, c := range candidates {
		if c.Size > MaxPhotoSize {
			result.RejectedOversize++
			if c.Release != nil {
				_ = c.Release() // 被拒文件的预览立即回收
			}
			continue
		}
		accepted = append(accepted, c)
	}

	if len(m.attachments)+len(accepted) > m.limit {
		for _, c := range accepted {
			if c.Release != nil {
				_ = c.Release()
			}
		}
		return result, fmt.Errorf("%w：当前 %d 张，上限 %d 张", ErrPhotoLimitExceeded, len(m.attachments), m.limit)
	}

	for _, c := range accepted {
		m.attachments = append(m.attachments, &Attachment{
			FileName:   c.FileName,
			Size:       c.Size,
			PreviewURL: c.PreviewURL,
			release:    c.Release,
		})
		result.Added++
	}

	return result, nil
}

// Hydrate 用服务端已有图片回填附件列表（无本地资源）
func (m *PhotoManager) Hydrate(urls []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, url := range urls {
		m.attachments = append(m.attachments, &Attachment{PreviewURL: url})
	}
}

// Remove 按位置移除附件，临时预览立即释放
// 移除第 0 个附件后，原第 1 个成为新封面
func (m *PhotoManager) Remove(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.attachments) {
		return errors.New("图片位置不存在")
	}

	removed := m.attachments[index]
	m.attachments = append(m.attachments[:index], m.attachments[index+1:]...)
	return removed.releaseOnce()
}

// List 附件列表快照
func (m *PhotoManager) List() []*Attachment {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Attachment, len(m.attachments))
	copy(out, m.attachments)
	return out
}

// Count 当前附件数量
func (m *PhotoManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.attachments)
}

// Cover 封面附件（位置 0），列表为空返回 nil
func (m *PhotoManager) Cover() *Attachment {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.attachments) == 0 {
		return nil
	}
	return m.attachments[0]
}

// Close 卸载时调用：释放所有剩余的临时预览，每个恰好一次
// 重复 Close 为空操作
func (m *PhotoManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	var firstErr error
	for _, a := range m.attachments {
		if err := a.releaseOnce(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
