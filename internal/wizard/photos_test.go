package wizard

import (
	"errors"
	"fmt"
	"testing"
)

// ==================== 测试辅助 ====================

// releaseCounter 记录释放次数的候选文件
type releaseCounter struct {
	count int
}

func (rc *releaseCounter) candidate(name string, size int64) Candidate {
	return Candidate{
		FileName:   name,
		Size:       size,
		PreviewURL: "/static/uploads/tmp/" + name,
		Release: func() error {
			rc.count++
			return nil
		},
	}
}

func smallCandidates(rc *releaseCounter, n int) []Candidate {
	out := make([]Candidate, n)
	for i := 0; i < n; i++ {
		out[i] = rc.candidate(fmt.Sprintf("p%d.jpg", i), 1024)
	}
	return out
}

// ==================== 大小限制 ====================

func TestPhotoManager_OversizeRejectedIndividually(t *testing.T) {
	rc := &releaseCounter{}
	m := NewPhotoManager(FreePlanPhotoLimit)

	candidates := []Candidate{
		rc.candidate("ok.jpg", 1024),
		rc.candidate("big.jpg", MaxPhotoSize+1),
		rc.candidate("ok2.jpg", MaxPhotoSize), // 恰好等于上限，允许
	}

	result, err := m.Add(candidates)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if result.Added != 2 {
		t.Errorf("应加入2张, got %d", result.Added)
	}
	if result.RejectedOversize != 1 {
		t.Errorf("应拒绝1张超大文件, got %d", result.RejectedOversize)
	}
	// 被拒文件的预览立即回收
	if rc.count != 1 {
		t.Errorf("超大文件预览应被释放1次, got %d", rc.count)
	}
}

// ==================== 套餐上限 ====================

func TestPhotoManager_ExactlyAtLimitAdmitted(t *testing.T) {
	rc := &releaseCounter{}
	m := NewPhotoManager(FreePlanPhotoLimit)

	result, err := m.Add(smallCandidates(rc, 5))
	if err != nil {
		t.Fatalf("恰好5张应全部加入: %v", err)
	}
	if result.Added != 5 || m.Count() != 5 {
		t.Errorf("应加入5张, added=%d count=%d", result.Added, m.Count())
	}
}

func TestPhotoManager_BatchOverLimitWhollyRejected(t *testing.T) {
	rc := &releaseCounter{}
	m := NewPhotoManager(FreePlanPhotoLimit)

	// 免费套餐一次加6张：整批拒绝，一张都不加入
	_, err := m.Add(smallCandidates(rc, 6))
	if !errors.Is(err, ErrPhotoLimitExceeded) {
		t.Fatalf("超上限批次应返回 ErrPhotoLimitExceeded, got %v", err)
	}
	if m.Count() != 0 {
		t.Errorf("整批拒绝后不应有附件, got %d", m.Count())
	}
	// 整批的预览全部回收
	if rc.count != 6 {
		t.Errorf("被拒批次预览应全部释放, got %d", rc.count)
	}
}

func TestPhotoManager_OversizeDoesNotCountTowardLimit(t *testing.T) {
	rc := &releaseCounter{}
	m := NewPhotoManager(FreePlanPhotoLimit)

	// 5张正常 + 1张超大：超大单独拒绝，剩余5张不超上限，正常加入
	candidates := smallCandidates(rc, 5)
	candidates = append(candidates, rc.candidate("big.jpg", MaxPhotoSize+1))

	result, err := m.Add(candidates)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if result.Added != 5 || result.RejectedOversize != 1 {
		t.Errorf("added=%d rejected=%d", result.Added, result.RejectedOversize)
	}
}

func TestPhotoManager_PaidPlanLimit(t *testing.T) {
	rc := &releaseCounter{}
	m := NewPhotoManager(PaidPlanPhotoLimit)

	if _, err := m.Add(smallCandidates(rc, 25)); err != nil {
		t.Fatalf("付费套餐25张应全部加入: %v", err)
	}
	if _, err := m.Add(smallCandidates(rc, 1)); !errors.Is(err, ErrPhotoLimitExceeded) {
		t.Errorf("第26张应被拒绝, got %v", err)
	}
}

// ==================== 封面语义 ====================

func TestPhotoManager_CoverIsPositionZero(t *testing.T) {
	rc := &releaseCounter{}
	m := NewPhotoManager(FreePlanPhotoLimit)
	m.Add(smallCandidates(rc, 3))

	cover := m.Cover()
	if cover == nil || cover.FileName != "p0.jpg" {
		t.Fatalf("封面应为第0张, got %+v", cover)
	}

	// 移除封面后下一张顶替
	if err := m.Remove(0); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	cover = m.Cover()
	if cover == nil || cover.FileName != "p1.jpg" {
		t.Errorf("移除封面后第1张应顶替, got %+v", cover)
	}
}

// ==================== 释放语义 ====================

func TestPhotoManager_RemoveReleasesOnce(t *testing.T) {
	rc := &releaseCounter{}
	m := NewPhotoManager(FreePlanPhotoLimit)
	m.Add(smallCandidates(rc, 2))

	if err := m.Remove(0); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if rc.count != 1 {
		t.Errorf("移除应释放1次, got %d", rc.count)
	}

	// Close 不能对已移除的附件二次释放
	if err := m.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if rc.count != 2 {
		t.Errorf("移除1张+关闭释放剩余1张=2次, got %d", rc.count)
	}
}

func TestPhotoManager_CloseIdempotent(t *testing.T) {
	rc := &releaseCounter{}
	m := NewPhotoManager(FreePlanPhotoLimit)
	m.Add(smallCandidates(rc, 3))

	m.Close()
	m.Close()
	if rc.count != 3 {
		t.Errorf("重复关闭不应重复释放, got %d", rc.count)
	}

	// 关闭后不再接受添加
	if _, err := m.Add(smallCandidates(rc, 1)); err == nil {
		t.Error("关闭后添加应失败")
	}
}

func TestPhotoManager_RemoteAttachmentsHaveNoRelease(t *testing.T) {
	m := NewPhotoManager(FreePlanPhotoLimit)
	m.Hydrate([]string{"/static/uploads/a.jpg", "/static/uploads/b.jpg"})

	if m.Count() != 2 {
		t.Fatalf("回填2张, got %d", m.Count())
	}
	for _, a := range m.List() {
		if !a.Remote() {
			t.Error("回填附件应为远程附件")
		}
	}
	// 远程附件关闭时无资源可释放
	if err := m.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestPhotoManager_RemoveOutOfRange(t *testing.T) {
	m := NewPhotoManager(FreePlanPhotoLimit)
	if err := m.Remove(0); err == nil {
		t.Error("空列表移除应失败")
	}
	if err := m.Remove(-1); err == nil {
		t.Error("负数位置应失败")
	}
}

// ==================== 套餐切换 ====================

func TestPhotoManager_SetLimitAfterDowngrade(t *testing.T) {
	rc := &releaseCounter{}
	m := NewPhotoManager(PaidPlanPhotoLimit)
	m.Add(smallCandidates(rc, 10))

	// 降级后已有附件不回收，但不能再添加
	m.SetLimit(FreePlanPhotoLimit)
	if m.Count() != 10 {
		t.Errorf("降级不应回收已有附件, got %d", m.Count())
	}
	if _, err := m.Add(smallCandidates(rc, 1)); !errors.Is(err, ErrPhotoLimitExceeded) {
		t.Errorf("超过新上限应被拒绝, got %v", err)
	}
}
