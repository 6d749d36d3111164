package wizard

import (
	"context"
	"fmt"
	"sync"
)

// ==================== 位置级联联动器 ====================

// Option 下拉选项
type Option struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// LookupProvider 位置数据源（只读）
type LookupProvider interface {
	Countries(ctx context.Context) ([]Option, error)
	States(ctx context.Context, countryID int64) ([]Option, error)
	Cities(ctx context.Context, stateID int64) ([]Option, error)
	Localities(ctx context.Context, cityID int64) ([]Option, error)
}

// Cascade 保持 国家/省份/城市/片区 选择的一致性
//
// 任何上级变更立即重置所有下级选择，然后请求新的下级列表。
// 并发防护采用 last-request-wins：每个槽位持有单调递增的请求序号，
// 响应到达时序号已被更新的一律丢弃，不中断在途请求本身。
type Cascade struct {
	mu       sync.Mutex
	provider LookupProvider
	draft    *Draft

	states     []Option
	cities     []Option
	localities []Option

	stateSeq    uint64
	citySeq     uint64
	localitySeq uint64

	loadingStates     bool
	loadingCities     bool
	loadingLocalities bool

	// 城市下无片区数据时降级为自由文本输入（刻意的回退，不是错误）
	freeTextLocality bool
}

// NewCascade 创建级联联动器，绑定草稿的位置字段
func NewCascade(provider LookupProvider, draft *Draft) *Cascade {
	return &Cascade{provider: provider, draft: draft}
}

// SetCountry 选择国家：重置省/市/片区后请求省份列表
func (c *Cascade) SetCountry(ctx context.Context, countryID int64) error {
	c.mu.Lock()
	c.draft.CountryID = countryID
	c.draft.StateID = 0
	c.draft.CityID = 0
	c.draft.Locality = ""
	c.states, c.cities, c.localities = nil, nil, nil
	c.freeTextLocality = false

	// 本槽位发起新请求，同时作废下级槽位的所有在途请求
	c.stateSeq++
	seq := c.stateSeq
	c.citySeq++
	c.localitySeq++
	c.loadingStates = true
	c.loadingCities = false
	c.loadingLocalities = false
	c.mu.Unlock()

	options, err := c.provider.States(ctx, countryID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.stateSeq {
		// 过期响应：期间国家又变了，丢弃
		return nil
	}
	c.loadingStates = false
	if err != nil {
		return fmt.Errorf("获取省份列表失败: %v", err)
	}
	c.states = options
	return nil
}

// SetState 选择省份：重置市/片区后请求城市列表
func (c *Cascade) SetState(ctx context.Context, stateID int64) error {
	c.mu.Lock()
	c.draft.StateID = stateID
	c.draft.CityID = 0
	c.draft.Locality = ""
	c.cities, c.localities = nil, nil
	c.freeTextLocality = false

	c.citySeq++
	seq := c.citySeq
	c.localitySeq++
	c.loadingCities = true
	c.loadingLocalities = false
	c.mu.Unlock()

	options, err := c.provider.Cities(ctx, stateID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.citySeq {
		return nil
	}
	c.loadingCities = false
	if err != nil {
		return fmt.Errorf("获取城市列表失败: %v", err)
	}
	c.cities = options
	return nil
}

// SetCity 选择城市：清空片区后请求片区列表
// 返回空列表时降级为自由文本输入
func (c *Cascade) SetCity(ctx context.Context, cityID int64) error {
	c.mu.Lock()
	c.draft.CityID = cityID
	c.draft.Locality = ""
	c.localities = nil
	c.freeTextLocality = false

	c.localitySeq++
	seq := c.localitySeq
	c.loadingLocalities = true
	c.mu.Unlock()

	options, err := c.provider.Localities(ctx, cityID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.localitySeq {
		return nil
	}
	c.loadingLocalities = false
	if err != nil {
		return fmt.Errorf("获取片区列表失败: %v", err)
	}
	c.localities = options
	c.freeTextLocality = len(options) == 0
	if len(options) > 0 {
		// 下拉列表就绪后，加载期间手填的自由文本片区已过期，一并清除
		c.draft.Locality = ""
	}
	return nil
}

// SetLocality 选择或填写片区
func (c *Cascade) SetLocality(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Locality = name
}

// ==================== 只读访问 ====================

// States 当前省份选项
func (c *Cascade) States() []Option {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Option(nil), c.states...)
}

// Cities 当前城市选项
func (c *Cascade) Cities() []Option {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Option(nil), c.cities...)
}

// Localities 当前片区选项
func (c *Cascade) Localities() []Option {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Option(nil), c.localities...)
}

// Loading 各槽位的加载状态（省, 市, 片区）
func (c *Cascade) Loading() (states, cities, localities bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadingStates, c.loadingCities, c.loadingLocalities
}

// FreeTextLocality 片区是否已降级为自由文本输入
func (c *Cascade) FreeTextLocality() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.freeTextLocality
}
