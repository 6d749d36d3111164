package service

import (
	"context"
	"sync"
	"time"

	"estate_dev_v1_202608/internal/api/dto"
	"estate_dev_v1_202608/internal/repository"
)

// ==================== MastersService 基础数据服务 ====================

// 基础数据变化极少，内存缓存一段时间避免每次请求打库
const mastersCacheTTL = 10 * time.Minute

// MastersService 类别/设施/套餐基础数据服务
type MastersService struct {
	repo repository.MastersRepository

	mu        sync.RWMutex
	cached    *dto.MastersResponse
	fetchedAt time.Time
}

// NewMastersService 创建基础数据服务
func NewMastersService(repo repository.MastersRepository) *MastersService {
	return &MastersService{repo: repo}
}

// GetMasters 获取全量基础数据
func (s *MastersService) GetMasters(ctx context.Context) (*dto.MastersResponse, error) {
	s.mu.RLock()
	if s.cached != nil && time.Since(s.fetchedAt) < mastersCacheTTL {
		cached := s.cached
		s.mu.RUnlock()
		return cached, nil
	}
	s.mu.RUnlock()

	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	amenities, err := s.repo.Amenities(ctx)
	if err != nil {
		return nil, err
	}
	plans, err := s.repo.Plans(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.MastersResponse{
		Categories: make([]dto.CategoryVO, len(categories)),
		Amenities:  make([]dto.AmenityVO, len(amenities)),
		Plans:      make([]dto.PlanVO, len(plans)),
	}

	for i, c := range categories {
		vo := dto.CategoryVO{
			ID:            c.ID,
			Code:          c.Code,
			Name:          c.Name,
			Subcategories: make([]dto.SubcategoryVO, len(c.Subcategories)),
		}
		for j, sub := range c.Subcategories {
			vo.Subcategories[j] = dto.SubcategoryVO{ID: sub.ID, Code: sub.Code, Name: sub.Name}
		}
		resp.Categories[i] = vo
	}

	for i, a := range amenities {
		resp.Amenities[i] = dto.AmenityVO{ID: a.ID, Code: a.Code, Name: a.Name, Icon: a.Icon}
	}

	for i, p := range plans {
		resp.Plans[i] = dto.PlanVO{
			ID: p.ID, Code: p.Code, Name: p.Name, Tier: p.Tier,
			Price: p.Price, PhotoLimit: p.PhotoLimit, ActiveDays: p.ActiveDays, Featured: p.Featured,
		}
	}

	s.mu.Lock()
	s.cached = resp
	s.fetchedAt = time.Now()
	s.mu.Unlock()

	return resp, nil
}

// GetPlan 按编码查套餐
func (s *MastersService) GetPlan(ctx context.Context, code string) (*dto.PlanVO, error) {
	plan, err := s.repo.GetPlanByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return &dto.PlanVO{
		ID: plan.ID, Code: plan.Code, Name: plan.Name, Tier: plan.Tier,
		Price: plan.Price, PhotoLimit: plan.PhotoLimit, ActiveDays: plan.ActiveDays, Featured: plan.Featured,
	}, nil
}
