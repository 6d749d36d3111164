package service

import (
	"context"

	"estate_dev_v1_202608/internal/repository"
	"estate_dev_v1_202608/internal/wizard"
)

// ==================== LocationService 位置服务 ====================

// LocationService 位置级联数据服务
// 同时实现 wizard.LookupProvider，向导会话直接以它为数据源
type LocationService struct {
	repo repository.LocationRepository
}

// NewLocationService 创建位置服务
func NewLocationService(repo repository.LocationRepository) *LocationService {
	return &LocationService{repo: repo}
}

// Countries 国家列表（静态）
func (s *LocationService) Countries(ctx context.Context) ([]wizard.Option, error) {
	countries, err := s.repo.Countries(ctx)
	if err != nil {
		return nil, err
	}
	options := make([]wizard.Option, len(countries))
	for i, c := range countries {
		options[i] = wizard.Option{ID: c.ID, Name: c.Name}
	}
	return options, nil
}

// States 按国家查省份
func (s *LocationService) States(ctx context.Context, countryID int64) ([]wizard.Option, error) {
	states, err := s.repo.StatesByCountry(ctx, countryID)
	if err != nil {
		return nil, err
	}
	options := make([]wizard.Option, len(states))
	for i, st := range states {
		options[i] = wizard.Option{ID: st.ID, Name: st.Name}
	}
	return options, nil
}

// Cities 按省份查城市
func (s *LocationService) Cities(ctx context.Context, stateID int64) ([]wizard.Option, error) {
	cities, err := s.repo.CitiesByState(ctx, stateID)
	if err != nil {
		return nil, err
	}
	options := make([]wizard.Option, len(cities))
	for i, c := range cities {
		options[i] = wizard.Option{ID: c.ID, Name: c.Name}
	}
	return options, nil
}

// Localities 按城市查片区，空列表是合法结果（表单侧降级为自由文本）
func (s *LocationService) Localities(ctx context.Context, cityID int64) ([]wizard.Option, error) {
	localities, err := s.repo.LocalitiesByCity(ctx, cityID)
	if err != nil {
		return nil, err
	}
	options := make([]wizard.Option, len(localities))
	for i, l := range localities {
		options[i] = wizard.Option{ID: l.ID, Name: l.Name}
	}
	return options, nil
}
