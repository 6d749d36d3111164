package repository

import (
	"context"

	"gorm.io/gorm"

	"estate_dev_v1_202608/internal/model"
)

// ==================== 仓储接口 ====================

// LocationRepository 位置级联数据仓储（只读为主）
type LocationRepository interface {
	Countries(ctx context.Context) ([]model.Country, error)
	StatesByCountry(ctx context.Context, countryID int64) ([]model.State, error)
	CitiesByState(ctx context.Context, stateID int64) ([]model.City, error)
	LocalitiesByCity(ctx context.Context, cityID int64) ([]model.Locality, error)

	// 种子数据导入
	SeedCountries(ctx context.Context, countries []model.Country) error
}

// ==================== 仓储实现 ====================

type locationRepo struct {
	db *gorm.DB
}

// NewLocationRepository 创建位置仓储
func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepo{db: db}
}

func (r *locationRepo) Countries(ctx context.Context) ([]model.Country, error) {
	var countries []model.Country
	err := r.db.WithContext(ctx).Order("name ASC").Find(&countries).Error
	return countries, err
}

func (r *locationRepo) StatesByCountry(ctx context.Context, countryID int64) ([]model.State, error) {
	var states []model.State
	err := r.db.WithContext(ctx).
		Where("country_id = ?", countryID).
		Order("name ASC").
		Find(&states).Error
	return states, err
}

func (r *locationRepo) CitiesByState(ctx context.Context, stateID int64) ([]model.City, error) {
	var cities []model.City
	err := r.db.WithContext(ctx).
		Where("state_id = ?", stateID).
		Order("name ASC").
		Find(&cities).Error
	return cities, err
}

func (r *locationRepo) LocalitiesByCity(ctx context.Context, cityID int64) ([]model.Locality, error) {
	var localities []model.Locality
	err := r.db.WithContext(ctx).
		Where("city_id = ?", cityID).
		Order("name ASC").
		Find(&localities).Error
	return localities, err
}

func (r *locationRepo) SeedCountries(ctx context.Context, countries []model.Country) error {
	if len(countries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&countries).Error
}
