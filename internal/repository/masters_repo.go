package repository

import (
	"context"

	"gorm.io/gorm"

	"estate_dev_v1_202608/internal/model"
)

// ==================== 仓储接口 ====================

// MastersRepository 基础数据仓储接口
type MastersRepository interface {
	Categories(ctx context.Context) ([]model.PropertyCategory, error)
	Amenities(ctx context.Context) ([]model.Amenity, error)
	Plans(ctx context.Context) ([]model.ListingPlan, error)
	GetPlanByCode(ctx context.Context, code string) (*model.ListingPlan, error)
}

// ==================== 仓储实现 ====================

type mastersRepo struct {
	db *gorm.DB
}

// NewMastersRepository 创建基础数据仓储
func NewMastersRepository(db *gorm.DB) MastersRepository {
	return &mastersRepo{db: db}
}

// Categories 获取类别及子类别
func (r *mastersRepo) Categories(ctx context.Context) ([]model.PropertyCategory, error) {
	var categories []model.PropertyCategory
	err := r.db.WithContext(ctx).
		Preload("Subcategories", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Order("sort_order ASC").
		Find(&categories).Error
	return categories, err
}

func (r *mastersRepo) Amenities(ctx context.Context) ([]model.Amenity, error) {
	var amenities []model.Amenity
	err := r.db.WithContext(ctx).Order("id ASC").Find(&amenities).Error
	return amenities, err
}

func (r *mastersRepo) Plans(ctx context.Context) ([]model.ListingPlan, error) {
	var plans []model.ListingPlan
	err := r.db.WithContext(ctx).Order("price ASC").Find(&plans).Error
	return plans, err
}

func (r *mastersRepo) GetPlanByCode(ctx context.Context, code string) (*model.ListingPlan, error) {
	var plan model.ListingPlan
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}
