package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"estate_dev_v1_202608/internal/model"
)

// ==================== 仓储接口 ====================

// ListingRepository 房源仓储接口
type ListingRepository interface {
	Create(ctx context.Context, listing *model.Listing) error
	GetByID(ctx context.Context, id int64) (*model.Listing, error)
	GetByIDForUser(ctx context.Context, id, userID int64) (*model.Listing, error)
	Update(ctx context.Context, listing *model.Listing) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ListingFilter) ([]model.Listing, int64, error)

	// 过期维护相关
	FindExpired(ctx context.Context, before time.Time) ([]*model.Listing, error)
	MarkExpired(ctx context.Context, id int64) error
}

// ListingPhotoRepository 房源图片仓储接口
type ListingPhotoRepository interface {
	CreateBatch(ctx context.Context, photos []model.ListingPhoto) error
	GetByListingID(ctx context.Context, listingID int64) ([]model.ListingPhoto, error)
	DeleteByListingID(ctx context.Context, listingID int64) error
}

// ==================== 过滤条件 ====================

// ListingFilter 房源查询条件
type ListingFilter struct {
	UserID   int64
	Status   string
	Category string
	CityID   int64
	Page     int
	PageSize int
}

// ==================== Listing 仓储实现 ====================

type listingRepo struct {
	db *gorm.DB
}

// NewListingRepository 创建房源仓储
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepo{db: db}
}

func (r *listingRepo) Create(ctx context.Context, listing *model.Listing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

func (r *listingRepo) GetByID(ctx context.Context, id int64) (*model.Listing, error) {
	var listing model.Listing
	if err := r.db.WithContext(ctx).Preload("Photos", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_index ASC")
	}).First(&listing, id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepo) GetByIDForUser(ctx context.Context, id, userID int64) (*model.Listing, error) {
	var listing model.Listing
	err := r.db.WithContext(ctx).
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("sort_index ASC") }).
		Where("id = ? AND user_id = ?", id, userID).
		First(&listing).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepo) Update(ctx context.Context, listing *model.Listing) error {
	return r.db.WithContext(ctx).Save(listing).Error
}

func (r *listingRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Listing{}).Where("id = ?", id).Updates(fields).Error
}

func (r *listingRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Listing{}, id).Error
}

func (r *listingRepo) List(ctx context.Context, filter ListingFilter) ([]model.Listing, int64, error) {
	var listings []model.Listing
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Listing{})

	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.CityID > 0 {
		query = query.Where("city_id = ?", filter.CityID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	offset := (filter.Page - 1) * filter.PageSize
	if err := query.Order("created_at DESC").Limit(filter.PageSize).Offset(offset).Find(&listings).Error; err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}

// FindExpired 查找发布后超过有效期的房源
func (r *listingRepo) FindExpired(ctx context.Context, before time.Time) ([]*model.Listing, error) {
	var listings []*model.Listing
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at < ?", model.ListingStatusPublished, before).
		Find(&listings).Error
	return listings, err
}

// MarkExpired 标记房源为过期
func (r *listingRepo) MarkExpired(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Listing{}).
		Where("id = ?", id).
		Update("status", model.ListingStatusExpired).Error
}

// ==================== ListingPhoto 仓储实现 ====================

type listingPhotoRepo struct {
	db *gorm.DB
}

// NewListingPhotoRepository 创建房源图片仓储
func NewListingPhotoRepository(db *gorm.DB) ListingPhotoRepository {
	return &listingPhotoRepo{db: db}
}

func (r *listingPhotoRepo) CreateBatch(ctx context.Context, photos []model.ListingPhoto) error {
	if len(photos) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&photos).Error
}

func (r *listingPhotoRepo) GetByListingID(ctx context.Context, listingID int64) ([]model.ListingPhoto, error) {
	var photos []model.ListingPhoto
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("sort_index ASC").
		Find(&photos).Error
	return photos, err
}

func (r *listingPhotoRepo) DeleteByListingID(ctx context.Context, listingID int64) error {
	return r.db.WithContext(ctx).Where("listing_id = ?", listingID).Delete(&model.ListingPhoto{}).Error
}

// ==================== 事务支持 ====================

// ListingUnitOfWork 房源工作单元（事务）
type ListingUnitOfWork struct {
	db       *gorm.DB
	Listings ListingRepository
	Photos   ListingPhotoRepository
}

// NewListingUnitOfWork 创建工作单元
func NewListingUnitOfWork(db *gorm.DB) *ListingUnitOfWork {
	return &ListingUnitOfWork{
		db:       db,
		Listings: NewListingRepository(db),
		Photos:   NewListingPhotoRepository(db),
	}
}

// Transaction 执行事务
func (u *ListingUnitOfWork) Transaction(ctx context.Context, fn func(uow *ListingUnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txUow := &ListingUnitOfWork{
			db:       tx,
			Listings: NewListingRepository(tx),
			Photos:   NewListingPhotoRepository(tx),
		}
		return fn(txUow)
	})
}
