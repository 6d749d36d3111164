package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"estate_dev_v1_202608/internal/model"
)

// ==================== 仓储接口 ====================

// ErrInsufficientFunds 余额不足
var ErrInsufficientFunds = errors.New("余额不足")

// WalletRepository 钱包仓储接口
type WalletRepository interface {
	ListByUser(ctx context.Context, userID int64, page, pageSize int) ([]model.WalletTransaction, int64, error)
	// Debit 扣款并记流水，余额不足返回 ErrInsufficientFunds
	Debit(ctx context.Context, userID, amount int64, description string) error
	// Credit 充值并记流水
	Credit(ctx context.Context, userID, amount int64, description string) error
}

// EnquiryRepository 咨询仓储接口
type EnquiryRepository interface {
	Create(ctx context.Context, enquiry *model.Enquiry) error
	ListByListing(ctx context.Context, listingID int64) ([]model.Enquiry, error)
}

// SavedListingRepository 收藏仓储接口
type SavedListingRepository interface {
	Exists(ctx context.Context, userID, listingID int64) (bool, error)
	Create(ctx context.Context, saved *model.SavedListing) error
	Delete(ctx context.Context, userID, listingID int64) error
	ListByUser(ctx context.Context, userID int64) ([]model.SavedListing, error)
}

// ==================== Wallet 仓储实现 ====================

type walletRepo struct {
	db *gorm.DB
}

// NewWalletRepository 创建钱包流水仓储
func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepo{db: db}
}

func (r *walletRepo) ListByUser(ctx context.Context, userID int64, page, pageSize int) ([]model.WalletTransaction, int64, error) {
	var txns []model.WalletTransaction
	var total int64

	query := r.db.WithContext(ctx).Model(&model.WalletTransaction{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	if err := query.Order("id DESC").Limit(pageSize).Offset(offset).Find(&txns).Error; err != nil {
		return nil, 0, err
	}

	return txns, total, nil
}

// Debit 扣款走条件更新，余额列自带充足性守卫，避免读改写竞态
func (r *walletRepo) Debit(ctx context.Context, userID, amount int64, description string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.User{}).
			Where("id = ? AND balance >= ?", userID, amount).
			Update("balance", gorm.Expr("balance - ?", amount))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInsufficientFunds
		}
		return tx.Create(&model.WalletTransaction{
			UserID:      userID,
			Amount:      amount,
			Type:        model.WalletTxnDebit,
			Description: description,
		}).Error
	})
}

func (r *walletRepo) Credit(ctx context.Context, userID, amount int64, description string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.User{}).
			Where("id = ?", userID).
			Update("balance", gorm.Expr("balance + ?", amount)).Error; err != nil {
			return err
		}
		return tx.Create(&model.WalletTransaction{
			UserID:      userID,
			Amount:      amount,
			Type:        model.WalletTxnCredit,
			Description: description,
		}).Error
	})
}

// ==================== Enquiry 仓储实现 ====================

type enquiryRepo struct {
	db *gorm.DB
}

// NewEnquiryRepository 创建咨询仓储
func NewEnquiryRepository(db *gorm.DB) EnquiryRepository {
	return &enquiryRepo{db: db}
}

func (r *enquiryRepo) Create(ctx context.Context, enquiry *model.Enquiry) error {
	return r.db.WithContext(ctx).Create(enquiry).Error
}

func (r *enquiryRepo) ListByListing(ctx context.Context, listingID int64) ([]model.Enquiry, error) {
	var enquiries []model.Enquiry
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("id DESC").
		Find(&enquiries).Error
	return enquiries, err
}

// ==================== SavedListing 仓储实现 ====================

type savedListingRepo struct {
	db *gorm.DB
}

// NewSavedListingRepository 创建收藏仓储
func NewSavedListingRepository(db *gorm.DB) SavedListingRepository {
	return &savedListingRepo{db: db}
}

func (r *savedListingRepo) Exists(ctx context.Context, userID, listingID int64) (bool, error) {
	var saved model.SavedListing
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		First(&saved).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *savedListingRepo) Create(ctx context.Context, saved *model.SavedListing) error {
	return r.db.WithContext(ctx).Create(saved).Error
}

func (r *savedListingRepo) Delete(ctx context.Context, userID, listingID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Delete(&model.SavedListing{}).Error
}

func (r *savedListingRepo) ListByUser(ctx context.Context, userID int64) ([]model.SavedListing, error) {
	var saved []model.SavedListing
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&saved).Error
	return saved, err
}
