package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"estate_dev_v1_202608/internal/model"
)

// ==================== 仓储接口 ====================

// UserRepository 用户仓储接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByPhone(ctx context.Context, phone string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdateLastLogin(ctx context.Context, id int64) error
}

// OtpRepository OTP 记录仓储接口
type OtpRepository interface {
	Create(ctx context.Context, otp *model.OtpCode) error
	GetLatestByPhone(ctx context.Context, phone string) (*model.OtpCode, error)
	IncrementAttempts(ctx context.Context, id int64) error
	MarkUsed(ctx context.Context, id int64) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// ==================== User 仓储实现 ====================

type userRepo struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByPhone 按手机号查找，不存在时返回 (nil, nil)
func (r *userRepo) GetByPhone(ctx context.Context, phone string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepo) UpdateLastLogin(ctx context.Context, id int64) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("last_login_at", now).Error
}

// ==================== OTP 仓储实现 ====================

type otpRepo struct {
	db *gorm.DB
}

// NewOtpRepository 创建 OTP 仓储
func NewOtpRepository(db *gorm.DB) OtpRepository {
	return &otpRepo{db: db}
}

func (r *otpRepo) Create(ctx context.Context, otp *model.OtpCode) error {
	return r.db.WithContext(ctx).Create(otp).Error
}

// GetLatestByPhone 获取该手机号最近一条 OTP 记录
func (r *otpRepo) GetLatestByPhone(ctx context.Context, phone string) (*model.OtpCode, error) {
	var otp model.OtpCode
	err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		Order("id DESC").
		First(&otp).Error
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

func (r *otpRepo) IncrementAttempts(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&model.OtpCode{}).
		Where("id = ?", id).
		Update("attempts", gorm.Expr("attempts + 1")).Error
}

func (r *otpRepo) MarkUsed(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&model.OtpCode{}).
		Where("id = ?", id).
		Update("used", true).Error
}

// DeleteExpired 清理过期 OTP 记录，返回删除数量
func (r *otpRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&model.OtpCode{})
	return result.RowsAffected, result.Error
}
