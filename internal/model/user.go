package model

import (
	"time"

	"gorm.io/gorm"
)

// ==================== 用户状态常量 ====================

const (
	UserStatusActive   = 1
	UserStatusDisabled = 0

	UserRoleOwner = "owner"
	UserRoleAgent = "agent"
	UserRoleAdmin = "admin"

	// OTP 有效期与尝试上限
	OtpTTLMinutes  = 5
	OtpMaxAttempts = 5
)

// ==================== 数据库模型 ====================

// User 用户（手机号 + OTP 登录，无密码）
type User struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
	Phone       string         `gorm:"size:16;uniqueIndex;not null;comment:手机号"`
	Name        string         `gorm:"size:64;comment:姓名"`
	Email       string         `gorm:"size:128;comment:邮箱"`
	Role        string         `gorm:"size:16;default:owner;comment:角色"`
	Status      int            `gorm:"default:1;comment:状态 1启用 0禁用"`
	Balance     int64          `gorm:"default:0;comment:钱包余额"`
	LastLoginAt *time.Time     `gorm:"comment:最后登录时间"`
}

func (*User) TableName() string {
	return "users"
}

// OtpCode 一次性验证码记录
// 验证码只存 bcrypt 摘要，明文不落库
type OtpCode struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"index"`
	Phone     string    `gorm:"size:16;index;not null;comment:手机号"`
	Reference string    `gorm:"size:64;uniqueIndex;comment:OTP引用号"`
	CodeHash  string    `gorm:"size:128;comment:验证码摘要"`
	ExpiresAt time.Time `gorm:"index;comment:过期时间"`
	Attempts  int       `gorm:"default:0;comment:已尝试次数"`
	Used      bool      `gorm:"default:false;comment:是否已使用"`
}

func (*OtpCode) TableName() string {
	return "otp_codes"
}

// ==================== 辅助方法 ====================

// CanVerify 检查该验证码记录是否还可用于校验
func (o *OtpCode) CanVerify(now time.Time) bool {
	return !o.Used && o.Attempts < OtpMaxAttempts && o.ExpiresAt.After(now)
}
