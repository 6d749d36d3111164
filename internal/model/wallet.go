package model

import (
	"time"

	"gorm.io/gorm"
)

// ==================== 钱包与互动模型 ====================

const (
	// 流水类型
	WalletTxnCredit = "credit"
	WalletTxnDebit  = "debit"
)

// WalletTransaction 钱包流水（账本），余额变动必须伴随一条流水
type WalletTransaction struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	CreatedAt   time.Time `gorm:"index"`
	UserID      int64     `gorm:"index;not null;comment:用户ID"`
	Amount      int64     `gorm:"not null;comment:金额"`
	Type        string    `gorm:"size:16;index;comment:类型 credit/debit"`
	Description string    `gorm:"size:255;comment:说明"`
	ReferenceID int64     `gorm:"index;comment:关联单据ID"`
}

func (*WalletTransaction) TableName() string {
	return "wallet_transactions"
}

// Enquiry 房源咨询
type Enquiry struct {
	ID        int64          `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time      `gorm:"index"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	ListingID int64          `gorm:"index;not null;comment:房源ID"`
	UserID    int64          `gorm:"index;comment:咨询用户ID"`
	Name      string         `gorm:"size:64;comment:姓名"`
	Phone     string         `gorm:"size:16;comment:电话"`
	Message   string         `gorm:"type:text;comment:留言"`
}

func (*Enquiry) TableName() string {
	return "enquiries"
}

// SavedListing 用户收藏的房源
type SavedListing struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"index"`
	UserID    int64     `gorm:"uniqueIndex:idx_saved_user_listing;not null;comment:用户ID"`
	ListingID int64     `gorm:"uniqueIndex:idx_saved_user_listing;not null;comment:房源ID"`
}

func (*SavedListing) TableName() string {
	return "saved_listings"
}
