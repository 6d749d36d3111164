package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ==================== 状态常量 ====================

const (
	// 房源状态
	ListingStatusDraft     = "draft"
	ListingStatusPublished = "published"
	ListingStatusRejected  = "rejected"
	ListingStatusExpired   = "expired"

	// 房源类别
	CategoryResidential = "residential"
	CategoryCommercial  = "commercial"
	CategoryIndustrial  = "industrial"
	CategoryProject     = "project"
	CategoryPG          = "pg"

	// 交易意向
	IntentSell = "sell"
	IntentRent = "rent"
	IntentPG   = "pg"

	// 套餐档位
	PlanTierFree = "free"
	PlanTierPaid = "paid"

	// 图片数量上限
	FreePlanPhotoLimit = 5
	PaidPlanPhotoLimit = 25

	// 发布有效期（天）
	ListingActiveDays = 90
)

// ==================== 数据库模型 ====================

// Listing 房源
type Listing struct {
	ID        int64          `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time      `gorm:"index"`
	UpdatedAt time.Time      `gorm:"index"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	UserID    int64          `gorm:"index;not null;comment:发布用户ID"`

	// 类别与意向
	Category        string `gorm:"size:32;index;comment:房源类别"`
	Intent          string `gorm:"size:16;index;comment:交易意向"`
	ResidentialType string `gorm:"size:64;comment:住宅类型"`
	CommercialType  string `gorm:"size:64;comment:商业类型"`
	IndustrialType  string `gorm:"size:64;comment:工业类型"`

	// 详情字段
	Title       string                      `gorm:"size:140;comment:标题"`
	Description string                      `gorm:"type:text;comment:描述"`
	BHK         string                      `gorm:"size:16;comment:户型"`
	Bathrooms   string                      `gorm:"size:16;comment:卫生间数"`
	Balconies   string                      `gorm:"size:16;comment:阳台数"`
	Area        int64                       `gorm:"comment:面积(平方英尺)"`
	Price       int64                       `gorm:"index;comment:价格"`
	Furnishing  string                      `gorm:"size:32;comment:装修情况"`
	Facing      string                      `gorm:"size:32;comment:朝向"`
	PropertyAge string                      `gorm:"size:32;comment:房龄"`
	Amenities   datatypes.JSONSlice[string] `gorm:"comment:配套设施"`

	// 位置
	CountryID int64  `gorm:"index;comment:国家ID"`
	StateID   int64  `gorm:"index;comment:省份ID"`
	CityID    int64  `gorm:"index;comment:城市ID"`
	Locality  string `gorm:"size:128;comment:片区"`
	Society   string `gorm:"size:128;comment:小区"`
	Pincode   string `gorm:"size:6;comment:邮编"`

	// 特性开关
	Negotiable    bool `gorm:"comment:价格可议"`
	Urgent        bool `gorm:"comment:急售"`
	LoanAvailable bool `gorm:"comment:可贷款"`
	Featured      bool `gorm:"comment:精选"`
	HideNumber    bool `gorm:"comment:隐藏电话"`
	VirtualTour   bool `gorm:"comment:虚拟看房"`

	// 联系信息
	OwnerName  string `gorm:"size:64;comment:业主姓名"`
	OwnerPhone string `gorm:"size:16;comment:业主电话"`

	// 套餐
	PlanTier     string `gorm:"size:16;default:free;comment:套餐档位"`
	SelectedPlan string `gorm:"size:32;comment:付费套餐编码"`

	// 状态
	Status      string     `gorm:"size:16;index;default:draft;comment:状态"`
	PublishedAt *time.Time `gorm:"comment:发布时间"`
	ExpiresAt   *time.Time `gorm:"index;comment:过期时间"`

	// 关联
	Photos []ListingPhoto `gorm:"foreignKey:ListingID"`
}

func (*Listing) TableName() string {
	return "listings"
}

// ListingPhoto 房源图片
// SortIndex 为 0 的图片即封面，封面身份完全由位置决定
type ListingPhoto struct {
	ID        int64          `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time      `gorm:"index"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	ListingID int64          `gorm:"index;not null;comment:房源ID"`
	SortIndex int            `gorm:"comment:排序位置"`
	URL       string         `gorm:"size:2048;comment:图片URL"`
	FileSize  int64          `gorm:"comment:文件大小(字节)"`
}

func (*ListingPhoto) TableName() string {
	return "listing_photos"
}

// ==================== 辅助方法 ====================

// PhotoLimit 根据套餐档位返回图片数量上限
func (l *Listing) PhotoLimit() int {
	if l.PlanTier == PlanTierPaid {
		return PaidPlanPhotoLimit
	}
	return FreePlanPhotoLimit
}

// MarkPublished 标记为已发布
func (l *Listing) MarkPublished(now time.Time) {
	expires := now.AddDate(0, 0, ListingActiveDays)
	l.Status = ListingStatusPublished
	l.PublishedAt = &now
	l.ExpiresAt = &expires
}

// IsExpired 判断发布是否已过期
func (l *Listing) IsExpired(now time.Time) bool {
	return l.Status == ListingStatusPublished && l.ExpiresAt != nil && l.ExpiresAt.Before(now)
}
