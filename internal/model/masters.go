package model

import "time"

// ==================== 基础数据模型 ====================
// 类别/子类别/配套设施/套餐，前端每个会话拉取一次

// PropertyCategory 房源类别
type PropertyCategory struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time
	Code      string `gorm:"size:32;uniqueIndex;comment:类别编码"`
	Name      string `gorm:"size:64;comment:类别名称"`
	SortOrder int    `gorm:"comment:排序"`

	// 关联
	Subcategories []PropertySubcategory `gorm:"foreignKey:CategoryID"`
}

func (*PropertyCategory) TableName() string {
	return "property_categories"
}

// PropertySubcategory 房源子类别（如公寓、独栋、写字楼、厂房）
type PropertySubcategory struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt  time.Time
	CategoryID int64  `gorm:"index;not null;comment:所属类别ID"`
	Code       string `gorm:"size:32;comment:子类别编码"`
	Name       string `gorm:"size:64;comment:子类别名称"`
	SortOrder  int    `gorm:"comment:排序"`
}

func (*PropertySubcategory) TableName() string {
	return "property_subcategories"
}

// Amenity 配套设施
type Amenity struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time
	Code      string `gorm:"size:32;uniqueIndex;comment:设施编码"`
	Name      string `gorm:"size:64;comment:设施名称"`
	Icon      string `gorm:"size:64;comment:图标"`
}

func (*Amenity) TableName() string {
	return "amenities"
}

// ListingPlan 发布套餐
type ListingPlan struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt  time.Time
	Code       string `gorm:"size:32;uniqueIndex;comment:套餐编码"`
	Name       string `gorm:"size:64;comment:套餐名称"`
	Tier       string `gorm:"size:16;comment:档位 free/paid"`
	Price      int64  `gorm:"comment:价格"`
	PhotoLimit int    `gorm:"comment:图片数量上限"`
	ActiveDays int    `gorm:"comment:有效天数"`
	Featured   bool   `gorm:"comment:是否精选展示"`
}

func (*ListingPlan) TableName() string {
	return "listing_plans"
}
