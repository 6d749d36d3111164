package dto

// ==================== 基础数据 DTO ====================

// MastersResponse 基础数据响应，每个会话拉取一次
type MastersResponse struct {
	Categories []CategoryVO `json:"categories"`
	Amenities  []AmenityVO  `json:"amenities"`
	Plans      []PlanVO     `json:"plans"`
}

// CategoryVO 类别
type CategoryVO struct {
	ID            int64           `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Subcategories []SubcategoryVO `json:"subcategories"`
}

// SubcategoryVO 子类别
type SubcategoryVO struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// AmenityVO 配套设施
type AmenityVO struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// PlanVO 发布套餐
type PlanVO struct {
	ID         int64  `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	Tier       string `json:"tier"`
	Price      int64  `json:"price"`
	PhotoLimit int    `json:"photo_limit"`
	ActiveDays int    `json:"active_days"`
	Featured   bool   `json:"featured"`
}
