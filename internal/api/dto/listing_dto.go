package dto

// ==================== 请求 DTO ====================

// ListListingsRequest 房源列表请求
type ListListingsRequest struct {
	Status   string `form:"status"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}

// EnquiryRequest 房源咨询请求
type EnquiryRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Message string `json:"message"`
}

// ==================== 响应 DTO ====================

// ListingSummaryVO 房源列表项
type ListingSummaryVO struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Intent    string `json:"intent"`
	Price     int64  `json:"price"`
	Area      int64  `json:"area"`
	CityID    int64  `json:"city_id"`
	Locality  string `json:"locality"`
	Status    string `json:"status"`
	CoverURL  string `json:"cover_url"`
	CreatedAt string `json:"created_at"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// ListingDetailVO 房源详情
type ListingDetailVO struct {
	ID              int64    `json:"id"`
	Category        string   `json:"category"`
	Intent          string   `json:"intent"`
	ResidentialType string   `json:"residential_type,omitempty"`
	CommercialType  string   `json:"commercial_type,omitempty"`
	IndustrialType  string   `json:"industrial_type,omitempty"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	BHK             string   `json:"bhk,omitempty"`
	Bathrooms       string   `json:"bathrooms,omitempty"`
	Balconies       string   `json:"balconies,omitempty"`
	Area            int64    `json:"area"`
	Price           int64    `json:"price"`
	Furnishing      string   `json:"furnishing,omitempty"`
	Facing          string   `json:"facing,omitempty"`
	PropertyAge     string   `json:"property_age,omitempty"`
	Amenities       []string `json:"amenities"`
	CountryID       int64    `json:"country_id"`
	StateID         int64    `json:"state_id"`
	CityID          int64    `json:"city_id"`
	Locality        string   `json:"locality"`
	Society         string   `json:"society,omitempty"`
	Pincode         string   `json:"pincode"`
	Negotiable      bool     `json:"negotiable"`
	Urgent          bool     `json:"urgent"`
	LoanAvailable   bool     `json:"loan_available"`
	Featured        bool     `json:"featured"`
	HideNumber      bool     `json:"hide_number"`
	VirtualTour     bool     `json:"virtual_tour"`
	OwnerName       string   `json:"owner_name"`
	OwnerPhone      string   `json:"owner_phone,omitempty"`
	PlanTier        string   `json:"plan_tier"`
	SelectedPlan    string   `json:"selected_plan,omitempty"`
	Status          string   `json:"status"`
	Photos          []string `json:"photos"`
	Saved           bool     `json:"saved"`
	CreatedAt       string   `json:"created_at"`
	PublishedAt     string   `json:"published_at,omitempty"`
}

// EnquiryVO 咨询记录
type EnquiryVO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

// SaveToggleResult 收藏切换结果
type SaveToggleResult struct {
	Saved bool `json:"saved"`
}

// WalletVO 钱包余额
type WalletVO struct {
	Balance int64 `json:"balance"`
}

// WalletTxnVO 钱包流水项
type WalletTxnVO struct {
	ID          int64  `json:"id"`
	Amount      int64  `json:"amount"`
	Type        string `json:"type"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}
