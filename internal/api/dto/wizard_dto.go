package dto

import "estate_dev_v1_202608/internal/wizard"

// ==================== 请求 DTO ====================

// StartWizardRequest 开启向导会话请求，listing_id 非 0 时从服务端草稿回填
type StartWizardRequest struct {
	ListingID int64 `json:"listing_id"`
}

// JumpStepRequest 步骤指示器跳转请求
type JumpStepRequest struct {
	Step int `json:"step" binding:"required"`
}

// UpdateDraftRequest 草稿字段更新请求
// 全部为指针字段，只应用请求中出现的键；位置三级字段会触发级联重置
type UpdateDraftRequest struct {
	Category     *string `json:"category"`
	Intent       *string `json:"intent"`
	PlanTier     *string `json:"plan_tier"`
	SelectedPlan *string `json:"selected_plan"`

	ResidentialType *string `json:"residential_type"`
	CommercialType  *string `json:"commercial_type"`
	IndustrialType  *string `json:"industrial_type"`

	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	BHK         *string   `json:"bhk"`
	Bathrooms   *string   `json:"bathrooms"`
	Balconies   *string   `json:"balconies"`
	Area        *string   `json:"area"`
	Price       *string   `json:"price"`
	Furnishing  *string   `json:"furnishing"`
	Facing      *string   `json:"facing"`
	PropertyAge *string   `json:"property_age"`
	Amenities   *[]string `json:"amenities"`

	CountryID *int64  `json:"country_id"`
	StateID   *int64  `json:"state_id"`
	CityID    *int64  `json:"city_id"`
	Locality  *string `json:"locality"`
	Society   *string `json:"society"`
	Pincode   *string `json:"pincode"`

	Negotiable    *bool `json:"negotiable"`
	Urgent        *bool `json:"urgent"`
	LoanAvailable *bool `json:"loan_available"`
	Featured      *bool `json:"featured"`
	HideNumber    *bool `json:"hide_number"`
	VirtualTour   *bool `json:"virtual_tour"`

	OwnerName  *string `json:"owner_name"`
	OwnerPhone *string `json:"owner_phone"`
}

// ==================== 响应 DTO ====================

// FieldErrorVO 字段级校验错误
type FieldErrorVO struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// StepResultVO 步骤导航结果，errors 非空表示被校验门阻塞且步骤未变
type StepResultVO struct {
	Step     int            `json:"step"`
	StepName string         `json:"step_name"`
	Errors   []FieldErrorVO `json:"errors,omitempty"`
}

// PhotoVO 会话中的图片附件
type PhotoVO struct {
	FileName   string `json:"file_name,omitempty"`
	Size       int64  `json:"size,omitempty"`
	PreviewURL string `json:"preview_url"`
	Remote     bool   `json:"remote"`
}

// PhotoAddVO 批量添加图片结果
type PhotoAddVO struct {
	Added            int       `json:"added"`
	RejectedOversize int       `json:"rejected_oversize"`
	Count            int       `json:"count"`
	Limit            int       `json:"limit"`
	Photos           []PhotoVO `json:"photos"`
}

// DraftVO 草稿快照
type DraftVO struct {
	ListingID       int64    `json:"listing_id"`
	Category        string   `json:"category"`
	Intent          string   `json:"intent"`
	PlanTier        string   `json:"plan_tier"`
	SelectedPlan    string   `json:"selected_plan"`
	ResidentialType string   `json:"residential_type"`
	CommercialType  string   `json:"commercial_type"`
	IndustrialType  string   `json:"industrial_type"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	BHK             string   `json:"bhk"`
	Bathrooms       string   `json:"bathrooms"`
	Balconies       string   `json:"balconies"`
	Area            string   `json:"area"`
	Price           string   `json:"price"`
	Furnishing      string   `json:"furnishing"`
	Facing          string   `json:"facing"`
	PropertyAge     string   `json:"property_age"`
	Amenities       []string `json:"amenities"`
	CountryID       int64    `json:"country_id"`
	StateID         int64    `json:"state_id"`
	CityID          int64    `json:"city_id"`
	Locality        string   `json:"locality"`
	Society         string   `json:"society"`
	Pincode         string   `json:"pincode"`
	Negotiable      bool     `json:"negotiable"`
	Urgent          bool     `json:"urgent"`
	LoanAvailable   bool     `json:"loan_available"`
	Featured        bool     `json:"featured"`
	HideNumber      bool     `json:"hide_number"`
	VirtualTour     bool     `json:"virtual_tour"`
	OwnerName       string   `json:"owner_name"`
	OwnerPhone      string   `json:"owner_phone"`
}

// WizardStateVO 向导会话全量状态
type WizardStateVO struct {
	Token            string          `json:"token"`
	Step             int             `json:"step"`
	StepName         string          `json:"step_name"`
	HighestStep      int             `json:"highest_step"`
	Draft            DraftVO         `json:"draft"`
	Photos           []PhotoVO       `json:"photos"`
	PhotoLimit       int             `json:"photo_limit"`
	States           []wizard.Option `json:"states"`
	Cities           []wizard.Option `json:"cities"`
	Localities       []wizard.Option `json:"localities"`
	FreeTextLocality bool            `json:"free_text_locality"`
}

// SaveDraftResult 草稿保存结果，返回可复用的服务端ID
type SaveDraftResult struct {
	ListingID int64 `json:"listing_id"`
}

// PublishResult 发布结果
type PublishResult struct {
	ListingID int64  `json:"listing_id"`
	Status    string `json:"status"`
}
