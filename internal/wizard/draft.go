// Package wizard 实现发布房源向导的核心状态机：
// 步骤推进、字段校验、图片附件管理、位置级联联动。
package wizard

// ==================== 枚举 ====================

// Category 房源类别
type Category string

const (
	CategoryResidential Category = "residential"
	CategoryCommercial  Category = "commercial"
	CategoryIndustrial  Category = "industrial"
	CategoryProject     Category = "project"
	CategoryPG          Category = "pg"
)

// Valid 判断是否为合法类别
func (c Category) Valid() bool {
	switch c {
	case CategoryResidential, CategoryCommercial, CategoryIndustrial, CategoryProject, CategoryPG:
		return true
	}
	return false
}

// Intent 交易意向
type Intent string

const (
	IntentSell Intent = "sell"
	IntentRent Intent = "rent"
	IntentPG   Intent = "pg"
)

// Valid 判断是否为合法意向
func (i Intent) Valid() bool {
	switch i {
	case IntentSell, IntentRent, IntentPG:
		return true
	}
	return false
}

// PlanTier 套餐档位
type PlanTier string

const (
	PlanTierFree PlanTier = "free"
	PlanTierPaid PlanTier = "paid"
)

// PhotoLimit 档位对应的图片数量上限
func (t PlanTier) PhotoLimit() int {
	if t == PlanTierPaid {
		return PaidPlanPhotoLimit
	}
	return FreePlanPhotoLimit
}

// ==================== 草稿快照 ====================

// Draft 房源草稿，向导全部步骤共同编辑的扁平快照
// 数字类输入保持表单原始字符串，由校验门负责格式检查
type Draft struct {
	// 首次保存成功后由服务端分配，0 表示仅存在于本地的匿名草稿
	ListingID int64

	// 第1步：类别
	Category     Category
	Intent       Intent
	PlanTier     PlanTier
	SelectedPlan string

	// 类别互斥的子类型，同一时刻只有 Category 选中的那个有意义
	ResidentialType string
	CommercialType  string
	IndustrialType  string

	// 第2步：详情
	Title       string
	Description string
	BHK         string
	Bathrooms   string
	Balconies   string
	Area        string
	Price       string
	Furnishing  string
	Facing      string
	PropertyAge string
	Amenities   []string

	// 第3步：位置（state_id 仅相对选定时的 country_id 有效，级联重置见 Cascade）
	CountryID int64
	StateID   int64
	CityID    int64
	Locality  string
	Society   string
	Pincode   string

	// 特性开关
	Negotiable    bool
	Urgent        bool
	LoanAvailable bool
	Featured      bool
	HideNumber    bool
	VirtualTour   bool

	// 第5步：联系信息
	OwnerName  string
	OwnerPhone string
}

// SubtypeField 返回当前类别对应的子类型字段名和值（封闭集合上的穷举分派）
func (d *Draft) SubtypeField() (field, value string) {
	switch d.Category {
	case CategoryResidential:
		return "residential_type", d.ResidentialType
	case CategoryCommercial:
		return "commercial_type", d.CommercialType
	case CategoryIndustrial:
		return "industrial_type", d.IndustrialType
	case CategoryProject:
		return "", ""
	case CategoryPG:
		return "residential_type", d.ResidentialType
	}
	return "", ""
}

// NeedsBHK 该类别是否要求户型字段
func (d *Draft) NeedsBHK() bool {
	return d.Category == CategoryResidential || d.Category == CategoryPG
}

// PhotoLimit 当前套餐下的图片数量上限
func (d *Draft) PhotoLimit() int {
	return d.PlanTier.PhotoLimit()
}
