package wizard

import "strconv"

// ==================== 校验门 ====================

// FieldError 单个字段的阻塞性错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validate 校验门：纯函数，对 (草稿快照, 步骤) 返回有序的阻塞错误列表
// 不修改草稿，可重复调用，调用方可借此探测合法性而不触发跳转
func Validate(d *Draft, step Step) []FieldError {
	var errs []FieldError

	switch step {
	case StepCategory:
		errs = validateCategory(d, errs)
	case StepDetails:
		errs = validateDetails(d, errs)
	case StepLocation:
		errs = validateLocation(d, errs)
	case StepMedia:
		// 图片为可选项，上限约束由附件管理器在添加时执行
	case StepContact:
		errs = validateContact(d, errs)
	}

	return errs
}

// ValidateAll 发布前对全部步骤做一次完整校验
func ValidateAll(d *Draft) []FieldError {
	var errs []FieldError
	for step := StepFirst; step <= StepFinal; step++ {
		errs = append(errs, Validate(d, step)...)
	}
	return errs
}

// ==================== 分步规则 ====================

func validateCategory(d *Draft, errs []FieldError) []FieldError {
	if !d.Category.Valid() {
		errs = append(errs, FieldError{Field: "category", Message: "请选择房源类别"})
		return errs
	}
	if !d.Intent.Valid() {
		errs = append(errs, FieldError{Field: "intent", Message: "请选择交易意向"})
	}

	// 类别对应的子类型必填（project 无子类型）
	if field, value := d.SubtypeField(); field != "" && value == "" {
		errs = append(errs, FieldError{Field: field, Message: "请选择具体类型"})
	}

	// 付费档位必须选定具体套餐
	if d.PlanTier == PlanTierPaid && d.SelectedPlan == "" {
		errs = append(errs, FieldError{Field: "selected_plan", Message: "请选择付费套餐"})
	}
	return errs
}

func validateDetails(d *Draft, errs []FieldError) []FieldError {
	// 面积与价格对所有类别必填
	if d.Area == "" {
		errs = append(errs, FieldError{Field: "area", Message: "请填写面积"})
	} else if !isPositiveInt(d.Area) {
		errs = append(errs, FieldError{Field: "area", Message: "面积必须为正整数"})
	}

	if d.Price == "" {
		errs = append(errs, FieldError{Field: "price", Message: "请填写价格"})
	} else if !isPositiveInt(d.Price) {
		errs = append(errs, FieldError{Field: "price", Message: "价格必须为正整数"})
	}

	// 户型仅住宅和合租类别必填
	if d.NeedsBHK() && d.BHK == "" {
		errs = append(errs, FieldError{Field: "bhk", Message: "请选择户型"})
	}
	return errs
}

func validateLocation(d *Draft, errs []FieldError) []FieldError {
	if d.CountryID == 0 {
		errs = append(errs, FieldError{Field: "country_id", Message: "请选择国家"})
	}
	if d.StateID == 0 {
		errs = append(errs, FieldError{Field: "state_id", Message: "请选择省份"})
	}
	if d.CityID == 0 {
		errs = append(errs, FieldError{Field: "city_id", Message: "请选择城市"})
	}
	if d.Locality == "" {
		errs = append(errs, FieldError{Field: "locality", Message: "请填写片区"})
	}

	if d.Pincode == "" {
		errs = append(errs, FieldError{Field: "pincode", Message: "请填写邮编"})
	} else if !isPincode(d.Pincode) {
		errs = append(errs, FieldError{Field: "pincode", Message: "邮编必须为6位数字"})
	}
	return errs
}

func validateContact(d *Draft, errs []FieldError) []FieldError {
	if d.OwnerName == "" {
		errs = append(errs, FieldError{Field: "owner_name", Message: "请填写业主姓名"})
	}

	if d.OwnerPhone == "" {
		errs = append(errs, FieldError{Field: "owner_phone", Message: "请填写联系电话"})
	} else if !isPhone(d.OwnerPhone) {
		errs = append(errs, FieldError{Field: "owner_phone", Message: "联系电话必须为10位数字"})
	}
	return errs
}

// ==================== 格式检查 ====================

func isPositiveInt(s string) bool {
	n, err := strconv.ParseInt(s, 10, 64)
	return err == nil && n > 0
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

func isPincode(s string) bool {
	return len(s) == 6 && isDigits(s)
}

func isPhone(s string) bool {
	return len(s) == 10 && isDigits(s)
}
