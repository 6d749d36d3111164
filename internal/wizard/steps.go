package wizard

// ==================== 步骤定义 ====================

// Step 向导步骤序号，固定 5 步
type Step int

const (
	StepCategory Step = iota + 1 // 类别
	StepDetails                  // 详情
	StepLocation                 // 位置
	StepMedia                    // 图片
	StepContact                  // 联系方式

	StepFirst = StepCategory
	StepFinal = StepContact
)

// String 步骤名称
func (s Step) String() string {
	switch s {
	case StepCategory:
		return "category"
	case StepDetails:
		return "details"
	case StepLocation:
		return "location"
	case StepMedia:
		return "media"
	case StepContact:
		return "contact"
	}
	return "unknown"
}

// Valid 判断序号是否在合法区间
func (s Step) Valid() bool {
	return s >= StepFirst && s <= StepFinal
}
