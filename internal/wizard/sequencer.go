package wizard

import "errors"

// ==================== 步骤推进器 ====================

// ErrStepNotReached 尝试跳转到尚未到达过的步骤
var ErrStepNotReached = errors.New("该步骤尚未到达，不能跳转")

// Sequencer 持有当前步骤序号并裁决所有跳转
// 前进必须通过校验门；后退无条件允许；跳转只能去到到达过的步骤
type Sequencer struct {
	current Step
	highest Step
}

// NewSequencer 创建推进器，初始位于第1步
func NewSequencer() *Sequencer {
	return &Sequencer{current: StepFirst, highest: StepFirst}
}

// Current 当前步骤
func (s *Sequencer) Current() Step {
	return s.current
}

// Highest 历史到达过的最高步骤
func (s *Sequencer) Highest() Step {
	return s.highest
}

// AtFinal 是否位于最后一步
func (s *Sequencer) AtFinal() bool {
	return s.current == StepFinal
}

// GoNext 校验当前步骤后前进一步
// 有阻塞错误时返回错误列表且步骤不变；最后一步校验通过时返回 nil
// 但不再前进，发布动作由调用方执行
func (s *Sequencer) GoNext(d *Draft) []FieldError {
	if errs := Validate(d, s.current); len(errs) > 0 {
		return errs
	}
	if s.current < StepFinal {
		s.current++
		if s.current > s.highest {
			s.highest = s.current
		}
	}
	return nil
}

// GoPrev 后退一步，下界为第1步，不做校验
func (s *Sequencer) GoPrev() Step {
	if s.current > StepFirst {
		s.current--
	}
	return s.current
}

// JumpTo 跳转到指定步骤，仅允许到达过的步骤（步骤指示器导航）
func (s *Sequencer) JumpTo(step Step) error {
	if !step.Valid() || step > s.highest {
		return ErrStepNotReached
	}
	s.current = step
	return nil
}
