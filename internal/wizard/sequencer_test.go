package wizard

import (
	"errors"
	"testing"
)

// ==================== 前进 ====================

func TestSequencer_GoNextBlockedByValidation(t *testing.T) {
	s := NewSequencer()
	d := &Draft{} // 空草稿，第1步必然不通过

	errs := s.GoNext(d)
	if len(errs) == 0 {
		t.Fatal("空草稿前进应该被校验门阻塞")
	}
	if s.Current() != StepCategory {
		t.Errorf("阻塞后步骤不应变化, got %v", s.Current())
	}
}

func TestSequencer_GoNextAdvances(t *testing.T) {
	s := NewSequencer()
	d := validDraft()

	if errs := s.GoNext(d); len(errs) != 0 {
		t.Fatalf("合法草稿前进被阻塞: %v", errs)
	}
	if s.Current() != StepDetails {
		t.Errorf("应该前进到第2步, got %v", s.Current())
	}
	if s.Highest() != StepDetails {
		t.Errorf("最高到达步骤应更新, got %v", s.Highest())
	}
}

func TestSequencer_GoNextAtFinalStaysPut(t *testing.T) {
	s := NewSequencer()
	d := validDraft()

	// 一路走到最后一步
	for i := 0; i < 4; i++ {
		if errs := s.GoNext(d); len(errs) != 0 {
			t.Fatalf("第%d次前进被阻塞: %v", i+1, errs)
		}
	}
	if !s.AtFinal() {
		t.Fatalf("应该位于最后一步, got %v", s.Current())
	}

	// 最后一步校验通过返回 nil 但不再前进，发布由调用方执行
	if errs := s.GoNext(d); len(errs) != 0 {
		t.Errorf("最后一步校验应通过: %v", errs)
	}
	if s.Current() != StepFinal {
		t.Errorf("最后一步不应再前进, got %v", s.Current())
	}
}

// ==================== 后退 ====================

func TestSequencer_GoPrevFlooredAtFirst(t *testing.T) {
	s := NewSequencer()
	if step := s.GoPrev(); step != StepFirst {
		t.Errorf("第1步后退应停在第1步, got %v", step)
	}
}

func TestSequencer_GoPrevSkipsValidation(t *testing.T) {
	s := NewSequencer()
	d := validDraft()
	s.GoNext(d)

	// 后退前把草稿改坏，后退依然允许
	d.Category = ""
	if step := s.GoPrev(); step != StepCategory {
		t.Errorf("后退不应做校验, got %v", step)
	}
}

// ==================== 跳转 ====================

func TestSequencer_JumpToReachedStep(t *testing.T) {
	s := NewSequencer()
	d := validDraft()
	s.GoNext(d)
	s.GoNext(d)
	// 当前第3步，最高第3步

	if err := s.JumpTo(StepCategory); err != nil {
		t.Fatalf("跳回到达过的步骤应允许: %v", err)
	}
	if s.Current() != StepCategory {
		t.Errorf("跳转后步骤错误, got %v", s.Current())
	}

	// 回跳后最高水位不降，可以直接跳回第3步
	if err := s.JumpTo(StepLocation); err != nil {
		t.Fatalf("跳回最高到达步骤应允许: %v", err)
	}
}

func TestSequencer_JumpToUnreachedStepRejected(t *testing.T) {
	s := NewSequencer()
	err := s.JumpTo(StepContact)
	if !errors.Is(err, ErrStepNotReached) {
		t.Errorf("跳转未到达步骤应返回 ErrStepNotReached, got %v", err)
	}
	if s.Current() != StepFirst {
		t.Errorf("拒绝跳转后步骤不应变化, got %v", s.Current())
	}
}

func TestSequencer_JumpToInvalidStep(t *testing.T) {
	s := NewSequencer()
	if err := s.JumpTo(Step(0)); err == nil {
		t.Error("非法步骤序号应被拒绝")
	}
	if err := s.JumpTo(Step(6)); err == nil {
		t.Error("越界步骤序号应被拒绝")
	}
}

// ==================== 往返 ====================

func TestSequencer_RoundTripPreservesHighest(t *testing.T) {
	s := NewSequencer()
	d := validDraft()
	s.GoNext(d)
	s.GoNext(d)
	s.GoPrev()
	s.GoPrev()

	if s.Current() != StepCategory {
		t.Errorf("往返后应回到第1步, got %v", s.Current())
	}
	if s.Highest() != StepLocation {
		t.Errorf("最高到达步骤应保持, got %v", s.Highest())
	}
}
