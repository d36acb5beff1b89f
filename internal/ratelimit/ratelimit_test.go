package ratelimit

import (
	"errors"
	"testing"
)

func TestLimiter_TotalCap(t *testing.T) {
	l := NewLimiter(2, nil)
	if err := l.Use(PurposeClassify); err != nil {
		t.Fatal(err)
	}
	if err := l.Use(PurposeRewrite); err != nil {
		t.Fatal(err)
	}
	if err := l.Use(PurposeCompose); !errors.Is(err, ErrBudgetExhausted) {
		t.Fatalf("third request: err = %v, want ErrBudgetExhausted", err)
	}
	stats := l.GetStats()
	if stats["total_used"] != 2 || stats["denied"] != 1 {
		t.Errorf("unexpected stats %v", stats)
	}
}

func TestLimiter_PurposeCap(t *testing.T) {
	l := NewLimiter(0, nil)
	l.SetLimit(PurposeClassify, 1)

	if err := l.Use(PurposeClassify); err != nil {
		t.Fatal(err)
	}
	if err := l.Use(PurposeClassify); !errors.Is(err, ErrBudgetExhausted) {
		t.Errorf("classify should be exhausted, got %v", err)
	}
	for i := 0; i < 10; i++ {
		if err := l.Use(PurposeRewrite); err != nil {
			t.Fatalf("unlimited purpose rejected: %v", err)
		}
	}

	stats := l.GetStats()
	if stats["classify_used"] != 1 || stats["classify_limit"] != 1 || stats["rewrite_used"] != 10 || stats["denied"] != 1 {
		t.Errorf("unexpected stats %v", stats)
	}
}

func TestLimiter_NilIsUnlimited(t *testing.T) {
	var l *Limiter
	if err := l.Use(PurposeRewrite); err != nil {
		t.Fatalf("nil limiter should allow, got %v", err)
	}
	if stats := l.GetStats(); len(stats) != 0 {
		t.Errorf("nil limiter stats = %v", stats)
	}
}
