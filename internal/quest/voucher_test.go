package quest

import (
	"strings"
	"testing"
)

func TestNewVoucherCode(t *testing.T) {
	q := &Quest{ID: "quest_w1_urban", WeekNumber: 1}

	code := NewVoucherCode(q)
	if !strings.HasPrefix(code, "SQ-W1-") {
		t.Errorf("code %q missing quest prefix", code)
	}
	if code != strings.ToUpper(code) {
		t.Errorf("code %q is not uppercase", code)
	}
	if parts := strings.Split(code, "-"); len(parts) != 4 {
		t.Errorf("code %q should have 4 segments", code)
	}
}

func TestNewVoucherCodeDiffers(t *testing.T) {
	q := &Quest{ID: "quest_w1_urban", WeekNumber: 1}
	a := NewVoucherCode(q)
	b := NewVoucherCode(q)
	if a == b {
		t.Errorf("two codes generated back to back are identical: %q", a)
	}
}
