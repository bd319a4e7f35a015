package fdi

import "testing"

func TestValid(t *testing.T) {
	tests := []struct {
		n    int
		want bool
	}{
		{11, true},
		{18, true},
		{28, true},
		{38, true},
		{48, true},
		{51, true},
		{55, true},
		{65, true},
		{75, true},
		{85, true},
		{0, false},
		{10, false},
		{19, false},
		{49, false},
		{56, false},
		{86, false},
		{91, false},
		{-11, false},
		{111, false},
	}

	for _, tt := range tests {
		if got := Valid(tt.n); got != tt.want {
			t.Errorf("Valid(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestPrimary(t *testing.T) {
	if Primary(16) {
		t.Error("16 is a permanent molar")
	}
	if !Primary(74) {
		t.Error("74 is a primary molar")
	}
	if Primary(58) {
		t.Error("58 is not a tooth")
	}
}

func TestCheck(t *testing.T) {
	if err := Check("numeroDiente", 0); err == nil || err.Error() != "numeroDiente is required" {
		t.Errorf("unexpected error for missing tooth: %v", err)
	}
	if err := Check("dienteA", 19); err == nil {
		t.Error("expected error for tooth 19")
	}
	if err := Check("dienteA", 21); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
