package mathutil

import "testing"

func TestAbsSign(t *testing.T) {
	if Abs(-3) != 3 || Abs(4) != 4 || Abs(-1.5) != 1.5 {
		t.Errorf("Abs returned unexpected values")
	}
	if Sign(-7) != -1 || Sign(0) != 0 || Sign(0.25) != 1 {
		t.Errorf("Sign returned unexpected values")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{3, 4, 2, 4},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestManhattan(t *testing.T) {
	if got := Manhattan(1, 1, 4, -2); got != 6 {
		t.Errorf("Expected 6, got %d", got)
	}
}
