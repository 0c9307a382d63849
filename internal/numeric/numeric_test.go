package numeric

import "testing"

func TestClamp(t *testing.T) {
	cases := []struct {
		value, min, max, want float64
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
	}
	for _, c := range cases {
		if got := Clamp(c.value, c.min, c.max); got != c.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", c.value, c.min, c.max, got, c.want)
		}
	}
}

func TestFloorAt(t *testing.T) {
	if got := FloorAt(0.05, 0.1); got != 0.1 {
		t.Errorf("FloorAt(0.05, 0.1) = %v, want 0.1", got)
	}
	if got := FloorAt(0.5, 0.1); got != 0.5 {
		t.Errorf("FloorAt(0.5, 0.1) = %v, want 0.5", got)
	}
}
