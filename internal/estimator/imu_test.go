package estimator

import "testing"

func TestAccumulatorTakeMean(t *testing.T) {
	var a Accumulator
	a.Accumulate(Axis3{X: 1, Y: 2, Z: 3})
	a.Accumulate(Axis3{X: 3, Y: 4, Z: 5})

	got := a.TakeMean(1)
	want := Axis3{X: 2, Y: 3, Z: 4}
	if got != want {
		t.Fatalf("TakeMean = %v, want %v", got, want)
	}
}

func TestAccumulatorRetainsMeanOnEmptyWindow(t *testing.T) {
	var a Accumulator
	a.Accumulate(Axis3{X: 1, Y: 1, Z: 1})
	first := a.TakeMean(1)

	second := a.TakeMean(1)
	if second != first {
		t.Fatalf("TakeMean with no samples = %v, want previous mean %v", second, first)
	}
}

func TestAccumulatorAppliesFactor(t *testing.T) {
	var a Accumulator
	a.Accumulate(Axis3{X: 10, Y: 0, Z: 0})

	got := a.TakeMean(0.1)
	if got.X != 1 {
		t.Fatalf("TakeMean(0.1) X = %v, want 1", got.X)
	}
}
