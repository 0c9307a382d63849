package ekf

import "testing"

func TestInitializeSetsDiagonal(t *testing.T) {
	c := NewCore(0, 0)
	c.Initialize(1000, 10, Vector{1, 2, 3, 4, 5, 6, 7})

	for i := 0; i < N; i++ {
		if c.P[i][i] != float64(i+1) {
			t.Fatalf("P[%d][%d] = %v, want %v", i, i, c.P[i][i], i+1)
		}
		if c.X[i] != 0 {
			t.Fatalf("X[%d] = %v, want 0", i, c.X[i])
		}
	}
	if c.IsUpdated {
		t.Fatal("IsUpdated = true after Initialize, want false")
	}
}

func TestDueForPredictionRespectsDeadline(t *testing.T) {
	c := NewCore(0, 0)
	c.Initialize(0, 10, Vector{})

	if due, _, _ := c.DueForPrediction(5); due {
		t.Fatal("DueForPrediction(5) = true before the 10ms deadline")
	}
	due, dt, _ := c.DueForPrediction(10)
	if !due {
		t.Fatal("DueForPrediction(10) = false at the deadline")
	}
	if dt != 0.01 {
		t.Fatalf("dt = %v, want 0.01", dt)
	}
}

func TestCommitPredictionAdvancesDeadline(t *testing.T) {
	c := NewCore(0, 0)
	c.Initialize(0, 10, Vector{})
	c.CommitPrediction(10, Vector{1: 5}, Identity(), false)

	if c.X[1] != 5 {
		t.Fatalf("X[1] = %v, want 5", c.X[1])
	}
	if due, _, _ := c.DueForPrediction(15); due {
		t.Fatal("DueForPrediction(15) = true, want false before the next 10ms deadline")
	}
	if !c.IsUpdated {
		t.Fatal("IsUpdated = false after CommitPrediction, want true")
	}
}

func TestCleanupCovarianceEnforcesBounds(t *testing.T) {
	c := NewCore(1e-6, 100)
	c.Initialize(0, 10, Vector{1, 1, 1, 1, 1, 1, 1})

	c.P[0][0] = 1e9
	c.P[1][1] = -1
	c.P[2][3] = 5
	c.P[3][2] = -5 // asymmetric before cleanup
	c.cleanupCovariance()

	if c.P[0][0] != 100 {
		t.Fatalf("P[0][0] = %v, want ceiling 100", c.P[0][0])
	}
	if c.P[1][1] != 1e-6 {
		t.Fatalf("P[1][1] = %v, want floor 1e-6", c.P[1][1])
	}
	if c.P[2][3] != c.P[3][2] {
		t.Fatalf("P[2][3]=%v != P[3][2]=%v after cleanup", c.P[2][3], c.P[3][2])
	}
}

func TestCleanupCovarianceCollapsesNaN(t *testing.T) {
	c := NewCore(1e-6, 100)
	c.Initialize(0, 10, Vector{1, 1, 1, 1, 1, 1, 1})

	nan := 0.0
	nan = nan / nan
	c.P[4][4] = nan
	c.cleanupCovariance()

	if c.P[4][4] != 100 {
		t.Fatalf("P[4][4] = %v after NaN cleanup, want 100", c.P[4][4])
	}
}

func TestUpdateIsSymmetricAndBounded(t *testing.T) {
	c := NewCore(1e-6, 100)
	c.Initialize(0, 10, Vector{1, 1, 1, 1, 1, 1, 1})

	var h Vector
	h[0] = 1
	c.Update(h, 0.5, 0.1)

	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			if c.P[i][j] != c.P[j][i] {
				t.Fatalf("P not symmetric at [%d][%d]: %v vs %v", i, j, c.P[i][j], c.P[j][i])
			}
		}
		if c.P[i][i] < c.minCovariance || c.P[i][i] > c.maxCovariance {
			t.Fatalf("P[%d][%d] = %v out of bounds", i, i, c.P[i][i])
		}
	}
	if !c.IsUpdated {
		t.Fatal("IsUpdated = false after Update, want true")
	}
	if c.X[0] == 0 {
		t.Fatal("X[0] unchanged after a nonzero-innovation update")
	}
}
