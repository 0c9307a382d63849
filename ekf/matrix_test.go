package ekf

import "testing"

func TestTransposeRoundTrip(t *testing.T) {
	var a Matrix
	a[0][1] = 2
	a[2][5] = -3

	tt := Transpose(Transpose(a))
	if tt != a {
		t.Fatalf("double transpose changed matrix: got %v, want %v", tt, a)
	}
}

func TestMatMulIdentity(t *testing.T) {
	var a Matrix
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			a[i][j] = float64(i*N + j)
		}
	}

	got := MatMul(a, Identity())
	if got != a {
		t.Fatalf("A*I = %v, want %v", got, a)
	}
}

func TestMatVec(t *testing.T) {
	a := Diag(Vector{1, 2, 3, 4, 5, 6, 7})
	v := Vector{1, 1, 1, 1, 1, 1, 1}

	got := MatVec(a, v)
	want := Vector{1, 2, 3, 4, 5, 6, 7}
	if got != want {
		t.Fatalf("MatVec(diag, ones) = %v, want %v", got, want)
	}
}

func TestDot(t *testing.T) {
	a := Vector{1, 2, 3, 0, 0, 0, 0}
	b := Vector{4, 5, 6, 0, 0, 0, 0}
	if got, want := Dot(a, b), 32.0; got != want {
		t.Fatalf("Dot = %v, want %v", got, want)
	}
}

func TestOuterShape(t *testing.T) {
	a := Vector{1, 0, 0, 0, 0, 0, 0}
	b := Vector{0, 0, 1, 0, 0, 0, 0}

	got := Outer(a, b)
	if got[0][2] != 1 {
		t.Fatalf("Outer(e0,e2)[0][2] = %v, want 1", got[0][2])
	}
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			if i == 0 && j == 2 {
				continue
			}
			if got[i][j] != 0 {
				t.Fatalf("Outer(e0,e2)[%d][%d] = %v, want 0", i, j, got[i][j])
			}
		}
	}
}

func TestVectorAddScale(t *testing.T) {
	v := Vector{1, 2, 3, 4, 5, 6, 7}
	w := v.Scale(2).Add(Vector{})
	for i := 0; i < N; i++ {
		if w[i] != v[i]*2 {
			t.Fatalf("Scale(2)[%d] = %v, want %v", i, w[i], v[i]*2)
		}
	}
}
