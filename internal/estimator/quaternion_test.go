package estimator

import (
	"math"
	"testing"
)

func TestQuaternionNormalized(t *testing.T) {
	q := Quaternion{W: 2, X: 0, Y: 0, Z: 0}.Normalized()
	norm := q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z
	if math.Abs(norm-1) > 1e-6 {
		t.Fatalf("|q|^2 = %v, want ~1", norm)
	}
}

func TestMulIdentity(t *testing.T) {
	q := Quaternion{W: 0.5, X: 0.5, Y: 0.5, Z: 0.5}
	got := q.Mul(IdentityQuaternion)
	if got != q {
		t.Fatalf("q*identity = %v, want %v", got, q)
	}
}

func TestDeltaQuaternionSmallAngle(t *testing.T) {
	dq := deltaQuaternion(0, 0, 0)
	if math.Abs(dq.W-1) > 1e-6 {
		t.Fatalf("deltaQuaternion(0,0,0).W = %v, want ~1", dq.W)
	}
}

func TestRevertTowardPullsToInitial(t *testing.T) {
	q := Quaternion{W: 0, X: 1, Y: 0, Z: 0}
	got := q.RevertToward(IdentityQuaternion, 1)
	if got != IdentityQuaternion {
		t.Fatalf("RevertToward with factor=1 = %v, want identity", got)
	}
}

func TestBodyZAxisUpright(t *testing.T) {
	r := bodyZAxis(IdentityQuaternion)
	want := [3]float64{0, 0, 1}
	if r != want {
		t.Fatalf("bodyZAxis(identity) = %v, want %v", r, want)
	}
}

func TestBodyZAxisYaw90(t *testing.T) {
	// A pure yaw rotation should leave the body-z axis at (0,0,1).
	q := deltaQuaternion(0, 0, math.Pi/2)
	r := bodyZAxis(q)
	if math.Abs(r[2]-1) > 1e-6 {
		t.Fatalf("bodyZAxis after yaw-only rotation: rz = %v, want ~1", r[2])
	}
}
