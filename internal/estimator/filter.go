package estimator

import (
	"math"

	"github.com/flyby-avionics/altikf/ekf"
	"github.com/flyby-avionics/altikf/internal/numeric"
)

// Filter is the attitude/altitude error-state EKF: the domain-specific
// layer wrapped around the generic linear algebra and covariance mechanics
// in package ekf. It owns the attitude quaternion and the rotation row r
// that the Kalman core's generic Update/PropagateCovariance never see.
type Filter struct {
	core *ekf.Core

	quat Quaternion
	r    [3]float64

	gyroLatest Axis3 // radians/second, most recent sample
	gyroAccum  Accumulator
	accelAccum Accumulator

	isFlying bool
}

// NewFilter builds an uninitialized Filter; call Initialize before use.
func NewFilter() *Filter {
	return &Filter{core: ekf.NewCore(MinCovariance, MaxCovariance)}
}

// Initialize resets the filter to its startup state as of nowMsec: x=0,
// q=(1,0,0,0), r=(0,0,1), isFlying=false, isUpdated=false, and P set to the
// initial diagonal variances.
func (f *Filter) Initialize(nowMsec uint32) {
	diag := ekf.Vector{
		StateZ:  stdevInitialPositionZ * stdevInitialPositionZ,
		StateDX: stdevInitialVelocity * stdevInitialVelocity,
		StateDY: stdevInitialVelocity * stdevInitialVelocity,
		StateDZ: stdevInitialVelocity * stdevInitialVelocity,
		StateE0: stdevInitialAttitudeRollPitch * stdevInitialAttitudeRollPitch,
		StateE1: stdevInitialAttitudeRollPitch * stdevInitialAttitudeRollPitch,
		StateE2: stdevInitialAttitudeYaw * stdevInitialAttitudeYaw,
	}
	f.core.Initialize(nowMsec, PredictionIntervalMsec, diag)

	f.quat = IdentityQuaternion
	f.r = [3]float64{0, 0, 1}
	f.isFlying = false
	f.gyroLatest = Axis3{}
	f.gyroAccum = Accumulator{}
	f.accelAccum = Accumulator{}
}

// SetFlying records whether the vehicle is airborne, toggled by the safety
// module external to this filter.
func (f *Filter) SetFlying(flying bool) {
	f.isFlying = flying
}

// AccumulateGyro feeds one gyroscope sample (degrees/second, body frame)
// into the sub-sampler and records it as the latest sample for state reads.
func (f *Filter) AccumulateGyro(sample Axis3) {
	f.gyroAccum.Accumulate(sample)
	f.gyroLatest = Axis3{X: sample.X * degToRad, Y: sample.Y * degToRad, Z: sample.Z * degToRad}
}

// AccumulateAccel feeds one accelerometer sample (g, body frame) into the
// sub-sampler.
func (f *Filter) AccumulateAccel(sample Axis3) {
	f.accelAccum.Accumulate(sample)
}

// Predict runs the prediction step at most once per PredictionIntervalMsec
// deadline and reports whether it actually ran.
func (f *Filter) Predict(nowMsec uint32) bool {
	due, dt, addProcessNoise := f.core.DueForPrediction(nowMsec)
	if !due {
		return false
	}

	gyro := f.gyroAccum.TakeMean(degToRad)
	accel := f.accelAccum.TakeMean(Gravity)

	dt2 := dt * dt

	x := f.core.X
	rx, ry, rz := f.r[0], f.r[1], f.r[2]

	accx, accy := accel.X, accel.Y
	if f.isFlying {
		accx, accy = 0, 0
	}

	dxBody := x[StateDX]*dt + accx*dt2/2
	dyBody := x[StateDY]*dt + accy*dt2/2
	dzBody := x[StateDZ]*dt + accel.Z*dt2/2

	tmpDX, tmpDY, tmpDZ := x[StateDX], x[StateDY], x[StateDZ]

	var xNew ekf.Vector
	xNew[StateZ] = x[StateZ] + rx*dxBody + ry*dyBody + rz*dzBody - Gravity*dt2/2
	xNew[StateDX] = x[StateDX] + dt*(accx+gyro.Z*tmpDY-gyro.Y*tmpDZ-Gravity*rx)
	xNew[StateDY] = x[StateDY] + dt*(accy-gyro.Z*tmpDX+gyro.X*tmpDZ-Gravity*ry)
	xNew[StateDZ] = x[StateDZ] + dt*(accel.Z+gyro.Y*tmpDX-gyro.X*tmpDY-Gravity*rz)

	dq := deltaQuaternion(dt*gyro.X, dt*gyro.Y, dt*gyro.Z)
	newQuat := dq.Mul(f.quat)
	if !f.isFlying {
		newQuat = newQuat.RevertToward(IdentityQuaternion, RollPitchZeroReversion)
	}
	newQuat = newQuat.Normalized()

	var fJac ekf.Matrix
	for i := 0; i < ekf.N; i++ {
		fJac[i][i] = 1
	}

	e0, e1, e2 := gyro.X*dt/2, gyro.Y*dt/2, gyro.Z*dt/2
	fJac[StateE0][StateE0] = 1 - e1*e1/2 - e2*e2/2
	fJac[StateE0][StateE1] = e2 + e0*e1/2
	fJac[StateE0][StateE2] = -e1 + e0*e2/2
	fJac[StateE1][StateE0] = -e2 + e0*e1/2
	fJac[StateE1][StateE1] = 1 - e0*e0/2 - e2*e2/2
	fJac[StateE1][StateE2] = e0 + e1*e2/2
	fJac[StateE2][StateE0] = e1 + e0*e2/2
	fJac[StateE2][StateE1] = -e0 + e1*e2/2
	fJac[StateE2][StateE2] = 1 - e0*e0/2 - e1*e1/2

	fJac[StateZ][StateDX] = rx * dt
	fJac[StateZ][StateDY] = ry * dt
	fJac[StateZ][StateDZ] = rz * dt
	fJac[StateZ][StateE0] = (xNew[StateDY]*rz - xNew[StateDZ]*ry) * dt
	fJac[StateZ][StateE1] = (-xNew[StateDX]*rz + xNew[StateDZ]*rx) * dt
	fJac[StateZ][StateE2] = (xNew[StateDX]*ry - xNew[StateDY]*rx) * dt

	fJac[StateDX][StateDY] = gyro.Z * dt
	fJac[StateDX][StateDZ] = gyro.Y * dt
	fJac[StateDY][StateDX] = -gyro.Z * dt
	fJac[StateDY][StateDZ] = gyro.X * dt
	fJac[StateDZ][StateDX] = gyro.Y * dt
	fJac[StateDZ][StateDY] = gyro.X * dt

	fJac[StateDX][StateE1] = Gravity * rz * dt
	fJac[StateDX][StateE2] = -Gravity * ry * dt
	fJac[StateDY][StateE0] = -Gravity * rz * dt
	fJac[StateDY][StateE2] = Gravity * rx * dt
	fJac[StateDZ][StateE0] = Gravity * ry * dt
	fJac[StateDZ][StateE1] = -Gravity * rx * dt

	f.core.CommitPrediction(nowMsec, xNew, fJac, addProcessNoise)

	if addProcessNoise {
		f.quat = newQuat
		noiseSigma := measNoiseGyro*dt + procNoiseAtt
		f.core.AddProcessNoise(noiseSigma, StateE0, StateE1, StateE2)
	}

	return true
}

// Finalize folds the attitude-error substate back into the quaternion,
// refreshes the rotation row, and zeroes the attitude-error state. It is a
// no-op unless a prediction or update ran since the last finalize.
func (f *Filter) Finalize() {
	if !f.core.IsUpdated {
		return
	}

	v0, v1, v2 := f.core.X[StateE0], f.core.X[StateE1], f.core.X[StateE2]

	isErrorLarge := math.Abs(v0) > 1e-4 || math.Abs(v1) > 1e-4 || math.Abs(v2) > 1e-4
	isErrorInBounds := math.Abs(v0) < 10 && math.Abs(v1) < 10 && math.Abs(v2) < 10
	isErrorSufficient := isErrorLarge && isErrorInBounds

	if isErrorSufficient {
		dq := deltaQuaternion(v0, v1, v2)
		f.quat = dq.Mul(f.quat).Normalized()
	}

	e0, e1, e2 := v0/2, v1/2, v2/2
	a := ekf.Identity()
	a[StateE0][StateE0] = 1 - e1*e1/2 - e2*e2/2
	a[StateE0][StateE1] = e2 + e0*e1/2
	a[StateE0][StateE2] = -e1 + e0*e2/2
	a[StateE1][StateE0] = -e2 + e0*e1/2
	a[StateE1][StateE1] = 1 - e0*e0/2 - e2*e2/2
	a[StateE1][StateE2] = e0 + e1*e2/2
	a[StateE2][StateE0] = e1 + e0*e2/2
	a[StateE2][StateE1] = -e0 + e1*e2/2
	a[StateE2][StateE2] = 1 - e0*e0/2 - e1*e1/2

	f.core.PropagateCovariance(a)

	f.core.X[StateE0] = 0
	f.core.X[StateE1] = 0
	f.core.X[StateE2] = 0

	f.r = bodyZAxis(f.quat)

	f.core.IsUpdated = false
}

// WithinBounds reports whether the altitude and body-velocity magnitudes
// are inside the configured maxima.
func (f *Filter) WithinBounds() bool {
	x := f.core.X
	return math.Abs(x[StateZ]) < MaxPosition &&
		math.Abs(x[StateDX]) < MaxVelocity &&
		math.Abs(x[StateDY]) < MaxVelocity &&
		math.Abs(x[StateDZ]) < MaxVelocity
}

// Covariance returns a copy of the current covariance matrix.
func (f *Filter) Covariance() ekf.Matrix {
	return f.core.P
}

// State returns a copy of the current state vector.
func (f *Filter) State() ekf.Vector {
	return f.core.X
}

// Quaternion returns the current attitude quaternion.
func (f *Filter) Quaternion() Quaternion {
	return f.quat
}

// RotationRow returns the current body-z axis expressed in the world
// frame.
func (f *Filter) RotationRow() [3]float64 {
	return f.r
}

// GetVehicleState produces the outbound vehicle-state record: altitude and
// body-frame velocities, world-frame vertical velocity, Euler angles in
// degrees (ENU convention), and angular rates in degrees/second taken from
// the latest gyro sample. x and y are always zero: this filter never
// estimates horizontal position.
func (f *Filter) GetVehicleState() VehicleState {
	x := f.core.X
	q := f.quat

	dz := f.r[0]*x[StateDX] + f.r[1]*x[StateDY] + f.r[2]*x[StateDZ]

	const radToDeg = 180.0 / math.Pi

	phi := radToDeg * math.Atan2(2*(q.Y*q.Z+q.W*q.X), q.W*q.W-q.X*q.X-q.Y*q.Y+q.Z*q.Z)
	theta := -radToDeg * math.Asin(numeric.Clamp(-2*(q.X*q.Z-q.W*q.Y), -1, 1))
	psi := radToDeg * math.Atan2(2*(q.X*q.Y+q.W*q.Z), q.W*q.W+q.X*q.X-q.Y*q.Y-q.Z*q.Z)

	return VehicleState{
		X:      0,
		Y:      0,
		Z:      x[StateZ],
		DX:     x[StateDX],
		DY:     x[StateDY],
		DZ:     dz,
		Phi:    phi,
		Theta:  theta,
		Psi:    psi,
		DPhi:   f.gyroLatest.X * radToDeg,
		DTheta: -f.gyroLatest.Y * radToDeg,
		DPsi:   f.gyroLatest.Z * radToDeg,
	}
}
