package estimator

import (
	"math"

	"github.com/flyby-avionics/altikf/ekf"
	"github.com/flyby-avionics/altikf/internal/numeric"
)

// rangefinderNoiseK is the exponential-model growth rate derived from the two
// calibration points (A, stdA) and (B, stdB).
var rangefinderNoiseK = math.Log(rangefinderNoiseStdB/rangefinderNoiseStdA) / (rangefinderNoiseB - rangefinderNoiseA)

// UpdateWithRange applies one downward time-of-flight range sample, gated by
// tilt angle and the outlier limit. It reports whether the sample was
// applied.
func (f *Filter) UpdateWithRange(mm uint32) bool {
	if mm >= RangefinderOutlierLimitMM {
		return false
	}

	rz := f.r[2]
	if rz <= 0.1 {
		return false
	}

	alpha := numeric.FloorAt(math.Abs(math.Acos(rz))-rangefinderTiltLimitDeg*degToRad, 0)
	cosAlpha := math.Cos(alpha)

	zMeasured := float64(mm) / 1000
	zPredicted := f.core.X[StateZ] / cosAlpha

	var h ekf.Vector
	h[StateZ] = 1 / cosAlpha

	sigma := rangefinderNoiseStdA * (1 + math.Exp(rangefinderNoiseK*(zMeasured-rangefinderNoiseA)))

	f.core.Update(h, zMeasured-zPredicted, sigma)
	return true
}

// UpdateWithFlow applies the two scalar optical-flow updates (x then y) for
// one sample spanning dt seconds, with dpx/dpy in raw sensor units (pixel
// counts x10).
func (f *Filter) UpdateWithFlow(dt float64, dpx, dpy int32) {
	rz := f.r[2]
	z := numeric.FloorAt(f.core.X[StateZ], flowAltitudeFloor)

	gyro := f.gyroLatest

	k := dt * flowPixelsPerAxis / flowThetaPix

	// X axis.
	{
		predicted := k * (f.core.X[StateDX]*rz/z - gyro.Y)
		measured := float64(dpx) * flowResolution

		var h ekf.Vector
		h[StateZ] = k * (rz * f.core.X[StateDX]) / (-z * z)
		h[StateDX] = k * rz / z

		sigma := flowStdFixed * flowResolution
		f.core.Update(h, measured-predicted, sigma)
	}

	// Y axis, sign-flipped on omega and DY in place of DX.
	{
		predicted := k * (f.core.X[StateDY]*rz/z + gyro.X)
		measured := float64(dpy) * flowResolution

		var h ekf.Vector
		h[StateZ] = k * (rz * f.core.X[StateDY]) / (-z * z)
		h[StateDY] = k * rz / z

		sigma := flowStdFixed * flowResolution
		f.core.Update(h, measured-predicted, sigma)
	}
}
