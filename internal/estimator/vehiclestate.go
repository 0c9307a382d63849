package estimator

import (
	"math"

	"github.com/flyby-avionics/altikf/internal/numeric"
)

// VehicleState is the read-only snapshot handed to callers by Task's
// GetVehicleState. x and y are always zero: this filter never estimates
// horizontal position. dx and dy are body-frame linear velocities; dz is
// expressed in the world frame (see Filter.GetVehicleState). Angles are in
// degrees (ENU convention), rates in degrees/second, positions and
// velocities in meters and meters/second.
type VehicleState struct {
	X, Y, Z            float64
	DX, DY, DZ         float64
	Phi, Theta, Psi    float64
	DPhi, DTheta, DPsi float64
}

// PackedAltitude packs Z and DZ into a single uint32 for a low-bandwidth
// telemetry link: Z as millimeters in the high 16 bits (signed, clamped to
// the int16 range), DZ as millimeters/second in the low 16 bits under the
// same clamp.
func (v VehicleState) PackedAltitude() uint32 {
	packZ := clampInt16(v.Z * 1000)
	packDZ := clampInt16(v.DZ * 1000)
	return uint32(uint16(packZ))<<16 | uint32(uint16(packDZ))
}

func clampInt16(v float64) int16 {
	return int16(numeric.Clamp(math.Round(v), -32768, 32767))
}
