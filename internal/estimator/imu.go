package estimator

// Axis3 is a three-axis sample in whatever units the sensor reports.
type Axis3 struct {
	X, Y, Z float64
}

// Accumulator sums samples between prediction ticks and emits their mean,
// preserving the previous mean whenever no samples arrived. One of these
// exists per IMU channel (gyro, accel), reset each time its mean is taken.
type Accumulator struct {
	sum   Axis3
	count int

	mean Axis3
}

// Accumulate adds a sample into the running sum.
func (a *Accumulator) Accumulate(sample Axis3) {
	a.sum.X += sample.X
	a.sum.Y += sample.Y
	a.sum.Z += sample.Z
	a.count++
}

// TakeMean returns sum*factor/count, converting units on the way out, then
// resets the accumulator. If no samples arrived since the last call, the
// previous mean is returned unchanged.
func (a *Accumulator) TakeMean(factor float64) Axis3 {
	if a.count > 0 {
		a.mean = Axis3{
			X: a.sum.X * factor / float64(a.count),
			Y: a.sum.Y * factor / float64(a.count),
			Z: a.sum.Z * factor / float64(a.count),
		}
	}
	a.sum = Axis3{}
	a.count = 0
	return a.mean
}
