package estimator

// Kind tags the variant carried by a Measurement.
type Kind int

const (
	KindGyroscope Kind = iota
	KindAccelerometer
	KindFlow
	KindRange
)

// Measurement is a tagged union over the four producer-supplied sample
// types the driver drains from the measurement queue each tick.
type Measurement struct {
	Kind Kind

	Axis Axis3 // KindGyroscope, KindAccelerometer

	FlowDt  float64 // KindFlow, seconds
	FlowDPX int32   // KindFlow, raw sensor units (pixel count x10)
	FlowDPY int32   // KindFlow, raw sensor units (pixel count x10)

	RangeMM uint32 // KindRange, millimeters
}

// GyroscopeMeasurement builds a gyro sample measurement.
func GyroscopeMeasurement(sample Axis3) Measurement {
	return Measurement{Kind: KindGyroscope, Axis: sample}
}

// AccelerometerMeasurement builds an accel sample measurement.
func AccelerometerMeasurement(sample Axis3) Measurement {
	return Measurement{Kind: KindAccelerometer, Axis: sample}
}

// FlowMeasurement builds an optical-flow sample measurement.
func FlowMeasurement(dt float64, dpx, dpy int32) Measurement {
	return Measurement{Kind: KindFlow, FlowDt: dt, FlowDPX: dpx, FlowDPY: dpy}
}

// RangeMeasurement builds a range-finder sample measurement.
func RangeMeasurement(mm uint32) Measurement {
	return Measurement{Kind: KindRange, RangeMM: mm}
}

// apply dispatches the measurement to the sub-sampler or the fusion layer.
func (f *Filter) apply(m Measurement) {
	switch m.Kind {
	case KindGyroscope:
		f.AccumulateGyro(m.Axis)
	case KindAccelerometer:
		f.AccumulateAccel(m.Axis)
	case KindFlow:
		f.UpdateWithFlow(m.FlowDt, m.FlowDPX, m.FlowDPY)
	case KindRange:
		f.UpdateWithRange(m.RangeMM)
	}
}
