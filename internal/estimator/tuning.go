package estimator

// Tunable constants for the attitude/altitude estimator. Grouped the way
// the estimator's board-support firmware groups its own configuration: one
// file, plain const blocks, no file-based or environment-variable override
// surface.

// State vector indices, in the order Z, DX, DY, DZ, E0, E1, E2.
const (
	StateZ = iota
	StateDX
	StateDY
	StateDZ
	StateE0
	StateE1
	StateE2
)

const (
	// PredictionIntervalMsec is the target prediction period: 10ms == 100Hz.
	PredictionIntervalMsec = 10

	// Gravity is the standard-gravity constant used throughout prediction
	// and the accel-to-attitude coupling terms.
	Gravity = 9.81

	// After any mutation of P, MinCovariance floors every diagonal entry
	// and MaxCovariance caps every diagonal and off-diagonal entry.
	MinCovariance = 1e-6
	MaxCovariance = 100

	// MaxPosition and MaxVelocity gate the bounds checker.
	MaxPosition = 100 // meters
	MaxVelocity = 10  // m/s

	// RollPitchZeroReversion pulls the attitude quaternion toward level
	// while the vehicle is not flying.
	RollPitchZeroReversion = 1e-3

	// Eps avoids division by zero when normalizing near-zero rotations.
	Eps = 1e-6

	// RangefinderOutlierLimitMM gates range-finder updates.
	RangefinderOutlierLimitMM = 5000

	// Rangefinder exponential noise model: stdev = stdA*(1 + exp(k*(z-A))),
	// with k chosen so that the exponential term is 1 at altitude A and
	// stdB/stdA at altitude B (stdev 2*stdA at A, stdA+stdB at B).
	rangefinderNoiseA      = 2.5   // meters
	rangefinderNoiseStdA   = 0.0025
	rangefinderNoiseB      = 4.0   // meters
	rangefinderNoiseStdB   = 0.2
	rangefinderTiltLimitDeg = 7.5

	// Optical-flow camera model.
	flowPixelsPerAxis  = 35.0
	flowThetaPix       = 0.71674 // 2*sin(21deg)
	flowResolution     = 0.1
	flowStdFixed       = 2.0
	flowAltitudeFloor  = 0.1

	// Initial-state standard deviations: position, velocity, and attitude
	// uncertainty assumed at startup.
	stdevInitialPositionZ          = 1.0
	stdevInitialVelocity           = 0.01
	stdevInitialAttitudeRollPitch  = 0.01
	stdevInitialAttitudeYaw        = 0.01

	// measNoiseGyro and procNoiseAtt feed the process-noise term added to
	// the attitude-error diagonal on every prediction that crosses the
	// process-noise update interval: sigma = measNoiseGyro*dt + procNoiseAtt.
	measNoiseGyro = 0.1 // radians per second
	procNoiseAtt  = 0.0

	// WarningHoldBackMsec throttles both console warning kinds.
	WarningHoldBackMsec = 2000

	// MeasurementQueueCapacity bounds the measurement queue.
	MeasurementQueueCapacity = 20

	// RateSupervisorWindowMsec, RateSupervisorLow/High mirror the original
	// estimator task's rate-supervisor construction parameters verbatim.
	RateSupervisorWindowMsec = 1000
	RateSupervisorLow        = 99
	RateSupervisorHigh       = 101
)

const degToRad = 3.14159265358979323846 / 180.0
