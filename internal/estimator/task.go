package estimator

import (
	"sync"

	"github.com/flyby-avionics/altikf/internal/console"
)

// Task is the driver/scheduler: the single-threaded cooperative state
// machine that sequences initialize/predict/update/finalize/read against a
// real-time clock and a measurement queue. An RTOS binary-signal wait
// becomes a buffered channel of depth one (Task.RequestState), and the
// data mutex becomes a sync.Mutex.
type Task struct {
	filter *Filter
	queue  *MeasurementQueue
	rate   *RateSupervisor
	warn   *console.Printer

	requestSignal chan struct{}

	mu    sync.Mutex
	state VehicleState

	isFlying           bool
	didResetEstimation bool

	started bool
}

// NewTask builds a Task with the default measurement queue capacity and
// warning holdback.
func NewTask() *Task {
	return &Task{
		filter:        NewFilter(),
		queue:         NewMeasurementQueue(MeasurementQueueCapacity),
		warn:          console.NewPrinter(WarningHoldBackMsec),
		requestSignal: make(chan struct{}, 1),
	}
}

// SelfTest runs two full ticks, each fed a quiescent, gravity-only accel
// sample, and reports an error if the resulting roll or pitch exceeds 5
// degrees. Velocities are not checked. It exists to give the hardware
// bridge an explicit startup gate rather than discovering a dead sensor
// only after takeoff.
func (t *Task) SelfTest(nowMsec uint32) error {
	t.Initialize(nowMsec)
	t.EnqueueAccel(Axis3{X: 0, Y: 0, Z: 1}, false)
	t.Step(nowMsec)
	t.EnqueueAccel(Axis3{X: 0, Y: 0, Z: 1}, false)
	t.Step(nowMsec + PredictionIntervalMsec)
	state := t.GetVehicleState()

	const tolerance = 5.0 // degrees
	if abs(state.Phi) > tolerance || abs(state.Theta) > tolerance {
		return errSelfTestTilt
	}
	return nil
}

// Initialize (re)initializes the estimator at nowMsec and arms the rate
// supervisor's first window.
func (t *Task) Initialize(nowMsec uint32) {
	t.filter.Initialize(nowMsec)
	t.rate = NewRateSupervisor(nowMsec, RateSupervisorWindowMsec, RateSupervisorLow, RateSupervisorHigh)
	t.didResetEstimation = false
	t.started = true
}

// SetFlying records the safety module's flying/not-flying verdict.
func (t *Task) SetFlying(flying bool) {
	t.isFlying = flying
}

// RequestState posts the binary signal a flight-control task uses to ask
// for a fresh snapshot. Posting is non-blocking: a pending request is not
// duplicated.
func (t *Task) RequestState() {
	select {
	case t.requestSignal <- struct{}{}:
	default:
	}
}

// AwaitState blocks until RequestState has been called, mirroring the
// estimator task's await-signal suspension point.
func (t *Task) AwaitState() {
	<-t.requestSignal
}

// EnqueueGyro enqueues a gyro sample from normal or interrupt context.
func (t *Task) EnqueueGyro(sample Axis3, isr bool) bool {
	return t.enqueue(GyroscopeMeasurement(sample), isr)
}

// EnqueueAccel enqueues an accel sample from normal or interrupt context.
func (t *Task) EnqueueAccel(sample Axis3, isr bool) bool {
	return t.enqueue(AccelerometerMeasurement(sample), isr)
}

// EnqueueFlow enqueues an optical-flow sample from normal or interrupt
// context.
func (t *Task) EnqueueFlow(dt float64, dpx, dpy int32, isr bool) bool {
	return t.enqueue(FlowMeasurement(dt, dpx, dpy), isr)
}

// EnqueueRange enqueues a range-finder sample from normal or interrupt
// context.
func (t *Task) EnqueueRange(mm uint32, isr bool) bool {
	return t.enqueue(RangeMeasurement(mm), isr)
}

func (t *Task) enqueue(m Measurement, isr bool) bool {
	if isr {
		return t.queue.EnqueueISR(m)
	}
	return t.queue.Enqueue(m)
}

// Step runs one full INIT→PREDICT→UPDATE*→FINALIZE→READ tick at nowMsec.
// Callers drive this from AwaitState in a loop; SelfTest and tests call it
// directly.
func (t *Task) Step(nowMsec uint32) {
	if !t.started || t.didResetEstimation {
		t.Initialize(nowMsec)
	}

	t.filter.SetFlying(t.isFlying)
	t.filter.Predict(nowMsec)

	t.queue.Drain(t.filter.apply)

	t.filter.Finalize()

	if !t.filter.WithinBounds() {
		t.didResetEstimation = true
		t.warn.Warn(nowMsec, "bounds", "State out of bounds, resetting")
	}

	if t.rate != nil {
		if closed, inBand := t.rate.Tick(nowMsec); closed && !inBand {
			t.warn.Warn(nowMsec, "rate", "Kalman prediction rate off")
		}
	}

	snapshot := t.filter.GetVehicleState()
	t.mu.Lock()
	t.state = snapshot
	t.mu.Unlock()
}

// GetVehicleState returns the most recent snapshot taken under the data
// mutex.
func (t *Task) GetVehicleState() VehicleState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Run drives Step forever, blocking on AwaitState between ticks, reading
// nowMsec from clock on each iteration. It never returns: ctx-style
// cancellation is out of scope for this package; callers that need
// shutdown should run this in a goroutine and stop feeding RequestState.
func (t *Task) Run(clock func() uint32) {
	for {
		t.AwaitState()
		t.Step(clock())
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

type selfTestError string

func (e selfTestError) Error() string { return string(e) }

const errSelfTestTilt = selfTestError("self-test: leveled IMU sample produced excessive tilt")
