package estimator

import "testing"

func TestSelfTestPassesLevelStationary(t *testing.T) {
	task := NewTask()
	if err := task.SelfTest(0); err != nil {
		t.Fatalf("SelfTest() = %v, want nil for a level, stationary IMU sample", err)
	}
}

func TestRequestStateDoesNotBlockOnRepeat(t *testing.T) {
	task := NewTask()
	task.RequestState()
	task.RequestState() // must not deadlock: signal already pending

	task.AwaitState()
}

func TestGetVehicleStateReflectsLatestStep(t *testing.T) {
	task := NewTask()
	task.Initialize(0)
	task.EnqueueRange(1000, false)
	task.Step(PredictionIntervalMsec)

	state := task.GetVehicleState()
	if state.Z == 0 {
		t.Fatal("vehicle state Z unchanged after a range update, want nonzero")
	}
}

func TestEnqueueFromISRContext(t *testing.T) {
	task := NewTask()
	task.Initialize(0)

	if !task.EnqueueGyro(Axis3{X: 1}, true) {
		t.Fatal("EnqueueGyro(isr=true) failed on an empty queue")
	}
}
