//go:build tinygo

// Command sensorbridge drives the attitude/altitude estimator on real
// hardware: an LSM6DS3TR IMU over I2C, pushing samples into an
// estimator.Task and printing the resulting vehicle state over the console
// UART once per tick. It is the only place in this module that imports
// tinygo.org/x/drivers or machine; everything else is portable and
// testable under the plain Go toolchain.
package main

import (
	"fmt"
	"machine"
	"time"

	"tinygo.org/x/drivers/lsm6ds3tr"

	"github.com/flyby-avionics/altikf/internal/estimator"
)

const (
	microGToG      = 1e-6
	microDPSToDegS = 1e-6
)

var (
	lsm  *lsm6ds3tr.Device
	task *estimator.Task
)

func main() {
	time.Sleep(2 * time.Second)
	println("altikf sensorbridge")
	println("attitude/altitude estimator hardware bridge")

	i2c := machine.I2C0
	i2c.Configure(machine.I2CConfig{Frequency: 400 * machine.KHz})

	lsm = lsm6ds3tr.New(i2c)
	err := lsm.Configure(lsm6ds3tr.Configuration{
		AccelRange:      lsm6ds3tr.ACCEL_8G,
		AccelSampleRate: lsm6ds3tr.ACCEL_SR_104,
		GyroRange:       lsm6ds3tr.GYRO_1000DPS,
		GyroSampleRate:  lsm6ds3tr.GYRO_SR_104,
	})
	if err != nil {
		for {
			println("failed to configure LSM6DS3TR:", err.Error())
			time.Sleep(time.Second)
		}
	}
	if !lsm.Connected() {
		for {
			println("LSM6DS3TR not connected")
			time.Sleep(time.Second)
		}
	}
	println("LSM6DS3TR initialized.")

	task = estimator.NewTask()
	nowMsec := monotonicMsec()
	if err := task.SelfTest(nowMsec); err != nil {
		for {
			println("self-test failed:", err.Error())
			time.Sleep(time.Second)
		}
	}
	task.Initialize(nowMsec)
	task.SetFlying(false)
	println("estimator initialized.")

	ticker := time.NewTicker(estimator.PredictionIntervalMsec * time.Millisecond)
	defer ticker.Stop()

	for {
		<-ticker.C
		now := monotonicMsec()

		xG, yG, zG, err := lsm.ReadRotation()
		if err == nil {
			task.EnqueueGyro(estimator.Axis3{
				X: float64(xG) * microDPSToDegS,
				Y: float64(yG) * microDPSToDegS,
				Z: float64(zG) * microDPSToDegS,
			}, false)
		}

		xA, yA, zA, err := lsm.ReadAcceleration()
		if err == nil {
			task.EnqueueAccel(estimator.Axis3{
				X: float64(xA) * microGToG,
				Y: float64(yA) * microGToG,
				Z: float64(zA) * microGToG,
			}, false)
		}

		task.Step(now)

		state := task.GetVehicleState()
		println(fmt.Sprintf("z=%.3f dz=%.3f phi=%.2f theta=%.2f psi=%.2f",
			state.Z, state.DZ, state.Phi, state.Theta, state.Psi))
	}
}

var bootTime = time.Now()

// monotonicMsec returns milliseconds elapsed since process start, the
// platform clock the estimator's nowMsec parameters expect.
func monotonicMsec() uint32 {
	return uint32(time.Since(bootTime).Milliseconds())
}
