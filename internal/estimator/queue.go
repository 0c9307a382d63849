package estimator

import "runtime"

// MeasurementQueue is the bounded single-producer/single-consumer queue
// sensor producers enqueue into and the driver drains once per tick. A
// buffered channel gives the same bounded-capacity, FIFO, drop-when-full
// semantics as the original RTOS queue without a separate lock.
type MeasurementQueue struct {
	ch chan Measurement
}

// NewMeasurementQueue builds a queue with the given capacity.
func NewMeasurementQueue(capacity int) *MeasurementQueue {
	return &MeasurementQueue{ch: make(chan Measurement, capacity)}
}

// Enqueue adds m from normal task context, dropping it silently if the
// queue is full.
func (q *MeasurementQueue) Enqueue(m Measurement) bool {
	select {
	case q.ch <- m:
		return true
	default:
		return false
	}
}

// EnqueueISR adds m from interrupt context. It never blocks; on success it
// yields the processor, mirroring the ISR-safe enqueue's conditional
// portYIELD when it has woken a higher-priority task.
func (q *MeasurementQueue) EnqueueISR(m Measurement) bool {
	select {
	case q.ch <- m:
		runtime.Gosched()
		return true
	default:
		return false
	}
}

// Drain removes and applies every measurement currently queued, without
// blocking for more to arrive.
func (q *MeasurementQueue) Drain(apply func(Measurement)) int {
	n := 0
	for {
		select {
		case m := <-q.ch:
			apply(m)
			n++
		default:
			return n
		}
	}
}
