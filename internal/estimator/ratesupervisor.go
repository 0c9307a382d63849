package estimator

// RateSupervisor validates the observed number of driver iterations per
// windowMsec against an expected [low, high] band, matching the estimator
// task's rate-supervisor construction: window=1000ms, band=[99,101].
type RateSupervisor struct {
	windowMsec uint32
	low, high  uint32

	windowStartMsec uint32
	count           uint32
	ok              bool
}

// NewRateSupervisor builds a RateSupervisor starting its first window at
// nowMsec.
func NewRateSupervisor(nowMsec uint32, windowMsec, low, high uint32) *RateSupervisor {
	return &RateSupervisor{windowMsec: windowMsec, low: low, high: high, windowStartMsec: nowMsec, ok: true}
}

// Tick records one iteration at nowMsec and, whenever a window boundary is
// crossed, evaluates the observed count against the expected band. It
// reports whether the just-closed window (if any) was in-band; callers
// should ignore the result when no window closed.
func (r *RateSupervisor) Tick(nowMsec uint32) (windowClosed bool, inBand bool) {
	r.count++
	if nowMsec-r.windowStartMsec < r.windowMsec {
		return false, true
	}

	inBand = r.count >= r.low && r.count <= r.high
	r.ok = inBand
	r.count = 0
	r.windowStartMsec = nowMsec
	return true, inBand
}

// OK reports whether the most recently closed window was in-band.
func (r *RateSupervisor) OK() bool {
	return r.ok
}
