package ekf

import "math"

// MinCovariance and MaxCovariance are the default diagonal floor and global
// ceiling enforced on every covariance mutation.
const (
	MinCovariance = 1e-6
	MaxCovariance = 100
)

// Core owns the covariance P and state x of a fixed 7-state error-state
// Kalman filter, along with the timing bookkeeping needed to gate
// prediction to a fixed interval. It knows nothing about what the state
// entries mean; that belongs to the caller (see the estimator package).
type Core struct {
	P Matrix
	X Vector

	IsUpdated bool

	predictionIntervalMsec     uint32
	lastPredictionMsec         uint32
	lastProcessNoiseUpdateMsec uint32
	nextPredictionMsec         uint32

	minCovariance float64
	maxCovariance float64
}

// NewCore builds a Core with the given covariance bounds. Bounds default to
// MinCovariance/MaxCovariance when zero.
func NewCore(minCovariance, maxCovariance float64) *Core {
	if minCovariance == 0 {
		minCovariance = MinCovariance
	}
	if maxCovariance == 0 {
		maxCovariance = MaxCovariance
	}
	return &Core{minCovariance: minCovariance, maxCovariance: maxCovariance}
}

// Initialize resets x to zero, P to the given diagonal, and the last
// prediction and process-noise timestamps to nowMsec. The first prediction
// deadline is one predictionIntervalMsec after nowMsec.
func (c *Core) Initialize(nowMsec uint32, predictionIntervalMsec uint32, diag Vector) {
	c.predictionIntervalMsec = predictionIntervalMsec
	c.lastPredictionMsec = nowMsec
	c.lastProcessNoiseUpdateMsec = nowMsec
	c.nextPredictionMsec = nowMsec + predictionIntervalMsec
	c.IsUpdated = false

	c.X = Vector{}
	c.P = Diag(diag)
}

// DueForPrediction reports whether nowMsec has reached the next prediction
// deadline, and if so returns the elapsed time in seconds since the last
// prediction and whether the process-noise interval has also elapsed. It
// does not itself advance lastPredictionMsec; the caller commits that via
// CommitPrediction once it has used dt to build the new state and Jacobian.
func (c *Core) DueForPrediction(nowMsec uint32) (due bool, dt float64, addProcessNoise bool) {
	if nowMsec < c.nextPredictionMsec {
		return false, 0, false
	}
	dt = float64(nowMsec-c.lastPredictionMsec) / 1000.0
	addProcessNoise = nowMsec-c.lastProcessNoiseUpdateMsec > 0
	return true, dt, addProcessNoise
}

// CommitPrediction records that a prediction ran at nowMsec, propagates the
// covariance through F, and advances the scheduling deadlines.
func (c *Core) CommitPrediction(nowMsec uint32, xNew Vector, f Matrix, addedProcessNoise bool) {
	c.X = xNew
	c.PropagateCovariance(f)
	c.lastPredictionMsec = nowMsec
	c.nextPredictionMsec = nowMsec + c.predictionIntervalMsec
	if addedProcessNoise {
		c.lastProcessNoiseUpdateMsec = nowMsec
	}
	c.IsUpdated = true
}

// AddProcessNoise adds sigma^2 to the diagonal entries named in axes.
func (c *Core) AddProcessNoise(sigma float64, axes ...int) {
	v := sigma * sigma
	for _, i := range axes {
		c.P[i][i] += v
	}
	c.cleanupCovariance()
}

// PropagateCovariance sets P = a * P * aᵀ and enforces covariance bounds.
func (c *Core) PropagateCovariance(a Matrix) {
	at := Transpose(a)
	c.P = MatMul(MatMul(a, c.P), at)
	c.cleanupCovariance()
}

// Update applies one scalar measurement with observation vector h,
// innovation (measured - predicted), and measurement noise stdMeasNoise,
// using the Joseph-form covariance update.
func (c *Core) Update(h Vector, innovation, stdMeasNoise float64) {
	ph := MatVec(c.P, h)
	r := stdMeasNoise * stdMeasNoise
	s := r + Dot(h, ph)

	var g Vector
	for i := 0; i < N; i++ {
		g[i] = ph[i] / s
	}

	c.X = c.X.Add(g.Scale(innovation))

	gh := Outer(g, h)
	for i := 0; i < N; i++ {
		gh[i][i] -= 1
	}

	ght := Transpose(gh)
	c.P = MatMul(MatMul(gh, c.P), ght)

	for i := 0; i < N; i++ {
		for j := i; j < N; j++ {
			c.P[i][j] += r * g[i] * g[j]
			c.P[j][i] = c.P[i][j]
		}
	}

	c.cleanupCovariance()
	c.IsUpdated = true
}

// cleanupCovariance enforces symmetry, the diagonal floor, the global
// ceiling, and collapses NaN entries to the ceiling. It must run after
// every mutation of P.
func (c *Core) cleanupCovariance() {
	for i := 0; i < N; i++ {
		for j := i; j < N; j++ {
			m := (c.P[i][j] + c.P[j][i]) / 2
			switch {
			case math.IsNaN(m):
				m = c.maxCovariance
			case m > c.maxCovariance:
				m = c.maxCovariance
			case i == j && m < c.minCovariance:
				m = c.minCovariance
			}
			c.P[i][j] = m
			c.P[j][i] = m
		}
	}
}
