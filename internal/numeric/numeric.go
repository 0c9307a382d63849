// Package numeric holds small generic helpers shared by the estimator's
// tilt-angle, altitude-floor, asin-domain, and telemetry-packing arithmetic.
package numeric

import "golang.org/x/exp/constraints"

// Clamp constrains value within [min, max].
func Clamp[T constraints.Float](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// FloorAt returns value, or floor if value is below it.
func FloorAt[T constraints.Float](value, floor T) T {
	if value < floor {
		return floor
	}
	return value
}
