package tank

import "errors"

var (
	// ErrTargetNotAboveInlet is returned when a mixing computation would
	// divide by (target - inlet) <= 0. Hot water can only be produced at
	// temperatures above the inlet temperature.
	ErrTargetNotAboveInlet = errors.New("target temperature must be above inlet temperature")

	// ErrEmptyState is returned by ReplaceState when given no layers.
	ErrEmptyState = errors.New("replacement state must contain at least one layer")

	// ErrStabilizationDiverged is returned by Advance if the convective
	// relaxation fails to reach a stable profile within the sweep bound.
	// Should not occur for finite temperatures.
	ErrStabilizationDiverged = errors.New("convective stabilization did not converge")
)
