package tank

import (
	"math"

	"github.com/sirupsen/logrus"
)

// Heuristic model constants from the reference behavior. The conduction
// and convection factors have no time dimension and are not physically
// derived; they are tuned values and must not be "corrected".
const (
	// conductionCoeff scales inter-layer conductive exchange per tick.
	conductionCoeff = 0.6
	// convectionFactor is the fraction of an inversion's temperature gap
	// exchanged per relaxation step.
	convectionFactor = 0.4
	// inversionEpsilon is the tolerance below which an inversion is ignored.
	inversionEpsilon = 0.001
	// energyToDegreesPerLiter converts watt-seconds into degrees for one
	// liter of water (informal 1/4186-ish scaling).
	energyToDegreesPerLiter = 0.00024
	// overshootMargin is the soft ceiling above the thermostat setpoint.
	overshootMargin = 5.0
	// maxStabilizeSweeps bounds the convective relaxation. Convergence for
	// realistic layer counts takes far fewer sweeps; the bound only trips
	// on non-finite input.
	maxStabilizeSweeps = 10000
)

// Advance steps the simulation forward by elapsed seconds, recomputing
// every layer temperature. Non-positive elapsed time is a no-op.
//
// Each tick applies, in order: the per-layer energy balance (heater input,
// inter-layer conduction, ambient loss) computed against the pre-tick
// snapshot; convective stabilization of any temperature inversions; and a
// clamp to thermostat + overshootMargin. The new state is adopted
// atomically, so a stabilization fault leaves the previous state intact.
func (t *Tank) Advance(elapsed float64) error {
	if elapsed <= 0 {
		return nil
	}

	n := len(t.layers)
	layerHeight := t.height / float64(n)
	lateralArea := math.Pi * t.diameter * layerHeight
	capArea := math.Pi * (t.diameter / 2) * (t.diameter / 2)
	layerVolume := t.layerVolume()

	// heater priority: the highest-indexed element still below the
	// thermostat wins, so the upper element starves the lower one
	heatingLayer := -1
	for _, i := range t.heaterLayers {
		if t.layers[i] < t.thermostat && i > heatingLayer {
			heatingLayer = i
		}
	}

	next := make([]float64, n)
	copy(next, t.layers)
	t.heating = -1

	for i := 0; i < n; i++ {
		area := lateralArea
		if i == 0 || i == n-1 {
			area += capArea
		}
		loss := t.uValue * area * (t.layers[i] - t.ambientTemperature)

		conduction := 0.0
		if i > 0 {
			conduction += conductionCoeff * (t.layers[i-1] - t.layers[i])
		}
		if i < n-1 {
			conduction += conductionCoeff * (t.layers[i+1] - t.layers[i])
		}

		heatIn := 0.0
		if i == heatingLayer {
			heatIn = t.heatingPower
			if heatIn > 0 {
				t.heating = heatingLayer
			}
		}

		power := heatIn + conduction - loss
		energy := power * elapsed
		next[i] += energy * energyToDegreesPerLiter / layerVolume
	}

	if !stabilize(next) {
		logrus.Errorf("stabilization exceeded %d sweeps, discarding tick of %.1fs", maxStabilizeSweeps, elapsed)
		return ErrStabilizationDiverged
	}

	ceiling := t.thermostat + overshootMargin
	for i, temp := range next {
		next[i] = math.Min(ceiling, temp)
	}

	t.layers = next
	return nil
}

// stabilize resolves temperature inversions (a layer hotter than the one
// above it) by repeatedly exchanging a fixed fraction of the gap between
// the offending pair, sweeping bottom to top until no inversion beyond
// inversionEpsilon remains. Models buoyant overturning without moving
// water. Returns false if the sweep bound is exhausted.
func stabilize(layers []float64) bool {
	for sweep := 0; sweep < maxStabilizeSweeps; sweep++ {
		swapped := false
		for i := 0; i < len(layers)-1; i++ {
			if layers[i] > layers[i+1]+inversionEpsilon {
				gap := layers[i] - layers[i+1]
				hi := layers[i] - convectionFactor*gap
				lo := layers[i+1] + convectionFactor*gap
				layers[i] = lo
				layers[i+1] = hi
				swapped = true
			}
		}
		if !swapped {
			return true
		}
	}
	return false
}
