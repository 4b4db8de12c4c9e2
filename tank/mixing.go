package tank

import (
	"math"

	"github.com/sirupsen/logrus"
)

// mixedYield returns how many liters of water at target temperature one
// layer of hot water at layerTemp can produce once blended with cold inlet
// water at the tap. Derived from the mixing identity
//
//	target = (layerTemp*vh + inlet*vc) / (vh + vc)
//
// solved for the cold volume vc; the yield is vh + vc. Returns 0 for
// layers below the target temperature.
func (t *Tank) mixedYield(layerTemp, target float64) float64 {
	if layerTemp < target {
		return 0
	}
	vh := t.layerVolume()
	vc := vh * (layerTemp - target) / (target - t.inletTemperature)
	return vh + vc
}

// AvailableVolume returns how many liters of water at target temperature
// the tank can currently produce. Pure query, no mutation. The target must
// be above the inlet temperature or the mixing identity has no solution.
func (t *Tank) AvailableVolume(target float64) (float64, error) {
	if target <= t.inletTemperature {
		return 0, ErrTargetNotAboveInlet
	}
	total := 0.0
	for _, temp := range t.layers {
		total += t.mixedYield(temp, target)
	}
	return total, nil
}

// DrawWater updates the layer temperatures to reflect volumeL liters of
// water produced at target temperature, mixed from the top of the tank
// down, with inlet-temperature water refilling from the bottom. If the
// tank cannot satisfy the full demand the scan simply exhausts every
// layer, leaving the tank at inlet temperature. Non-positive volumes are
// a no-op.
func (t *Tank) DrawWater(volumeL, target float64) error {
	if volumeL <= 0 {
		return nil
	}
	if target <= t.inletTemperature {
		return ErrTargetNotAboveInlet
	}

	n := len(t.layers)
	layerVolume := t.layerVolume()

	// walk the tank top-down, consuming raw layer volume until the demand
	// for mixed output is met
	remaining := volumeL
	usedVolume := 0.0
	for i := n - 1; i >= 0; i-- {
		yield := t.mixedYield(t.layers[i], target)
		if yield == 0 {
			// below target the layer yields its own volume, unmixed
			yield = layerVolume
		}
		if remaining >= yield {
			remaining -= yield
			usedVolume += layerVolume
		} else {
			usedVolume += layerVolume * remaining / yield
			break
		}
	}

	wholeLayers := int(usedVolume / layerVolume)
	if wholeLayers > n {
		wholeLayers = n
	}
	fill := math.Mod(usedVolume, layerVolume)

	logrus.Debugf("draw of %.1f L consumed %.1f L raw: %d whole layers, %.2f L partial", volumeL, usedVolume, wholeLayers, fill)

	kept := make([]float64, n-wholeLayers)
	copy(kept, t.layers[:n-wholeLayers])

	if fill > 0 {
		// the partially consumed layer blends with inlet water, and the
		// blend cascades down the remaining stack: each layer mixes with
		// the original temperature of the layer below it
		keep := layerVolume - fill
		below := t.inletTemperature
		for i := range kept {
			blended := (kept[i]*keep + below*fill) / (keep + fill)
			below = kept[i]
			kept[i] = blended
		}
	}

	next := make([]float64, 0, n)
	for i := 0; i < wholeLayers; i++ {
		next = append(next, t.inletTemperature)
	}
	next = append(next, kept...)
	t.layers = next
	return nil
}
