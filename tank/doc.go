// Package tank implements a discrete-time thermal model of a stratified
// hot-water storage cylinder.
//
// # Reading Guide
//
// Start with these three files to understand the model:
//   - tank.go: the Tank state (layer temperatures, geometry, heater
//     positions) and its accessors
//   - advance.go: the per-tick energy balance and convective stabilization
//   - mixing.go: the mixing identity behind the available-volume query and
//     the water-draw algorithm
//
// # Model
//
// The tank is a vertical stack of N equal-volume layers, each at a single
// temperature. Every Advance tick applies heater input (the highest
// element below the thermostat fires), inter-layer conduction, and ambient
// loss to each layer, then relaxes any temperature inversions so hotter
// water ends up above colder water, as buoyancy would arrange it.
//
// The conduction and convection coefficients are tuned heuristics, not
// physical constants; the model aims for plausible tank behavior at
// minute-scale ticks, not fluid dynamics.
//
// Drawing water mixes hot layers from the top of the tank down with cold
// inlet water, the way a thermostatic mixer at the tap would, and refills
// the bottom of the tank from the cold feed.
//
// A Tank has no internal locking; serialize access externally.
package tank
