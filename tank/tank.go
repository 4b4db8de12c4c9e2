package tank

// Tank models a vertical stratified hot-water cylinder as a stack of
// horizontal layers, each at a uniform temperature. Layer 0 is the bottom
// (cold feed), layer N-1 the top (draw point).
//
// Tank is not safe for concurrent use. Advance and DrawWater both
// read-then-write the whole layer vector, so callers must serialize
// access externally (see service.Service).
type Tank struct {
	diameter float64
	height   float64
	volume   float64

	heaterLayers []int
	thermostat   float64
	uValue       float64

	inletTemperature   float64
	ambientTemperature float64

	heatingPower float64

	layers []float64
	// layer index receiving heat after the last Advance, -1 when idle
	heating int
}

// New constructs a Tank from cfg with every layer at the inlet temperature.
func New(cfg Config) (*Tank, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	layers := make([]float64, cfg.Layers)
	for i := range layers {
		layers[i] = cfg.InletTemperature
	}
	return &Tank{
		diameter:           cfg.DiameterM,
		height:             cfg.HeightM,
		volume:             cfg.VolumeLiters,
		heaterLayers:       cfg.HeaterLayers(),
		thermostat:         cfg.Thermostat,
		uValue:             cfg.UValue,
		inletTemperature:   cfg.InletTemperature,
		ambientTemperature: cfg.AmbientTemperature,
		layers:             layers,
		heating:            -1,
	}, nil
}

// SetHeatingPower sets the heater element power in watts. Zero switches the
// heater off. Takes effect on the next Advance.
func (t *Tank) SetHeatingPower(watts float64) {
	t.heatingPower = watts
}

// HeatingPower returns the configured heater power in watts.
func (t *Tank) HeatingPower() float64 {
	return t.heatingPower
}

// Thermostat returns the setpoint temperature above which heater elements
// stop firing.
func (t *Tank) Thermostat() float64 {
	return t.thermostat
}

// InletTemperature returns the cold-feed temperature.
func (t *Tank) InletTemperature() float64 {
	return t.inletTemperature
}

// AmbientTemperature returns the temperature surrounding the tank.
func (t *Tank) AmbientTemperature() float64 {
	return t.ambientTemperature
}

// Layers returns the number of layers in the model.
func (t *Tank) Layers() int {
	return len(t.layers)
}

// HeaterLayers returns the layer indices containing a heating element.
func (t *Tank) HeaterLayers() []int {
	out := make([]int, len(t.heaterLayers))
	copy(out, t.heaterLayers)
	return out
}

// ActiveHeatingLayer reports which layer received heat during the last
// Advance. ok is false when no element fired.
func (t *Tank) ActiveHeatingLayer() (int, bool) {
	return t.heating, t.heating >= 0
}

// IsHeating reports whether a heater element fired during the last Advance.
func (t *Tank) IsHeating() bool {
	return t.heating >= 0
}

// State returns a copy of the layer temperatures, bottom to top.
func (t *Tank) State() []float64 {
	out := make([]float64, len(t.layers))
	copy(out, t.layers)
	return out
}

// ReplaceState overwrites the layer temperatures wholesale. This is the
// restore path for external persistence: the incoming vector may have a
// different length than the current model (layer-count drift across
// restarts), in which case the heater positions are rescaled to keep the
// elements at the same relative height.
func (t *Tank) ReplaceState(temperatures []float64) error {
	if len(temperatures) == 0 {
		return ErrEmptyState
	}
	if len(temperatures) != len(t.layers) {
		ratio := float64(len(temperatures)) / float64(len(t.layers))
		for i, h := range t.heaterLayers {
			t.heaterLayers[i] = int(ratio * float64(h))
		}
	}
	t.layers = make([]float64, len(temperatures))
	copy(t.layers, temperatures)
	return nil
}

// layerVolume returns the volume of one layer in liters.
func (t *Tank) layerVolume() float64 {
	return t.volume / float64(len(t.layers))
}
