package tank

import "fmt"

// Configuration defaults, matching the reference 180 L vertical cylinder
// with a dual-element immersion heater.
const (
	DefaultLayers             = 20
	DefaultDiameterM          = 0.55
	DefaultHeightM            = 1.3
	DefaultVolumeLiters       = 180
	DefaultInletTemperature   = 15 // Celsius
	DefaultAmbientTemperature = 20 // Celsius
	DefaultThermostat         = 60
	DefaultUValue             = 0.5
	DefaultUseTemperature     = 45.0
)

// Config groups the construction parameters for a Tank. All temperatures
// are in Celsius, volumes in liters, lengths in meters.
type Config struct {
	Layers             int       `yaml:"layers"`
	DiameterM          float64   `yaml:"diameter_m"`
	HeightM            float64   `yaml:"height_m"`
	VolumeLiters       float64   `yaml:"volume_liters"`
	InletTemperature   float64   `yaml:"inlet_temperature"`
	AmbientTemperature float64   `yaml:"ambient_temperature"`
	Thermostat         float64   `yaml:"thermostat"`
	UValue             float64   `yaml:"u_value"`
	UseTemperature     float64   `yaml:"use_temperature"`
	HeaterHeightsM     []float64 `yaml:"heaters"`
}

// DefaultConfig returns the reference tank configuration: a 180 L cylinder
// with heating elements at 0.1 m and 0.6 m above the base.
func DefaultConfig() Config {
	return Config{
		Layers:             DefaultLayers,
		DiameterM:          DefaultDiameterM,
		HeightM:            DefaultHeightM,
		VolumeLiters:       DefaultVolumeLiters,
		InletTemperature:   DefaultInletTemperature,
		AmbientTemperature: DefaultAmbientTemperature,
		Thermostat:         DefaultThermostat,
		UValue:             DefaultUValue,
		UseTemperature:     DefaultUseTemperature,
		HeaterHeightsM:     []float64{0.1, 0.6},
	}
}

// Validate rejects configurations the model cannot run with. Construction
// fails fast on these rather than producing NaN temperatures later.
func (c Config) Validate() error {
	if c.Layers < 2 {
		return fmt.Errorf("layers must be at least 2, got %d", c.Layers)
	}
	if c.DiameterM <= 0 {
		return fmt.Errorf("diameter_m must be positive, got %f", c.DiameterM)
	}
	if c.HeightM <= 0 {
		return fmt.Errorf("height_m must be positive, got %f", c.HeightM)
	}
	if c.VolumeLiters <= 0 {
		return fmt.Errorf("volume_liters must be positive, got %f", c.VolumeLiters)
	}
	if c.UValue < 0 {
		return fmt.Errorf("u_value must be non-negative, got %f", c.UValue)
	}
	if c.UseTemperature <= c.InletTemperature {
		return fmt.Errorf("use_temperature %f must be above inlet_temperature %f", c.UseTemperature, c.InletTemperature)
	}
	for _, h := range c.HeaterHeightsM {
		if h < 0 || h >= c.HeightM {
			return fmt.Errorf("heater height %f outside tank height [0, %f)", h, c.HeightM)
		}
	}
	return nil
}

// HeaterLayers converts heater element heights into layer indices,
// bottom layer = 0.
func (c Config) HeaterLayers() []int {
	indices := make([]int, 0, len(c.HeaterHeightsM))
	for _, h := range c.HeaterHeightsM {
		indices = append(indices, int(float64(c.Layers)*h/c.HeightM))
	}
	return indices
}
