package service

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/larkery/tank-model/tank"
)

// Metrics exposes the tank's observable state to Prometheus. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	layerTemperature *prometheus.GaugeVec
	availableVolume  prometheus.Gauge
	heatingPower     prometheus.Gauge
	heating          prometheus.Gauge
	waterDrawn       prometheus.Counter
	ticks            prometheus.Counter
}

// NewMetrics creates and registers the tank metrics on the default
// registry. Call at most once per process.
func NewMetrics() *Metrics {
	m := &Metrics{
		layerTemperature: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tank_layer_temperature_celsius",
			Help: "Temperature of each tank layer, bottom to top.",
		}, []string{"layer"}),
		availableVolume: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tank_available_volume_liters",
			Help: "Liters of water producible at the configured use temperature.",
		}),
		heatingPower: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tank_heating_power_watts",
			Help: "Configured heater element power.",
		}),
		heating: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tank_heating",
			Help: "1 while a heater element is firing, 0 otherwise.",
		}),
		waterDrawn: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tank_water_drawn_liters_total",
			Help: "Cumulative liters of mixed-output water drawn.",
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tank_ticks_total",
			Help: "Model ticks performed.",
		}),
	}

	prometheus.MustRegister(
		m.layerTemperature,
		m.availableVolume,
		m.heatingPower,
		m.heating,
		m.waterDrawn,
		m.ticks,
	)

	return m
}

// ObserveTank publishes the tank's current state. The layer gauge is reset
// first so layer-count drift across restores cannot leave stale series.
func (m *Metrics) ObserveTank(t *tank.Tank, availableVolume float64) {
	if m == nil {
		return
	}
	m.layerTemperature.Reset()
	for i, temp := range t.State() {
		m.layerTemperature.WithLabelValues(strconv.Itoa(i)).Set(temp)
	}
	m.availableVolume.Set(availableVolume)
	m.heatingPower.Set(t.HeatingPower())
	if t.IsHeating() {
		m.heating.Set(1)
	} else {
		m.heating.Set(0)
	}
	m.ticks.Inc()
}

// WaterDrawn accumulates drawn volume.
func (m *Metrics) WaterDrawn(volumeL float64) {
	if m == nil {
		return
	}
	m.waterDrawn.Add(volumeL)
}

// Handler serves the Prometheus exposition endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}
