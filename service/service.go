// Package service wraps a single tank model in the serialization,
// scheduling, and command surface the model itself does not provide: a
// mutex around every operation, wall-clock catch-up ticking, snapshot
// persistence, an HTTP API, and Prometheus metrics.
package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/larkery/tank-model/tank"
)

// Config controls service behavior around the model.
type Config struct {
	// UseTemperature is the mixed-output temperature used for the
	// available-volume reading and for water draws.
	UseTemperature float64
	// SnapshotPath persists the tank state after every tick when set.
	SnapshotPath string
}

// Service owns one Tank and serializes all access to it. The model has no
// internal locking, so every entry point here takes the mutex.
type Service struct {
	mu sync.Mutex

	tank       *tank.Tank
	cfg        Config
	lastUpdate time.Time
	// rounded liters at the use temperature, refreshed each tick
	available float64

	history *History
	metrics *Metrics

	now func() time.Time
}

// New wraps t. metrics may be nil to disable instrumentation.
func New(t *tank.Tank, cfg Config, metrics *Metrics) *Service {
	return &Service{
		tank:    t,
		cfg:     cfg,
		history: NewHistory(defaultHistorySize),
		metrics: metrics,
		now:     time.Now,
	}
}

// RestoreSnapshot adopts persisted layer temperatures and the time they
// were computed, so the next tick advances across the downtime.
func (s *Service) RestoreSnapshot(snap tank.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.tank.Restore(snap); err != nil {
		return fmt.Errorf("restoring snapshot: %w", err)
	}
	s.lastUpdate = snap.LastUpdate
	return nil
}

// Tick advances the model by the wall-clock time elapsed since the last
// tick, then refreshes the cached available-volume reading, the history,
// the metrics, and the snapshot file.
func (s *Service) Tick() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick()
}

func (s *Service) tick() error {
	now := s.now()
	if s.lastUpdate.IsZero() {
		s.lastUpdate = now
	}
	elapsed := now.Sub(s.lastUpdate).Seconds()
	if err := s.tank.Advance(elapsed); err != nil {
		return fmt.Errorf("advancing model by %.1fs: %w", elapsed, err)
	}
	s.lastUpdate = now
	return s.refresh(now)
}

// refresh recomputes the derived readings. Callers hold the mutex.
func (s *Service) refresh(now time.Time) error {
	available, err := s.tank.AvailableVolume(s.cfg.UseTemperature)
	if err != nil {
		return fmt.Errorf("computing available volume at %.1f: %w", s.cfg.UseTemperature, err)
	}
	s.available = math.Round(available)

	heatingLayer := -1
	if layer, ok := s.tank.ActiveHeatingLayer(); ok {
		heatingLayer = layer
	}
	s.history.RecordTick(TickRecord{
		Time:             now,
		HeatingLayer:     heatingLayer,
		AvailableVolumeL: s.available,
		TopTemperature:   s.tank.State()[s.tank.Layers()-1],
	})
	s.metrics.ObserveTank(s.tank, s.available)

	if s.cfg.SnapshotPath != "" {
		if err := tank.SaveSnapshot(s.cfg.SnapshotPath, s.tank.Snapshot(now)); err != nil {
			// a failed snapshot costs persistence, not correctness
			logrus.Warnf("snapshot not persisted: %v", err)
		}
	}
	return nil
}

// SetHeaterPower sets the heater element power in kilowatts and re-ticks
// so the change is visible immediately.
func (s *Service) SetHeaterPower(powerKW float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tank.SetHeatingPower(powerKW * 1000.0)
	logrus.Infof("heater power set to %.1f kW", powerKW)
	return s.tick()
}

// UseWater draws volumeL liters at the configured use temperature.
func (s *Service) UseWater(volumeL float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.tank.DrawWater(volumeL, s.cfg.UseTemperature); err != nil {
		return err
	}
	if volumeL > 0 {
		s.history.RecordDraw(DrawRecord{
			Time:              s.now(),
			VolumeL:           volumeL,
			TargetTemperature: s.cfg.UseTemperature,
		})
		s.metrics.WaterDrawn(volumeL)
		logrus.Infof("drew %.1f L at %.1f degrees", volumeL, s.cfg.UseTemperature)
	}
	return s.tick()
}

// SetState force-overrides the layer temperatures. The model clock resets,
// so no catch-up is applied over the overridden values.
func (s *Service) SetState(temperatures []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.tank.ReplaceState(temperatures); err != nil {
		return err
	}
	s.lastUpdate = s.now()
	logrus.Infof("state overridden with %d layers", len(temperatures))
	return s.refresh(s.lastUpdate)
}

// AvailableVolume returns the cached rounded reading at the configured use
// temperature, refreshed on every tick.
func (s *Service) AvailableVolume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.available
}

// AvailableVolumeAt computes the yield at an arbitrary target temperature.
func (s *Service) AvailableVolumeAt(target float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tank.AvailableVolume(target)
}

// Status is the observable state of the tank, one reading per field of the
// reference sensor's attributes.
type Status struct {
	Temperatures     []float64 `json:"temperatures"`
	HeaterLayers     []int     `json:"heater_layers"`
	HeatingLayer     *int      `json:"heating_layer"`
	HeatingPowerW    float64   `json:"heating_power"`
	AvailableVolumeL float64   `json:"available_volume"`
	LastUpdate       time.Time `json:"last_model_update"`
}

// Status returns a consistent snapshot of the observable state. Layer
// temperatures are rounded to one decimal for reporting.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	temps := s.tank.State()
	for i, temp := range temps {
		temps[i] = math.Round(temp*10) / 10
	}
	st := Status{
		Temperatures:     temps,
		HeaterLayers:     s.tank.HeaterLayers(),
		HeatingPowerW:    s.tank.HeatingPower(),
		AvailableVolumeL: s.available,
		LastUpdate:       s.lastUpdate,
	}
	if layer, ok := s.tank.ActiveHeatingLayer(); ok {
		st.HeatingLayer = &layer
	}
	return st
}

// History returns the recent tick and draw records.
func (s *Service) History() (ticks []TickRecord, draws []DrawRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Ticks(), s.history.Draws()
}

// Run ticks the model at the given cadence until ctx is cancelled. Tick
// failures are logged and the loop keeps going: one bad tick must not
// stop the simulation.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logrus.Infof("tank model ticking every %s", interval)
	for {
		select {
		case <-ctx.Done():
			logrus.Info("tank model stopped")
			return
		case <-ticker.C:
			if err := s.Tick(); err != nil {
				logrus.Errorf("tick failed: %v", err)
			}
		}
	}
}
