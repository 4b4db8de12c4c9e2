package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larkery/tank-model/tank"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestService(t *testing.T, cfg Config) (*Service, *fakeClock) {
	t.Helper()
	tk, err := tank.New(tank.DefaultConfig())
	require.NoError(t, err)
	if cfg.UseTemperature == 0 {
		cfg.UseTemperature = tank.DefaultUseTemperature
	}
	svc := New(tk, cfg, nil)
	clock := &fakeClock{now: time.Date(2026, 2, 3, 8, 0, 0, 0, time.UTC)}
	svc.now = clock.Now
	return svc, clock
}

func TestTick_FirstTickEstablishesTheClock(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	before := svc.Status().Temperatures

	require.NoError(t, svc.Tick())
	assert.Equal(t, before, svc.Status().Temperatures, "no elapsed time, no change")
}

func TestTick_AdvancesByWallClockElapsed(t *testing.T) {
	// GIVEN a cold tank with the heater on
	svc, clock := newTestService(t, Config{})
	require.NoError(t, svc.SetHeaterPower(3))
	require.Zero(t, svc.AvailableVolume())

	// WHEN an hour passes between ticks
	clock.Advance(time.Hour)
	require.NoError(t, svc.Tick())

	// THEN the model has absorbed an hour of heating
	assert.Greater(t, svc.AvailableVolume(), 0.0)
	status := svc.Status()
	top := status.Temperatures[len(status.Temperatures)-1]
	assert.Greater(t, top, tank.DefaultInletTemperature+1.0)
}

func TestUseWater_DrawsAndRecordsHistory(t *testing.T) {
	svc, clock := newTestService(t, Config{})
	require.NoError(t, svc.SetState(uniform(tank.DefaultLayers, 70)))
	before := svc.AvailableVolume()
	require.Greater(t, before, 0.0)

	clock.Advance(time.Second)
	require.NoError(t, svc.UseWater(30))

	assert.Less(t, svc.AvailableVolume(), before)
	_, draws := svc.History()
	require.Len(t, draws, 1)
	assert.Equal(t, 30.0, draws[0].VolumeL)
	assert.Equal(t, tank.DefaultUseTemperature, draws[0].TargetTemperature)
}

func TestUseWater_ZeroVolumeRecordsNothing(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	require.NoError(t, svc.UseWater(0))
	_, draws := svc.History()
	assert.Empty(t, draws)
}

func TestSetState_RejectsEmptyVector(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	err := svc.SetState(nil)
	assert.ErrorIs(t, err, tank.ErrEmptyState)
}

func TestSetState_ResetsTheModelClock(t *testing.T) {
	// GIVEN an override applied after a long idle gap
	svc, clock := newTestService(t, Config{})
	require.NoError(t, svc.Tick())
	clock.Advance(24 * time.Hour)
	require.NoError(t, svc.SetState(uniform(tank.DefaultLayers, 70)))

	// WHEN the next tick happens immediately
	require.NoError(t, svc.Tick())

	// THEN the idle gap is not applied on top of the overridden values
	status := svc.Status()
	for i, temp := range status.Temperatures {
		assert.InDelta(t, 70.0, temp, 0.1, "layer %d", i)
	}
}

func TestRestoreSnapshot_CatchesUpAcrossDowntime(t *testing.T) {
	// GIVEN a snapshot taken an hour ago with the tank hot
	svc, clock := newTestService(t, Config{})
	snap := tank.Snapshot{
		Temperatures: uniform(tank.DefaultLayers, 70),
		LastUpdate:   clock.Now().Add(-time.Hour),
	}
	require.NoError(t, svc.RestoreSnapshot(snap))

	// WHEN the first tick runs
	require.NoError(t, svc.Tick())

	// THEN an hour of standing loss has been applied
	status := svc.Status()
	for i, temp := range status.Temperatures {
		assert.Less(t, temp, 70.0, "layer %d", i)
	}
}

func TestTick_PersistsSnapshotWhenConfigured(t *testing.T) {
	path := t.TempDir() + "/tank.yaml"
	svc, clock := newTestService(t, Config{SnapshotPath: path})

	require.NoError(t, svc.Tick())
	clock.Advance(time.Minute)
	require.NoError(t, svc.Tick())

	snap, err := tank.LoadSnapshot(path)
	require.NoError(t, err)
	assert.Len(t, snap.Temperatures, tank.DefaultLayers)
	assert.True(t, snap.LastUpdate.Equal(clock.Now()))
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		svc.Run(ctx, time.Millisecond)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}

func uniform(n int, temp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = temp
	}
	return out
}
