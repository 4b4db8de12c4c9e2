package tank

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_RoundTripsThroughAFile(t *testing.T) {
	tk := newTestTank(t, nil)
	setUniform(t, tk, 55)
	now := time.Date(2026, 2, 3, 12, 30, 0, 0, time.UTC)

	path := filepath.Join(t.TempDir(), "tank.yaml")
	require.NoError(t, SaveSnapshot(path, tk.Snapshot(now)))

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, tk.State(), loaded.Temperatures)
	assert.True(t, loaded.LastUpdate.Equal(now))
}

func TestSnapshot_RestoreAdoptsTemperatures(t *testing.T) {
	tk := newTestTank(t, nil)
	temps := make([]float64, DefaultLayers)
	for i := range temps {
		temps[i] = 30 + float64(i)
	}

	require.NoError(t, tk.Restore(Snapshot{Temperatures: temps, LastUpdate: time.Now()}))
	assert.Equal(t, temps, tk.State())
}

func TestSnapshot_RestoreToleratesLayerCountDrift(t *testing.T) {
	tk := newTestTank(t, nil)
	require.NoError(t, tk.Restore(Snapshot{Temperatures: []float64{40, 50, 60, 70}}))
	assert.Equal(t, 4, tk.Layers())
}

func TestSnapshot_RestoreRejectsEmptySnapshot(t *testing.T) {
	tk := newTestTank(t, nil)
	err := tk.Restore(Snapshot{})
	assert.ErrorIs(t, err, ErrEmptyState)
}

func TestLoadSnapshot_MissingFile(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadSnapshot_RejectsSnapshotWithoutTemperatures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tank.yaml")
	require.NoError(t, os.WriteFile(path, []byte("last_update: 2026-02-03T12:30:00Z\n"), 0o644))

	_, err := LoadSnapshot(path)
	assert.Error(t, err)
}

func TestSaveSnapshot_OverwritesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tank.yaml")
	require.NoError(t, SaveSnapshot(path, Snapshot{Temperatures: []float64{10}}))
	require.NoError(t, SaveSnapshot(path, Snapshot{Temperatures: []float64{20, 30}}))

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{20, 30}, loaded.Temperatures)
}
