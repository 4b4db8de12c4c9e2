package tank

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestTank builds a tank from the default config after applying mutate.
func newTestTank(t *testing.T, mutate func(*Config)) *Tank {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	tk, err := New(cfg)
	require.NoError(t, err)
	return tk
}

// setUniform forces every layer to the given temperature.
func setUniform(t *testing.T, tk *Tank, temp float64) {
	t.Helper()
	temps := make([]float64, tk.Layers())
	for i := range temps {
		temps[i] = temp
	}
	require.NoError(t, tk.ReplaceState(temps))
}

// requireNoInversion asserts the stratification invariant: no layer hotter
// than the layer above it beyond the model epsilon.
func requireNoInversion(t *testing.T, tk *Tank) {
	t.Helper()
	state := tk.State()
	for i := 0; i < len(state)-1; i++ {
		require.LessOrEqual(t, state[i], state[i+1]+inversionEpsilon,
			"inversion between layer %d (%.3f) and %d (%.3f)", i, state[i], i+1, state[i+1])
	}
}
