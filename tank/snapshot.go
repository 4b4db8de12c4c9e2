package tank

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Snapshot is the persisted representation of a tank: the layer
// temperatures plus the wall-clock time they were last computed. On
// restart a caller restores the snapshot and advances by the elapsed time
// since LastUpdate to catch the model up.
type Snapshot struct {
	Temperatures []float64 `yaml:"temperatures"`
	LastUpdate   time.Time `yaml:"last_update"`
}

// Snapshot captures the current state for persistence.
func (t *Tank) Snapshot(now time.Time) Snapshot {
	return Snapshot{
		Temperatures: t.State(),
		LastUpdate:   now,
	}
}

// Restore adopts a snapshot's layer temperatures. Layer-count drift is
// tolerated the same way as ReplaceState.
func (t *Tank) Restore(s Snapshot) error {
	return t.ReplaceState(s.Temperatures)
}

// SaveSnapshot writes a snapshot to path as YAML. The write goes through a
// temporary file and rename so a crash mid-write cannot truncate the
// previous snapshot.
func SaveSnapshot(path string, s Snapshot) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads a snapshot previously written by SaveSnapshot.
func LoadSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading snapshot: %w", err)
	}
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("parsing snapshot: %w", err)
	}
	if len(s.Temperatures) == 0 {
		return Snapshot{}, fmt.Errorf("snapshot %s has no layer temperatures", path)
	}
	return s, nil
}
