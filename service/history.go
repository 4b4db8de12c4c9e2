package service

import "time"

// defaultHistorySize bounds how many records of each kind are retained.
const defaultHistorySize = 256

// TickRecord captures one model tick for the history endpoint.
type TickRecord struct {
	Time             time.Time `json:"time"`
	HeatingLayer     int       `json:"heating_layer"` // -1 while idle
	AvailableVolumeL float64   `json:"available_volume"`
	TopTemperature   float64   `json:"top_temperature"`
}

// DrawRecord captures one water draw.
type DrawRecord struct {
	Time              time.Time `json:"time"`
	VolumeL           float64   `json:"volume_liters"`
	TargetTemperature float64   `json:"target_temperature"`
}

// History retains a bounded window of recent tick and draw records,
// oldest first. Not safe for concurrent use; the owning Service holds its
// lock around every call.
type History struct {
	limit int
	ticks []TickRecord
	draws []DrawRecord
}

// NewHistory creates a History retaining at most limit records per kind.
func NewHistory(limit int) *History {
	return &History{
		limit: limit,
		ticks: make([]TickRecord, 0, limit),
		draws: make([]DrawRecord, 0, limit),
	}
}

// RecordTick appends a tick record, evicting the oldest at the limit.
func (h *History) RecordTick(record TickRecord) {
	if len(h.ticks) == h.limit {
		h.ticks = append(h.ticks[:0], h.ticks[1:]...)
	}
	h.ticks = append(h.ticks, record)
}

// RecordDraw appends a draw record, evicting the oldest at the limit.
func (h *History) RecordDraw(record DrawRecord) {
	if len(h.draws) == h.limit {
		h.draws = append(h.draws[:0], h.draws[1:]...)
	}
	h.draws = append(h.draws, record)
}

// Ticks returns a copy of the retained tick records.
func (h *History) Ticks() []TickRecord {
	out := make([]TickRecord, len(h.ticks))
	copy(out, h.ticks)
	return out
}

// Draws returns a copy of the retained draw records.
func (h *History) Draws() []DrawRecord {
	out := make([]DrawRecord, len(h.draws))
	copy(out, h.draws)
	return out
}
