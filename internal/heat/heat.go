// Package heat maintains a decaying per-landmark heat value across frames.
package heat

import (
	"github.com/ayusman/ushma/internal/motion"
)

// Epsilon is the heat value below which an entry is dropped from the map.
// Removal bounds the map's memory; it is a correctness requirement, not an
// optimization.
const Epsilon = 0.01

// retainFactor limits how fast the update pass may pull an existing entry
// down: a fresh frame can raise heat instantly, but never lower it below
// 80% of its post-decay value.
const retainFactor = 0.8

// Snapshot is a read-only copy of the heat map taken after a tick.
type Snapshot map[int]float64

// Value returns the heat for a landmark index, 0 if absent.
func (s Snapshot) Value(index int) float64 {
	return s[index]
}

// Map accumulates per-landmark heat. Entries are created on first touch,
// decayed every tick, and removed once they fall to Epsilon or below.
//
// Map is not internally locked: all mutation must stay confined to the
// single goroutine driving the frame ticks.
type Map struct {
	values map[int]float64
}

// NewMap creates an empty heat map.
func NewMap() *Map {
	return &Map{
		values: make(map[int]float64),
	}
}

// Tick advances the map by one frame and returns a snapshot of the result.
//
// The decay pass runs first: every entry is multiplied by (1 - decayFactor)
// and removed if the result is at or below Epsilon. The update pass then
// raises the entry of every currently visible landmark to
// max(intensity, decayed*0.8). Landmarks below the visibility threshold are
// left untouched and keep decaying on later ticks. decayFactor is clamped
// to [0,1].
func (m *Map) Tick(summary motion.Summary, decayFactor float64) Snapshot {
	if decayFactor < 0 {
		decayFactor = 0
	} else if decayFactor > 1 {
		decayFactor = 1
	}

	// Decay pass
	for index, value := range m.values {
		decayed := value * (1 - decayFactor)
		if decayed <= Epsilon {
			delete(m.values, index)
		} else {
			m.values[index] = decayed
		}
	}

	// Update pass: all visible points are driven by the same overall
	// intensity signal. The max blend means a fresh high-intensity frame
	// raises heat instantly while fades stay gradual.
	if summary.Current != nil {
		for i := range summary.Current.Points {
			if !summary.Current.Points[i].Visible() {
				continue
			}
			existing, present := m.values[i]
			value := summary.Intensity
			if retained := existing * retainFactor; retained > value {
				value = retained
			}
			if present || value > Epsilon {
				m.values[i] = value
			}
		}
	}

	return m.snapshot()
}

// Value returns the current heat for a landmark index, 0 if absent.
func (m *Map) Value(index int) float64 {
	return m.values[index]
}

// Len returns the number of live entries.
func (m *Map) Len() int {
	return len(m.values)
}

// Clear empties the map unconditionally. Must be called when a session ends
// or restarts, otherwise stale heat persists into the next video stream.
func (m *Map) Clear() {
	m.values = make(map[int]float64)
}

func (m *Map) snapshot() Snapshot {
	s := make(Snapshot, len(m.values))
	for index, value := range m.values {
		s[index] = value
	}
	return s
}
