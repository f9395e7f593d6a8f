package boardsync

import (
	"time"

	"github.com/park285/boardwatch/internal/occupancy"
)

// StabilityFilter debounces the raw occupancy stream. A hand reaching over
// the board flickers single squares for a few frames; any change at all
// restarts the window, so only a plateau that survives the full debounce
// interval is trusted.
//
// The filter does not re-arm itself after reporting a settled grid: an
// unchanged plateau keeps reporting settled on every frame. The controller
// re-arms explicitly once it has processed a non-empty diff and otherwise
// relies on expected-grid matches being no-ops.
type StabilityFilter struct {
	debounce    time.Duration
	last        occupancy.Grid
	stableSince time.Time
	primed      bool
}

func NewStabilityFilter(debounce time.Duration) *StabilityFilter {
	if debounce <= 0 {
		debounce = 1500 * time.Millisecond
	}
	return &StabilityFilter{debounce: debounce}
}

// Observe feeds one frame and reports whether the grid has settled.
func (f *StabilityFilter) Observe(grid occupancy.Grid, now time.Time) bool {
	if !f.primed || !f.last.Equal(grid) {
		f.last = grid
		f.stableSince = now
		f.primed = true
		return false
	}
	// Keep the newest frame so class guesses stay current on a stable plateau.
	f.last = grid
	return now.Sub(f.stableSince) >= f.debounce
}

// Rearm restarts the debounce window without forgetting the current grid.
// Called after a settle event has been consumed so one physical change
// yields one inference pass.
func (f *StabilityFilter) Rearm(now time.Time) {
	f.stableSince = now
}

// Prime seeds the filter with a known-good grid, e.g. right after a board
// scan sync, so the very next frame is compared against it.
func (f *StabilityFilter) Prime(grid occupancy.Grid, now time.Time) {
	f.last = grid
	f.stableSince = now
	f.primed = true
}

// Reset drops all state; the next frame starts a fresh window.
func (f *StabilityFilter) Reset() {
	f.primed = false
}
