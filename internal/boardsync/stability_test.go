package boardsync

import (
	"testing"
	"time"

	nchess "github.com/corentings/chess/v2"

	"github.com/park285/boardwatch/internal/occupancy"
)

func TestStabilityFlickerRestartsWindow(t *testing.T) {
	f := NewStabilityFilter(1500 * time.Millisecond)
	t0 := time.Unix(1700000000, 0)

	a := occupancy.Starting()
	b := a.WithSquare(nchess.E2, false)

	if f.Observe(a, t0) {
		t.Fatal("first frame must not settle")
	}
	if f.Observe(b, t0.Add(500*time.Millisecond)) {
		t.Fatal("changed frame must not settle")
	}
	if f.Observe(a, t0.Add(1000*time.Millisecond)) {
		t.Fatal("reverted frame restarts the window")
	}
	if f.Observe(a, t0.Add(2000*time.Millisecond)) {
		t.Fatal("only 1000ms of stability, must not settle")
	}
	if !f.Observe(a, t0.Add(2600*time.Millisecond)) {
		t.Fatal("1600ms of stability should settle")
	}
}

func TestStabilitySettlesAtExactInterval(t *testing.T) {
	f := NewStabilityFilter(1500 * time.Millisecond)
	t0 := time.Unix(1700000000, 0)
	a := occupancy.Starting()

	f.Observe(a, t0)
	if !f.Observe(a, t0.Add(1500*time.Millisecond)) {
		t.Fatal("interval boundary counts as settled")
	}
}

func TestStabilityPlateauKeepsReporting(t *testing.T) {
	f := NewStabilityFilter(1500 * time.Millisecond)
	t0 := time.Unix(1700000000, 0)
	a := occupancy.Starting()

	f.Observe(a, t0)
	if !f.Observe(a, t0.Add(2*time.Second)) {
		t.Fatal("expected settled")
	}
	if !f.Observe(a, t0.Add(3*time.Second)) {
		t.Fatal("plateau keeps reporting settled until re-armed")
	}

	f.Rearm(t0.Add(3 * time.Second))
	if f.Observe(a, t0.Add(4*time.Second)) {
		t.Fatal("re-armed window must not settle after 1s")
	}
	if !f.Observe(a, t0.Add(5*time.Second)) {
		t.Fatal("re-armed window settles after the full interval")
	}
}

func TestStabilityPrimeAndReset(t *testing.T) {
	f := NewStabilityFilter(1500 * time.Millisecond)
	t0 := time.Unix(1700000000, 0)
	a := occupancy.Starting()

	f.Prime(a, t0)
	if !f.Observe(a, t0.Add(2*time.Second)) {
		t.Fatal("primed grid settles without an extra priming frame")
	}

	f.Reset()
	if f.Observe(a, t0.Add(10*time.Second)) {
		t.Fatal("reset filter treats the next frame as fresh")
	}
}
