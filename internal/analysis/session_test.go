package analysis

import (
	"reflect"
	"testing"
	"time"
)

func TestParseInfoCentipawns(t *testing.T) {
	line := "info depth 12 seldepth 18 multipv 1 score cp 35 nodes 104522 nps 1200000 pv e2e4 e7e5 g1f3"
	ev, ok := parseInfo(line)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if ev.ScoreCP != 35 || ev.Mate != 0 {
		t.Fatalf("ev = %+v", ev)
	}
	if ev.BestMoveUCI != "e2e4" {
		t.Fatalf("best = %q", ev.BestMoveUCI)
	}
	if !reflect.DeepEqual(ev.Principal, []string{"e2e4", "e7e5", "g1f3"}) {
		t.Fatalf("pv = %v", ev.Principal)
	}
}

func TestParseInfoMate(t *testing.T) {
	line := "info depth 10 score mate -3 pv h7h8q"
	ev, ok := parseInfo(line)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if ev.Mate != -3 {
		t.Fatalf("mate = %d", ev.Mate)
	}
}

func TestParseInfoWithoutPV(t *testing.T) {
	if _, ok := parseInfo("info depth 5 score cp 12 nodes 1000"); ok {
		t.Fatal("line without pv should not parse")
	}
}

func TestBuildGoTokens(t *testing.T) {
	tokens, err := buildGoTokens(Limits{Depth: 12})
	if err != nil {
		t.Fatal(err)
	}
	if got := len(tokens); got != 3 || tokens[1] != "depth" || tokens[2] != "12" {
		t.Fatalf("tokens = %v", tokens)
	}

	if _, err := buildGoTokens(Limits{}); err == nil {
		t.Fatal("empty limits should error")
	}
}

func TestBuildPositionCommand(t *testing.T) {
	if got := buildPositionCommand(""); got != "position startpos\n" {
		t.Fatalf("got %q", got)
	}
	if got := buildPositionCommand("8/8/8/8/8/8/8/K6k w - - 0 1"); got != "position fen 8/8/8/8/8/8/8/K6k w - - 0 1\n" {
		t.Fatalf("got %q", got)
	}
}

func TestComputeSearchTimeoutBounds(t *testing.T) {
	if d := computeSearchTimeout(Limits{Depth: 4}); d != 6*time.Second {
		t.Fatalf("short depth = %v", d)
	}
	if d := computeSearchTimeout(Limits{Depth: 100}); d != 20*time.Second {
		t.Fatalf("deep = %v", d)
	}
}

func TestNilAnalyzerIsNoOp(t *testing.T) {
	var a *Analyzer
	ev, err := a.Evaluate(t.Context(), "startpos")
	if err != nil || ev != nil {
		t.Fatalf("ev = %v, err = %v", ev, err)
	}
	if err := a.NewGame(t.Context()); err != nil {
		t.Fatal(err)
	}
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
}
