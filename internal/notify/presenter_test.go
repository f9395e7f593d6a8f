package notify

import (
	"testing"
	"time"

	"github.com/park285/boardwatch/internal/boardsync"
	"github.com/park285/boardwatch/internal/msgcat"
)

func newTestPresenter(t *testing.T) *Presenter {
	t.Helper()
	cat, err := msgcat.New("")
	if err != nil {
		t.Fatal(err)
	}
	return NewPresenter(cat)
}

func TestPresenterMoveNarration(t *testing.T) {
	p := newTestPresenter(t)
	env := p.Envelope("s1", time.Unix(0, 0), boardsync.MoveAccepted{
		SAN: "e4", UCI: "e2e4", FEN: "fen", MoveNumber: 1, SideToMove: "Black",
	})

	if env.Kind != "move_accepted" || env.SessionID != "s1" {
		t.Fatalf("envelope = %+v", env)
	}
	if env.Move == nil || env.Move.Narration != "White played e4 (move 1)" {
		t.Fatalf("move = %+v", env.Move)
	}
}

func TestPresenterIllegalMove(t *testing.T) {
	p := newTestPresenter(t)
	env := p.Envelope("s1", time.Unix(0, 0), boardsync.IllegalMove{
		UCI:    "a1a5",
		Reason: "blocked",
		Recovery: []boardsync.RecoveryAction{
			boardsync.RecoveryUndo, boardsync.RecoveryManualCorrect, boardsync.RecoveryDismiss,
		},
	})

	if env.Illegal == nil {
		t.Fatal("expected illegal payload")
	}
	if len(env.Illegal.Recovery) != 3 || env.Illegal.Recovery[0] != "undo" {
		t.Fatalf("recovery = %v", env.Illegal.Recovery)
	}
	want := "Rejected a1a5: blocked. The board is out of sync. " +
		"Undo the last move, correct the position manually, or dismiss."
	if env.Illegal.Narration != want {
		t.Fatalf("narration = %q", env.Illegal.Narration)
	}
}

func TestPresenterDesyncNarration(t *testing.T) {
	p := newTestPresenter(t)

	entered := p.Envelope("s1", time.Unix(0, 0), boardsync.DesyncChanged{Desynced: true})
	if entered.Desync == nil || entered.Desync.Narration != "Board out of sync. Waiting for a legal position." {
		t.Fatalf("entered = %+v", entered.Desync)
	}
	cleared := p.Envelope("s1", time.Unix(0, 0), boardsync.DesyncChanged{Desynced: false})
	if cleared.Desync == nil || cleared.Desync.Narration != "Board back in sync." {
		t.Fatalf("cleared = %+v", cleared.Desync)
	}
}

func TestPresenterFinishedNarration(t *testing.T) {
	p := newTestPresenter(t)
	env := p.Envelope("s1", time.Unix(0, 0), boardsync.GameFinished{
		Outcome: "1-0", Method: "Checkmate", PGN: "1. f3 *",
	})

	if env.Finished == nil || env.Finished.Narration != "Game over: 1-0 by Checkmate." {
		t.Fatalf("finished = %+v", env.Finished)
	}
}

func TestPresenterNoteNarration(t *testing.T) {
	p := newTestPresenter(t)

	shaped := p.Envelope("s1", time.Unix(0, 0), boardsync.Diagnostic{
		Message: "a2: occupied->empty", Shape: "unknown",
	})
	if shaped.Note == nil || shaped.Note.Narration != "Could not read the last board change (unknown). Ignoring it." {
		t.Fatalf("shaped = %+v", shaped.Note)
	}

	// A shapeless note is already prose; no template applies.
	plain := p.Envelope("s1", time.Unix(0, 0), boardsync.Diagnostic{Message: "engine: +0.30, best reply e7e5"})
	if plain.Note == nil || plain.Note.Narration != "" {
		t.Fatalf("plain = %+v", plain.Note)
	}
	if plain.Note.Message != "engine: +0.30, best reply e7e5" {
		t.Fatalf("message = %q", plain.Note.Message)
	}
}

func TestPresenterWithoutCatalogDegrades(t *testing.T) {
	p := NewPresenter(nil)
	env := p.Envelope("s1", time.Unix(0, 0), boardsync.MoveAccepted{SAN: "e4", UCI: "e2e4", SideToMove: "Black"})
	if env.Move == nil || env.Move.Narration != "" {
		t.Fatalf("move = %+v", env.Move)
	}
}
