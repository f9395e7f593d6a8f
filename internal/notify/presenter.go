package notify

import (
	"time"

	"go.uber.org/zap"

	"github.com/park285/boardwatch/internal/boardsync"
	"github.com/park285/boardwatch/internal/msgcat"
	"github.com/park285/boardwatch/internal/obslog"
	"github.com/park285/boardwatch/pkg/syncdto"
)

// Presenter turns engine events into wire envelopes with human narration.
// A failed template render degrades to an envelope without narration
// rather than dropping the event.
type Presenter struct {
	cat *msgcat.Catalog
}

func NewPresenter(cat *msgcat.Catalog) *Presenter {
	return &Presenter{cat: cat}
}

func (p *Presenter) Envelope(sessionID string, at time.Time, ev boardsync.Event) *syncdto.Envelope {
	env := &syncdto.Envelope{
		SessionID: sessionID,
		Kind:      string(ev.Kind()),
		At:        at,
	}
	switch e := ev.(type) {
	case boardsync.MoveAccepted:
		env.Move = &syncdto.MoveEvent{
			SAN:        e.SAN,
			UCI:        e.UCI,
			FEN:        e.FEN,
			MoveNumber: e.MoveNumber,
			SideToMove: e.SideToMove,
			Forced:     e.Forced,
		}
		key := "sync.move.accepted"
		data := map[string]any{"Side": moverOf(e.SideToMove), "SAN": e.SAN, "Number": e.MoveNumber, "UCI": e.UCI}
		if e.Forced {
			key = "sync.move.forced"
		}
		env.Move.Narration = p.render(key, data)
	case boardsync.IllegalMove:
		recovery := make([]string, 0, len(e.Recovery))
		for _, r := range e.Recovery {
			recovery = append(recovery, string(r))
		}
		env.Illegal = &syncdto.IllegalEvent{UCI: e.UCI, Reason: e.Reason, Recovery: recovery}
		narration := p.render("sync.illegal.detected", map[string]any{"UCI": e.UCI, "Reason": e.Reason})
		if hint := p.render("sync.illegal.recovery", nil); hint != "" && narration != "" {
			narration += " " + hint
		}
		env.Illegal.Narration = narration
	case boardsync.DesyncChanged:
		key := "sync.desync.cleared"
		if e.Desynced {
			key = "sync.desync.entered"
		}
		env.Desync = &syncdto.DesyncEvent{Desynced: e.Desynced, Narration: p.render(key, nil)}
	case boardsync.GameFinished:
		env.Finished = &syncdto.FinishedEvent{
			Outcome:   e.Outcome,
			Method:    e.Method,
			PGN:       e.PGN,
			Narration: p.render("sync.game.finished", map[string]any{"Outcome": e.Outcome, "Method": e.Method}),
		}
	case boardsync.Diagnostic:
		env.Note = &syncdto.NoteEvent{Message: e.Message, Shape: e.Shape}
		// Shapeless notes carry their own text already.
		if e.Shape != "" {
			env.Note.Narration = p.render("sync.note.unreadable", map[string]any{"Shape": e.Shape})
		}
	}
	return env
}

func (p *Presenter) render(key string, data any) string {
	if p.cat == nil {
		return ""
	}
	s, err := p.cat.Render(key, data)
	if err != nil {
		obslog.L().Warn("narration_render_failed", zap.String("key", key), zap.Error(err))
		return ""
	}
	return s
}

// moverOf names the side that just moved, given the side now to move.
func moverOf(sideToMove string) string {
	if sideToMove == "White" {
		return "Black"
	}
	return "White"
}
