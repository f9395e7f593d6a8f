package boardsync

// EventKind tags the engine events fanned out to transports and storage.
type EventKind string

const (
	EventMoveAccepted  EventKind = "move_accepted"
	EventIllegalMove   EventKind = "illegal_move"
	EventDesyncChanged EventKind = "desync_changed"
	EventGameFinished  EventKind = "game_finished"
	EventDiagnostic    EventKind = "diagnostic"
)

// RecoveryAction is one of the operator choices offered after a rejected move.
type RecoveryAction string

const (
	RecoveryUndo          RecoveryAction = "undo"
	RecoveryManualCorrect RecoveryAction = "manual_correct"
	RecoveryDismiss       RecoveryAction = "dismiss"
)

type Event interface {
	Kind() EventKind
}

// MoveAccepted is emitted after the oracle applied an inferred move.
type MoveAccepted struct {
	SAN        string
	UCI        string
	FEN        string
	MoveNumber int
	SideToMove string
	Forced     bool
}

func (MoveAccepted) Kind() EventKind { return EventMoveAccepted }

// IllegalMove is emitted when an inferred candidate was rejected. The game
// state is untouched; the engine is now desynced.
type IllegalMove struct {
	UCI      string
	Reason   string
	Recovery []RecoveryAction
}

func (IllegalMove) Kind() EventKind { return EventIllegalMove }

// DesyncChanged fires on every transition of the desync flag.
type DesyncChanged struct {
	Desynced bool
}

func (DesyncChanged) Kind() EventKind { return EventDesyncChanged }

// GameFinished is emitted once when the oracle reports a decisive outcome.
type GameFinished struct {
	Outcome string
	Method  string
	PGN     string
}

func (GameFinished) Kind() EventKind { return EventGameFinished }

// Diagnostic carries non-fatal inference notes, e.g. an unrecognised diff.
type Diagnostic struct {
	Message string
	Shape   string
}

func (Diagnostic) Kind() EventKind { return EventDiagnostic }
