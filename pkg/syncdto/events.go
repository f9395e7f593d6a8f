package syncdto

import "time"

// Envelope wraps every outbound notification with session identity.
type Envelope struct {
	SessionID string    `json:"session_id"`
	Kind      string    `json:"kind"`
	At        time.Time `json:"at"`

	Move     *MoveEvent     `json:"move,omitempty"`
	Illegal  *IllegalEvent  `json:"illegal,omitempty"`
	Desync   *DesyncEvent   `json:"desync,omitempty"`
	Finished *FinishedEvent `json:"finished,omitempty"`
	Note     *NoteEvent     `json:"note,omitempty"`
}

type MoveEvent struct {
	SAN        string `json:"san"`
	UCI        string `json:"uci"`
	FEN        string `json:"fen"`
	MoveNumber int    `json:"move_number"`
	SideToMove string `json:"side_to_move"`
	Forced     bool   `json:"forced,omitempty"`
	Narration  string `json:"narration,omitempty"`
	BoardPNG   []byte `json:"board_png,omitempty"`
}

type IllegalEvent struct {
	UCI       string   `json:"uci"`
	Reason    string   `json:"reason"`
	Recovery  []string `json:"recovery"`
	Narration string   `json:"narration,omitempty"`
}

type DesyncEvent struct {
	Desynced  bool   `json:"desynced"`
	Narration string `json:"narration,omitempty"`
}

type FinishedEvent struct {
	Outcome   string `json:"outcome"`
	Method    string `json:"method"`
	PGN       string `json:"pgn"`
	Narration string `json:"narration,omitempty"`
}

type NoteEvent struct {
	Message   string `json:"message"`
	Shape     string `json:"shape,omitempty"`
	Narration string `json:"narration,omitempty"`
}
