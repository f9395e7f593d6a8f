package boardsync

import (
	"errors"
	"fmt"
	"strings"
	"time"

	nchess "github.com/corentings/chess/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/boardwatch/internal/obslog"
	"github.com/park285/boardwatch/internal/occupancy"
)

const startingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var ErrInvalidFEN = errors.New("invalid fen")

// Phase tracks where the controller is in a session's lifecycle.
type Phase uint8

const (
	PhaseWaitingCalibration Phase = iota
	PhaseReady
	PhasePlaying
)

func (p Phase) String() string {
	switch p {
	case PhaseWaitingCalibration:
		return "waiting_calibration"
	case PhaseReady:
		return "ready"
	default:
		return "playing"
	}
}

// MoveRecord is one applied move plus the FEN it produced. Undo restores
// the previous record's FEN directly, so turn flips and forced moves do not
// break the history.
type MoveRecord struct {
	UCI    string `json:"uci"`
	SAN    string `json:"san"`
	FEN    string `json:"fen"`
	Forced bool   `json:"forced,omitempty"`
}

// Snapshot is the serialisable view of a session, persisted between frames.
type Snapshot struct {
	SessionID string       `json:"session_id"`
	Phase     string       `json:"phase"`
	FEN       string       `json:"fen"`
	BaseFEN   string       `json:"base_fen"`
	Moves     []MoveRecord `json:"moves"`
	LastUCI   string       `json:"last_uci,omitempty"`
	Desynced  bool         `json:"desynced"`
	StartedAt time.Time    `json:"started_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Config carries the tunables of a Controller. Zero values get sane defaults.
type Config struct {
	Debounce         time.Duration
	DebugMode        bool
	NoTurnMode       bool
	DefaultPromotion string
	Clock            func() time.Time
}

// Controller reconciles settled occupancy grids against a rules-correct
// game. It is not safe for concurrent use; callers serialise access.
type Controller struct {
	cfg     Config
	clock   func() time.Time
	filter  *StabilityFilter
	chooser PromotionChooser

	sessionID string
	startedAt time.Time
	game      *nchess.Game
	baseFEN   string
	records   []MoveRecord
	lastUCI   string
	phase     Phase
	desynced  bool
}

func NewController(cfg Config) *Controller {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	c := &Controller{
		cfg:       cfg,
		clock:     cfg.Clock,
		filter:    NewStabilityFilter(cfg.Debounce),
		sessionID: uuid.NewString(),
		game:      nchess.NewGame(),
		baseFEN:   startingFEN,
		phase:     PhaseWaitingCalibration,
	}
	c.startedAt = c.clock()
	return c
}

// SetPromotionChooser registers the callback consulted when a pawn reaches
// the back rank. Without one the configured default piece is used.
func (c *Controller) SetPromotionChooser(ch PromotionChooser) { c.chooser = ch }

func (c *Controller) SessionID() string   { return c.sessionID }
func (c *Controller) Phase() Phase        { return c.phase }
func (c *Controller) Desynced() bool      { return c.desynced }
func (c *Controller) FEN() string         { return c.game.FEN() }
func (c *Controller) LastMoveUCI() string { return c.lastUCI }
func (c *Controller) MoveCount() int      { return len(c.records) }

// Position exposes the oracle position for rendering and analysis.
func (c *Controller) Position() *nchess.Position { return c.game.Position() }

// ExpectedGrid is the occupancy the physical board should show right now.
func (c *Controller) ExpectedGrid() occupancy.Grid {
	return occupancy.FromPosition(c.game.Position())
}

func (c *Controller) Snapshot() Snapshot {
	moves := make([]MoveRecord, len(c.records))
	copy(moves, c.records)
	return Snapshot{
		SessionID: c.sessionID,
		Phase:     c.phase.String(),
		FEN:       c.game.FEN(),
		BaseFEN:   c.baseFEN,
		Moves:     moves,
		LastUCI:   c.lastUCI,
		Desynced:  c.desynced,
		StartedAt: c.startedAt,
		UpdatedAt: c.clock(),
	}
}

// Restore rebuilds the controller from a persisted snapshot, e.g. after a
// daemon restart mid-game.
func (c *Controller) Restore(s Snapshot) error {
	if err := c.reload(s.FEN); err != nil {
		return err
	}
	c.sessionID = s.SessionID
	c.baseFEN = s.BaseFEN
	c.records = append([]MoveRecord(nil), s.Moves...)
	c.lastUCI = s.LastUCI
	c.desynced = s.Desynced
	c.startedAt = s.StartedAt
	switch s.Phase {
	case PhaseWaitingCalibration.String():
		c.phase = PhaseWaitingCalibration
	case PhaseReady.String():
		c.phase = PhaseReady
	default:
		c.phase = PhasePlaying
	}
	c.filter.Reset()
	return nil
}

// ProcessFrame feeds one raw occupancy frame. Most frames return no events:
// either the grid has not settled or it already matches the expected state.
func (c *Controller) ProcessFrame(grid occupancy.Grid, now time.Time) []Event {
	if c.phase == PhaseWaitingCalibration {
		return nil
	}
	if !c.filter.Observe(grid, now) {
		return nil
	}
	diff := ClassifyDiff(c.ExpectedGrid(), grid)
	if diff.Empty() {
		return nil
	}
	events := c.handleDiff(diff, grid)
	// One physical change, one inference pass.
	c.filter.Rearm(now)
	return events
}

func (c *Controller) handleDiff(diff MoveDiff, settled occupancy.Grid) []Event {
	shape := diff.Shape()
	obslog.L().Debug("diff_classified",
		zap.String("session_id", c.sessionID),
		zap.String("shape", shape.String()),
		zap.Int("vacated", len(diff.Vacated)),
		zap.Int("filled", len(diff.Filled)),
	)

	if c.cfg.DebugMode {
		switch shape {
		case ShapeSimple:
			return c.forceApply(diff.Vacated[0], diff.Filled[0])
		case ShapeCapture:
			// A lone vacated square gives no capture target to force.
			obslog.L().Warn("debug_capture_skipped",
				zap.String("session_id", c.sessionID),
				zap.String("from", diff.Vacated[0].String()),
			)
			return []Event{Diagnostic{
				Message: "capture from " + diff.Vacated[0].String() + " has no known target in debug mode",
				Shape:   shape.String(),
			}}
		}
	}

	cand, note := inferMove(c.game, diff, settled, c.choosePromotion)
	if cand == nil {
		obslog.L().Warn("diff_unreadable",
			zap.String("session_id", c.sessionID),
			zap.String("shape", shape.String()),
			zap.String("note", note),
		)
		return []Event{Diagnostic{Message: note, Shape: shape.String()}}
	}
	return c.acceptCandidate(cand)
}

// AcceptMove applies an externally supplied candidate through the same
// validation path as inferred moves. Used by tooling and tests.
func (c *Controller) AcceptMove(cand MoveCandidate) []Event {
	return c.acceptCandidate(&cand)
}

func (c *Controller) acceptCandidate(cand *MoveCandidate) []Event {
	if c.cfg.NoTurnMode && !c.cfg.DebugMode {
		c.alignTurn(cand.From)
	}

	pos := c.game.Position()
	uci := cand.UCI()
	mv, err := nchess.UCINotation{}.Decode(pos, uci)
	if err != nil {
		return c.rejectMove(uci, err)
	}
	san := nchess.AlgebraicNotation{}.Encode(pos, mv)
	if err := c.game.Move(mv, nil); err != nil {
		return c.rejectMove(uci, err)
	}

	fen := c.game.FEN()
	c.records = append(c.records, MoveRecord{UCI: uci, SAN: san, FEN: fen})
	c.lastUCI = uci
	c.phase = PhasePlaying

	var events []Event
	if c.desynced {
		c.desynced = false
		events = append(events, DesyncChanged{Desynced: false})
	}
	accepted := MoveAccepted{
		SAN:        san,
		UCI:        uci,
		FEN:        fen,
		MoveNumber: len(c.records),
		SideToMove: c.game.Position().Turn().Name(),
	}
	events = append(events, accepted)
	obslog.L().Info("move_accepted",
		zap.String("session_id", c.sessionID),
		zap.String("san", san),
		zap.String("uci", uci),
		zap.Int("ply", len(c.records)),
	)

	if outcome := c.game.Outcome(); outcome != nchess.NoOutcome {
		events = append(events, GameFinished{
			Outcome: outcome.String(),
			Method:  c.game.Method().String(),
			PGN:     c.PGN(),
		})
		obslog.L().Info("game_finished",
			zap.String("session_id", c.sessionID),
			zap.String("outcome", outcome.String()),
		)
	}
	return events
}

func (c *Controller) rejectMove(uci string, cause error) []Event {
	obslog.L().Warn("move_rejected",
		zap.String("session_id", c.sessionID),
		zap.String("uci", uci),
		zap.Error(cause),
	)
	var events []Event
	if !c.desynced {
		c.desynced = true
		events = append(events, DesyncChanged{Desynced: true})
	}
	events = append(events, IllegalMove{
		UCI:    uci,
		Reason: cause.Error(),
		Recovery: []RecoveryAction{
			RecoveryUndo, RecoveryManualCorrect, RecoveryDismiss,
		},
	})
	return events
}

// alignTurn flips the side to move when the piece being moved does not
// belong to the current mover. Castling and en passant legality can be lost
// across a flip; that is the documented cost of free-play mode.
func (c *Controller) alignTurn(from nchess.Square) {
	piece := c.game.Position().Board().Piece(from)
	if piece == nchess.NoPiece || piece.Color() == c.game.Position().Turn() {
		return
	}
	fields := strings.Fields(c.game.FEN())
	if len(fields) < 6 {
		return
	}
	if fields[1] == "w" {
		fields[1] = "b"
	} else {
		fields[1] = "w"
	}
	fields[3] = "-"
	if err := c.reload(strings.Join(fields, " ")); err != nil {
		obslog.L().Error("turn_flip_failed", zap.String("session_id", c.sessionID), zap.Error(err))
		return
	}
	obslog.L().Debug("turn_flipped", zap.String("session_id", c.sessionID), zap.String("to_move", fields[1]))
}

// forceApply moves a piece by rewriting the FEN placement field, bypassing
// legality entirely. Only reachable in debug mode.
func (c *Controller) forceApply(from, to nchess.Square) []Event {
	fen, err := movePieceFEN(c.game.FEN(), from, to)
	if err != nil {
		obslog.L().Warn("force_apply_failed",
			zap.String("session_id", c.sessionID),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
			zap.Error(err),
		)
		return []Event{Diagnostic{Message: err.Error(), Shape: ShapeSimple.String()}}
	}
	if err := c.reload(fen); err != nil {
		return []Event{Diagnostic{Message: err.Error(), Shape: ShapeSimple.String()}}
	}
	uci := from.String() + to.String()
	c.records = append(c.records, MoveRecord{UCI: uci, SAN: uci, FEN: fen, Forced: true})
	c.lastUCI = uci
	c.phase = PhasePlaying
	obslog.L().Info("move_forced", zap.String("session_id", c.sessionID), zap.String("uci", uci))
	return []Event{MoveAccepted{SAN: uci, UCI: uci, FEN: fen, MoveNumber: len(c.records), SideToMove: c.game.Position().Turn().Name(), Forced: true}}
}

// ApplyManualCorrection replaces the whole game state with an
// operator-supplied FEN. An invalid FEN leaves the state untouched.
func (c *Controller) ApplyManualCorrection(fen string) ([]Event, error) {
	fen = strings.TrimSpace(fen)
	opt, err := nchess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	c.game = nchess.NewGame(opt)
	c.baseFEN = c.game.FEN()
	c.records = nil
	c.lastUCI = ""
	if c.phase == PhaseWaitingCalibration {
		c.phase = PhaseReady
	}
	c.filter.Reset()

	var events []Event
	if c.desynced {
		c.desynced = false
		events = append(events, DesyncChanged{Desynced: false})
	}
	obslog.L().Info("manual_correction",
		zap.String("session_id", c.sessionID),
		zap.String("fen", c.baseFEN),
	)
	return events, nil
}

// SyncFromScan calibrates from a classified board scan. Squares whose class
// label is unreadable but clearly occupied default to a white pawn, which
// keeps the grid consistent even when recognition is poor.
func (c *Controller) SyncFromScan(grid occupancy.Grid, now time.Time) ([]Event, error) {
	var fen string
	if !grid.HasClasses() && grid.Equal(occupancy.Starting()) {
		fen = startingFEN
	} else {
		fen = scanFEN(grid)
	}
	events, err := c.ApplyManualCorrection(fen)
	if err != nil {
		return nil, err
	}
	c.filter.Prime(grid, now)
	obslog.L().Info("board_synced",
		zap.String("session_id", c.sessionID),
		zap.Int("pieces", grid.CountOccupied()),
	)
	return events, nil
}

// UndoLastMove rewinds one applied move. Returns false when there is
// nothing to undo.
func (c *Controller) UndoLastMove() (bool, []Event) {
	if len(c.records) == 0 {
		return false, nil
	}
	prevFEN := c.baseFEN
	prevUCI := ""
	if n := len(c.records); n > 1 {
		prevFEN = c.records[n-2].FEN
		prevUCI = c.records[n-2].UCI
	}
	// Reload before touching the history so a bad record FEN leaves the
	// session exactly as it was.
	if err := c.reload(prevFEN); err != nil {
		obslog.L().Error("undo_failed", zap.String("session_id", c.sessionID), zap.Error(err))
		return false, nil
	}
	c.records = c.records[:len(c.records)-1]
	c.lastUCI = prevUCI
	c.filter.Reset()

	var events []Event
	if c.desynced {
		c.desynced = false
		events = append(events, DesyncChanged{Desynced: false})
	}
	obslog.L().Info("move_undone",
		zap.String("session_id", c.sessionID),
		zap.Int("remaining", len(c.records)),
	)
	return true, events
}

// Reset starts a new session from the standard position.
func (c *Controller) Reset() []Event {
	c.sessionID = uuid.NewString()
	c.startedAt = c.clock()
	c.game = nchess.NewGame()
	c.baseFEN = startingFEN
	c.records = nil
	c.lastUCI = ""
	c.phase = PhaseWaitingCalibration
	c.filter.Reset()

	var events []Event
	if c.desynced {
		c.desynced = false
		events = append(events, DesyncChanged{Desynced: false})
	}
	obslog.L().Info("session_reset", zap.String("session_id", c.sessionID))
	return events
}

func (c *Controller) reload(fen string) error {
	opt, err := nchess.FEN(fen)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	c.game = nchess.NewGame(opt)
	return nil
}

func (c *Controller) choosePromotion(from, to nchess.Square) nchess.PieceType {
	if c.chooser != nil {
		if pt := c.chooser(from, to); promoSuffix(pt) != "" {
			return pt
		}
	}
	return PromotionFromString(c.cfg.DefaultPromotion)
}

// PGN renders the session's move history. Built from the recorded SANs
// rather than the oracle's internal history, which resets on every reload.
func (c *Controller) PGN() string {
	var b strings.Builder
	result := "*"
	if outcome := c.game.Outcome(); outcome != nchess.NoOutcome {
		result = outcome.String()
	}
	fmt.Fprintf(&b, "[Event %q]\n", "Live board session")
	fmt.Fprintf(&b, "[Site %q]\n", "boardwatch")
	fmt.Fprintf(&b, "[Date %q]\n", c.startedAt.Format("2006.01.02"))
	fmt.Fprintf(&b, "[Result %q]\n", result)
	if c.baseFEN != startingFEN {
		fmt.Fprintf(&b, "[SetUp %q]\n[FEN %q]\n", "1", c.baseFEN)
	}
	b.WriteString("\n")

	num, blackFirst := pgnStart(c.baseFEN)
	for i, rec := range c.records {
		if i == 0 && blackFirst {
			fmt.Fprintf(&b, "%d... %s ", num, rec.SAN)
			num++
			continue
		}
		whiteMove := (i%2 == 0) != blackFirst
		if whiteMove {
			fmt.Fprintf(&b, "%d. %s ", num, rec.SAN)
		} else {
			fmt.Fprintf(&b, "%s ", rec.SAN)
			num++
		}
	}
	b.WriteString(result)
	return b.String()
}

func pgnStart(fen string) (num int, blackFirst bool) {
	num = 1
	fields := strings.Fields(fen)
	if len(fields) >= 6 {
		fmt.Sscanf(fields[5], "%d", &num)
		blackFirst = fields[1] == "b"
	}
	if num < 1 {
		num = 1
	}
	return num, blackFirst
}
