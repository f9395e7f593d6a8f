package domain

import "time"

// GameRecord is a finished or abandoned session as it goes to the archive.
type GameRecord struct {
	ID           int64
	SessionUUID  string
	Result       string
	ResultMethod string
	BaseFEN      string
	FinalFEN     string
	MovesUCI     []string
	MovesSAN     []string
	PGN          string
	Desynced     bool
	StartedAt    time.Time
	EndedAt      time.Time
	Duration     time.Duration
}
