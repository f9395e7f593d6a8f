package syncdto

import "time"

// Frame is one occupancy observation pushed by the vision service.
// Rows are in visual order: row 0 is rank 8, column 0 is file a.
type Frame struct {
	Type    string     `json:"type"`
	Grid    [][]bool   `json:"grid"`
	Classes [][]string `json:"classes,omitempty"`
	TsMS    int64      `json:"ts_ms"`
}

// FrameTypes pushed by the vision service.
const (
	FrameOccupancy = "occupancy"
	FrameBoardScan = "board_scan"
)

func (f Frame) Timestamp() time.Time {
	if f.TsMS == 0 {
		return time.Time{}
	}
	return time.UnixMilli(f.TsMS)
}
