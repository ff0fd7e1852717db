package domain

import "time"

const (
	ReportBlockStart = "<!-- chronos:report:start -->"
	ReportBlockEnd   = "<!-- chronos:report:end -->"
)

// Export is everything an export artifact is rendered from.
type Export struct {
	SessionID      string
	Subject        string
	StartedAt      time.Time
	ExportedAt     time.Time
	ElapsedSeconds int
	ModeDurations  map[Mode]int
	ActionCounts   map[Action]int
	Log            []LogEntry
	Report         string
}

func NewExport(s Session, at time.Time) Export {
	c := s.Clone()
	return Export{
		SessionID:      c.ID,
		Subject:        c.Subject,
		StartedAt:      c.StartedAt,
		ExportedAt:     at,
		ElapsedSeconds: c.ElapsedSeconds,
		ModeDurations:  c.ModeDurations,
		ActionCounts:   c.ActionCounts,
		Log:            c.Log,
	}
}
