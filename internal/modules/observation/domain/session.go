package domain

import "time"

const SchemaVersion = 1

// TimestampLayout is the 24-hour wall-clock format used for log entries.
const TimestampLayout = "15:04:05"

// LogEntry is one immutable record of a state transition. An empty Value means
// the entry carries no value.
type LogEntry struct {
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Kind      Kind   `json:"type" yaml:"type"`
	Label     string `json:"label" yaml:"label"`
	Value     string `json:"value,omitempty" yaml:"value,omitempty"`
}

type EngagementSample struct {
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Level     Level  `json:"level" yaml:"level"`
}

// Session is the aggregate root of one observation run.
type Session struct {
	ID                string
	Subject           string
	Status            Status
	StartedAt         time.Time
	EndedAt           time.Time
	ElapsedSeconds    int
	ActiveMode        Mode
	ModeDurations     map[Mode]int
	ActionCounts      map[Action]int
	Engagement        Level
	EngagementHistory []EngagementSample
	LastEngagementAt  time.Time
	Stale             bool
	// Log is newest first.
	Log []LogEntry
}

func NewSession() Session {
	return Session{
		Status:        StatusIdle,
		Engagement:    LevelMedium,
		ModeDurations: map[Mode]int{},
		ActionCounts:  map[Action]int{},
	}
}

func (s Session) Running() bool { return s.Status == StatusRunning }

func (s Session) HasActiveMode() bool { return s.ActiveMode != "" }

func (s Session) ModeSeconds(m Mode) int { return s.ModeDurations[m] }

func (s Session) ActionCount(a Action) int { return s.ActionCounts[a] }

// Clone returns a deep copy so callers can hold a snapshot while the live
// session keeps changing.
func (s Session) Clone() Session {
	out := s
	out.ModeDurations = make(map[Mode]int, len(s.ModeDurations))
	for k, v := range s.ModeDurations {
		out.ModeDurations[k] = v
	}
	out.ActionCounts = make(map[Action]int, len(s.ActionCounts))
	for k, v := range s.ActionCounts {
		out.ActionCounts[k] = v
	}
	out.EngagementHistory = append([]EngagementSample(nil), s.EngagementHistory...)
	out.Log = append([]LogEntry(nil), s.Log...)
	return out
}
