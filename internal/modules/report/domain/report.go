package domain

import (
	"encoding/json"
	"fmt"

	observation "chronos/internal/modules/observation/domain"
)

// Bar heights are percentages of the engagement chart.
const (
	BarHigh   = 100
	BarMedium = 60
	BarLow    = 30
)

type ModeShare struct {
	Mode    observation.Mode
	Label   string
	Seconds int
	Percent float64
}

type ActionTotal struct {
	Action observation.Action
	Label  string
	Count  int
}

type Bar struct {
	Timestamp string
	Level     observation.Level
	Height    int
}

type EngagementPoint struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
}

// Snapshot is the fixed payload handed to the report generator.
type Snapshot struct {
	Subject           string                 `json:"subject"`
	TotalDuration     int                    `json:"totalDuration"`
	ModeDurations     map[string]int         `json:"modeDurations"`
	ActionCounts      map[string]int         `json:"actionCounts"`
	Log               []observation.LogEntry `json:"log"`
	EngagementHistory []EngagementPoint      `json:"engagementHistory"`
}

// JSON renders the snapshot with two-space indentation.
func (s Snapshot) JSON() (string, error) {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	return string(raw), nil
}

type Summary struct {
	SessionID string
	Subject   string
	// Final is set once the session is stopped and its figures are frozen.
	Final     bool
	Elapsed   int
	Duration  string
	Shares    []ModeShare
	Actions   []ActionTotal
	Bars      []Bar
	Snapshot  Snapshot
}

// Compile derives the summary view from a session. It reads only the copy it
// is given.
func Compile(s observation.Session) Summary {
	return Summary{
		SessionID: s.ID,
		Subject:   s.Subject,
		Final:     s.Status == observation.StatusStopped,
		Elapsed:   s.ElapsedSeconds,
		Duration:  observation.FormatDuration(s.ElapsedSeconds),
		Shares:    ModeShares(s.ModeDurations, s.ElapsedSeconds),
		Actions:   ActionTotals(s.ActionCounts),
		Bars:      EngagementBars(s.EngagementHistory),
		Snapshot:  NewSnapshot(s),
	}
}

func ModeShares(durations map[observation.Mode]int, elapsed int) []ModeShare {
	out := make([]ModeShare, 0, len(observation.Modes))
	for _, m := range observation.Modes {
		share := ModeShare{Mode: m, Label: m.Label(), Seconds: durations[m]}
		if elapsed > 0 {
			share.Percent = float64(share.Seconds) / float64(elapsed) * 100
		}
		out = append(out, share)
	}
	return out
}

func ActionTotals(counts map[observation.Action]int) []ActionTotal {
	out := make([]ActionTotal, 0, len(observation.Actions))
	for _, a := range observation.Actions {
		out = append(out, ActionTotal{Action: a, Label: a.Label(), Count: counts[a]})
	}
	return out
}

func EngagementBars(history []observation.EngagementSample) []Bar {
	out := make([]Bar, 0, len(history))
	for _, h := range history {
		out = append(out, Bar{Timestamp: h.Timestamp, Level: h.Level, Height: BarHeight(h.Level)})
	}
	return out
}

func BarHeight(level observation.Level) int {
	switch level {
	case observation.LevelHigh:
		return BarHigh
	case observation.LevelMedium:
		return BarMedium
	default:
		return BarLow
	}
}

func NewSnapshot(s observation.Session) Snapshot {
	snap := Snapshot{
		Subject:           s.Subject,
		TotalDuration:     s.ElapsedSeconds,
		ModeDurations:     map[string]int{},
		ActionCounts:      map[string]int{},
		Log:               append([]observation.LogEntry{}, s.Log...),
		EngagementHistory: make([]EngagementPoint, 0, len(s.EngagementHistory)),
	}
	for m, v := range s.ModeDurations {
		snap.ModeDurations[m.Label()] = v
	}
	for a, v := range s.ActionCounts {
		snap.ActionCounts[a.Label()] = v
	}
	for _, h := range s.EngagementHistory {
		snap.EngagementHistory = append(snap.EngagementHistory, EngagementPoint{Timestamp: h.Timestamp, Level: h.Level.Label()})
	}
	return snap
}
