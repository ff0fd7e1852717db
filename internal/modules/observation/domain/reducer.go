package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "chronos/internal/platform/errors"
)

const (
	LabelSessionStart = "觀課開始"
	LabelSessionEnd   = "觀課結束"
	LabelActivated    = "啟用"
	LabelDeactivated  = "停用"
	LabelEngagement   = "專注度"
	LabelNote         = "質性筆記"
)

// Event is one input to the session state machine.
type Event interface {
	isEvent()
}

type Start struct {
	SessionID string
	Subject   string
}

type Stop struct{}

type ToggleMode struct{ Mode Mode }

type RecordAction struct{ Action Action }

type SetEngagement struct{ Level Level }

type AddNote struct{ Text string }

// Tick is the one-second heartbeat.
type Tick struct{}

// PollEngagement evaluates the staleness reminder against Threshold.
type PollEngagement struct{ Threshold time.Duration }

func (Start) isEvent()          {}
func (Stop) isEvent()           {}
func (ToggleMode) isEvent()     {}
func (RecordAction) isEvent()   {}
func (SetEngagement) isEvent()  {}
func (AddNote) isEvent()        {}
func (Tick) isEvent()           {}
func (PollEngagement) isEvent() {}

// Apply reduces ev over s at instant at. It never mutates s. Every state
// changing event except Tick and PollEngagement emits exactly one log entry,
// which is already prepended to the returned session's Log. Events other than
// Start are rejected with ErrNotRunning unless the session is running, and
// Start is rejected with ErrInvalidInput while it is; a rejected event returns
// s unchanged.
//
// Switching directly from one mode to another logs only the activation.
func Apply(s Session, ev Event, at time.Time) (Session, []LogEntry, error) {
	if start, ok := ev.(Start); ok {
		return applyStart(s, start, at)
	}
	if !s.Running() {
		return s, nil, apperrors.ErrNotRunning
	}

	next := s.Clone()
	stamp := at.Format(TimestampLayout)
	var entry LogEntry

	switch e := ev.(type) {
	case Stop:
		next.Status = StatusStopped
		next.EndedAt = at
		entry = LogEntry{Timestamp: stamp, Kind: KindAction, Label: LabelSessionEnd}

	case ToggleMode:
		if err := e.Mode.Validate(); err != nil {
			return s, nil, err
		}
		if next.ActiveMode == e.Mode {
			next.ActiveMode = ""
			entry = LogEntry{Timestamp: stamp, Kind: KindModeChange, Label: LabelDeactivated, Value: e.Mode.Label()}
		} else {
			next.ActiveMode = e.Mode
			entry = LogEntry{Timestamp: stamp, Kind: KindModeChange, Label: LabelActivated, Value: e.Mode.Label()}
		}

	case RecordAction:
		if err := e.Action.Validate(); err != nil {
			return s, nil, err
		}
		next.ActionCounts[e.Action]++
		entry = LogEntry{Timestamp: stamp, Kind: KindAction, Label: e.Action.Label()}

	case SetEngagement:
		if err := e.Level.Validate(); err != nil {
			return s, nil, err
		}
		next.Engagement = e.Level
		next.EngagementHistory = append(next.EngagementHistory, EngagementSample{Timestamp: stamp, Level: e.Level})
		next.LastEngagementAt = at
		next.Stale = false
		entry = LogEntry{Timestamp: stamp, Kind: KindEngagement, Label: LabelEngagement, Value: e.Level.Label()}

	case AddNote:
		text := strings.TrimSpace(e.Text)
		if text == "" {
			return s, nil, apperrors.ErrEmptyNote
		}
		entry = LogEntry{Timestamp: stamp, Kind: KindNote, Label: LabelNote, Value: text}

	case Tick:
		next.ElapsedSeconds++
		if next.HasActiveMode() {
			next.ModeDurations[next.ActiveMode]++
		}
		return next, nil, nil

	case PollEngagement:
		if IsStale(at, next.LastEngagementAt, e.Threshold) {
			next.Stale = true
		}
		return next, nil, nil

	default:
		return s, nil, fmt.Errorf("%w: unsupported event %T", apperrors.ErrInvalidInput, ev)
	}

	next.Log = prepend(next.Log, entry)
	return next, []LogEntry{entry}, nil
}

func applyStart(s Session, e Start, at time.Time) (Session, []LogEntry, error) {
	if s.Running() {
		return s, nil, fmt.Errorf("%w: session %s already running", apperrors.ErrInvalidInput, s.ID)
	}
	subject := strings.TrimSpace(e.Subject)
	if subject == "" {
		return s, nil, fmt.Errorf("%w: subject is required", apperrors.ErrInvalidInput)
	}
	next := NewSession()
	next.ID = e.SessionID
	next.Subject = subject
	next.Status = StatusRunning
	next.StartedAt = at
	next.LastEngagementAt = at
	entry := LogEntry{Timestamp: at.Format(TimestampLayout), Kind: KindAction, Label: LabelSessionStart, Value: subject}
	next.Log = []LogEntry{entry}
	return next, []LogEntry{entry}, nil
}

func prepend(log []LogEntry, entry LogEntry) []LogEntry {
	out := make([]LogEntry, 0, len(log)+1)
	out = append(out, entry)
	return append(out, log...)
}
