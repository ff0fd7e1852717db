package domain

import (
	"fmt"
	"strings"

	apperrors "chronos/internal/platform/errors"
)

type Status string

const (
	StatusIdle    Status = "IDLE"
	StatusRunning Status = "RUNNING"
	StatusStopped Status = "STOPPED"
)

type Kind string

const (
	KindModeChange Kind = "MODE_CHANGE"
	KindAction     Kind = "ACTION"
	KindEngagement Kind = "ENGAGEMENT"
	KindNote       Kind = "NOTE"
)

// Mode is the mutually exclusive teaching activity.
type Mode string

const (
	ModeLecture         Mode = "LECTURE"
	ModeGroupDiscussion Mode = "GROUP_DISCUSSION"
	ModePractice        Mode = "PRACTICE"
	ModeDigitalUse      Mode = "DIGITAL_USE"
)

// Modes lists every mode in display order.
var Modes = []Mode{ModeLecture, ModeGroupDiscussion, ModePractice, ModeDigitalUse}

var modeLabels = map[Mode]string{
	ModeLecture:         "講述教學",
	ModeGroupDiscussion: "小組討論",
	ModePractice:        "實作/演算",
	ModeDigitalUse:      "數位運用",
}

func (m Mode) Label() string { return modeLabels[m] }

func (m Mode) Validate() error {
	if _, ok := modeLabels[m]; !ok {
		return fmt.Errorf("%w: unknown mode %q", apperrors.ErrInvalidInput, string(m))
	}
	return nil
}

// Action is a discrete, repeatable teaching behaviour.
type Action string

const (
	ActionPositiveEncouragement Action = "POSITIVE_ENCOURAGEMENT"
	ActionRegulation            Action = "REGULATION"
	ActionOpenQuestion          Action = "OPEN_QUESTION"
	ActionClosedQuestion        Action = "CLOSED_QUESTION"
	ActionPatrolling            Action = "PATROLLING"
)

var Actions = []Action{
	ActionPositiveEncouragement,
	ActionRegulation,
	ActionOpenQuestion,
	ActionClosedQuestion,
	ActionPatrolling,
}

var actionLabels = map[Action]string{
	ActionPositiveEncouragement: "正向鼓勵",
	ActionRegulation:            "糾正規範",
	ActionOpenQuestion:          "開放提問",
	ActionClosedQuestion:        "封閉提問",
	ActionPatrolling:            "巡視走動",
}

func (a Action) Label() string { return actionLabels[a] }

func (a Action) Validate() error {
	if _, ok := actionLabels[a]; !ok {
		return fmt.Errorf("%w: unknown action %q", apperrors.ErrInvalidInput, string(a))
	}
	return nil
}

// Level is the coarse student engagement rating.
type Level string

const (
	LevelHigh   Level = "HIGH"
	LevelMedium Level = "MEDIUM"
	LevelLow    Level = "LOW"
)

var Levels = []Level{LevelHigh, LevelMedium, LevelLow}

var levelLabels = map[Level]string{
	LevelHigh:   "高",
	LevelMedium: "中",
	LevelLow:    "低",
}

func (l Level) Label() string { return levelLabels[l] }

func (l Level) Validate() error {
	if _, ok := levelLabels[l]; !ok {
		return fmt.Errorf("%w: unknown engagement level %q", apperrors.ErrInvalidInput, string(l))
	}
	return nil
}

// ParseMode accepts a code in any case ("lecture") or the display label.
func ParseMode(raw string) (Mode, error) {
	for _, m := range Modes {
		if matches(raw, string(m), m.Label()) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unknown mode %q", apperrors.ErrInvalidInput, raw)
}

func ParseAction(raw string) (Action, error) {
	for _, a := range Actions {
		if matches(raw, string(a), a.Label()) {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: unknown action %q", apperrors.ErrInvalidInput, raw)
}

func ParseLevel(raw string) (Level, error) {
	for _, l := range Levels {
		if matches(raw, string(l), l.Label()) {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: unknown engagement level %q", apperrors.ErrInvalidInput, raw)
}

func matches(raw, code, label string) bool {
	raw = strings.TrimSpace(raw)
	normalized := strings.ToUpper(strings.ReplaceAll(raw, "-", "_"))
	return normalized == code || raw == label
}
