package domain_test

import (
	"errors"
	"testing"
	"time"

	"chronos/internal/modules/observation/domain"
	apperrors "chronos/internal/platform/errors"
)

var t0 = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

func mustApply(t *testing.T, s domain.Session, ev domain.Event, at time.Time) domain.Session {
	t.Helper()
	next, _, err := domain.Apply(s, ev, at)
	if err != nil {
		t.Fatalf("apply %T: %v", ev, err)
	}
	return next
}

func started(t *testing.T, subject string) domain.Session {
	t.Helper()
	return mustApply(t, domain.NewSession(), domain.Start{SessionID: "s-1", Subject: subject}, t0)
}

func TestStartResetsStateAndLogsSubject(t *testing.T) {
	t.Parallel()
	s := started(t, "英文")
	s = mustApply(t, s, domain.RecordAction{Action: domain.ActionPatrolling}, t0)
	s = mustApply(t, s, domain.ToggleMode{Mode: domain.ModePractice}, t0)
	s = mustApply(t, s, domain.Tick{}, t0)
	s = mustApply(t, s, domain.Stop{}, t0)

	restarted, entries, err := domain.Apply(s, domain.Start{SessionID: "s-2", Subject: "數學"}, t0.Add(time.Hour))
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if restarted.Status != domain.StatusRunning || restarted.ID != "s-2" {
		t.Fatalf("unexpected restarted session %+v", restarted)
	}
	if restarted.ElapsedSeconds != 0 || len(restarted.ModeDurations) != 0 || len(restarted.ActionCounts) != 0 {
		t.Fatalf("counters not reset: %+v", restarted)
	}
	if restarted.HasActiveMode() || restarted.Engagement != domain.LevelMedium || len(restarted.EngagementHistory) != 0 {
		t.Fatalf("mode/engagement not reset: %+v", restarted)
	}
	if len(entries) != 1 || len(restarted.Log) != 1 {
		t.Fatalf("expected exactly one start entry, got %d/%d", len(entries), len(restarted.Log))
	}
	if got := restarted.Log[0]; got.Label != domain.LabelSessionStart || got.Value != "數學" || got.Kind != domain.KindAction || got.Timestamp != "10:00:00" {
		t.Fatalf("unexpected start entry %+v", got)
	}
	if !restarted.LastEngagementAt.Equal(t0.Add(time.Hour)) {
		t.Fatalf("engagement ping not seeded at start")
	}
}

func TestStartRejectsBlankSubject(t *testing.T) {
	t.Parallel()
	s := domain.NewSession()
	next, entries, err := domain.Apply(s, domain.Start{Subject: "  "}, t0)
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if next.Status != domain.StatusIdle || entries != nil {
		t.Fatalf("rejected start must not change state")
	}
}

func TestStartWhileRunningIsRejected(t *testing.T) {
	t.Parallel()
	s := started(t, "英文")
	s = mustApply(t, s, domain.RecordAction{Action: domain.ActionOpenQuestion}, t0)

	next, entries, err := domain.Apply(s, domain.Start{SessionID: "s-2", Subject: "數學"}, t0.Add(time.Minute))
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if entries != nil || next.ID != "s-1" || next.Subject != "英文" || len(next.Log) != 2 {
		t.Fatalf("running session must be kept, got %+v", next)
	}
}

func TestLectureScenario(t *testing.T) {
	t.Parallel()
	s := started(t, "數學")
	s = mustApply(t, s, domain.ToggleMode{Mode: domain.ModeLecture}, t0)
	for i := 0; i < 65; i++ {
		s = mustApply(t, s, domain.Tick{}, t0.Add(time.Duration(i+1)*time.Second))
	}
	s = mustApply(t, s, domain.Stop{}, t0.Add(65*time.Second))

	if s.ElapsedSeconds != 65 || s.ModeSeconds(domain.ModeLecture) != 65 {
		t.Fatalf("expected 65/65, got %d/%d", s.ElapsedSeconds, s.ModeSeconds(domain.ModeLecture))
	}
	if got := domain.FormatDuration(s.ElapsedSeconds); got != "01:05" {
		t.Fatalf("expected 01:05, got %s", got)
	}
	if len(s.Log) != 3 {
		t.Fatalf("expected 3 log entries, got %d", len(s.Log))
	}
	want := []string{domain.LabelSessionEnd, domain.LabelActivated, domain.LabelSessionStart}
	for i, label := range want {
		if s.Log[i].Label != label {
			t.Fatalf("entry %d: expected %s, got %s", i, label, s.Log[i].Label)
		}
	}
	if s.Log[1].Value != "講述教學" || s.Log[1].Kind != domain.KindModeChange {
		t.Fatalf("unexpected activation entry %+v", s.Log[1])
	}
	if s.Status != domain.StatusStopped || !s.EndedAt.Equal(t0.Add(65*time.Second)) {
		t.Fatalf("session not stopped correctly: %+v", s)
	}
}

func TestTickOnlyCountsActiveMode(t *testing.T) {
	t.Parallel()
	s := started(t, "理化")
	s = mustApply(t, s, domain.Tick{}, t0)
	s = mustApply(t, s, domain.ToggleMode{Mode: domain.ModeLecture}, t0)
	for i := 0; i < 3; i++ {
		s = mustApply(t, s, domain.Tick{}, t0)
	}
	s = mustApply(t, s, domain.ToggleMode{Mode: domain.ModeGroupDiscussion}, t0)
	for i := 0; i < 4; i++ {
		s = mustApply(t, s, domain.Tick{}, t0)
	}
	s = mustApply(t, s, domain.ToggleMode{Mode: domain.ModeGroupDiscussion}, t0)
	s = mustApply(t, s, domain.Tick{}, t0)

	if s.ElapsedSeconds != 9 {
		t.Fatalf("expected 9 elapsed, got %d", s.ElapsedSeconds)
	}
	if s.ModeSeconds(domain.ModeLecture) != 3 || s.ModeSeconds(domain.ModeGroupDiscussion) != 4 {
		t.Fatalf("unexpected mode durations %v", s.ModeDurations)
	}
	if _, ok := s.ModeDurations[domain.ModePractice]; ok {
		t.Fatalf("unused modes must stay absent")
	}
	total := 0
	for _, v := range s.ModeDurations {
		total += v
	}
	if total > s.ElapsedSeconds {
		t.Fatalf("mode time %d exceeds elapsed %d", total, s.ElapsedSeconds)
	}
}

func TestSwitchingModesLogsOnlyActivation(t *testing.T) {
	t.Parallel()
	s := started(t, "社會")
	s = mustApply(t, s, domain.ToggleMode{Mode: domain.ModeLecture}, t0)
	next, entries, err := domain.Apply(s, domain.ToggleMode{Mode: domain.ModeDigitalUse}, t0)
	if err != nil {
		t.Fatalf("switch: %v", err)
	}
	if next.ActiveMode != domain.ModeDigitalUse {
		t.Fatalf("expected digital use active, got %s", next.ActiveMode)
	}
	if len(entries) != 1 || entries[0].Label != domain.LabelActivated || entries[0].Value != "數位運用" {
		t.Fatalf("expected single activation entry, got %+v", entries)
	}
	if len(next.Log) != len(s.Log)+1 {
		t.Fatalf("switch must add exactly one entry")
	}

	off, entries, err := domain.Apply(next, domain.ToggleMode{Mode: domain.ModeDigitalUse}, t0)
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if off.HasActiveMode() || entries[0].Label != domain.LabelDeactivated {
		t.Fatalf("expected deactivation, got mode=%q entry=%+v", off.ActiveMode, entries[0])
	}
}

func TestRecordActionCounts(t *testing.T) {
	t.Parallel()
	s := started(t, "國文")
	s = mustApply(t, s, domain.RecordAction{Action: domain.ActionPositiveEncouragement}, t0)
	s = mustApply(t, s, domain.RecordAction{Action: domain.ActionPositiveEncouragement}, t0)
	s = mustApply(t, s, domain.RecordAction{Action: domain.ActionPatrolling}, t0)

	if s.ActionCount(domain.ActionPositiveEncouragement) != 2 || s.ActionCount(domain.ActionPatrolling) != 1 {
		t.Fatalf("unexpected counts %v", s.ActionCounts)
	}
	if len(s.ActionCounts) != 2 || s.ActionCount(domain.ActionOpenQuestion) != 0 {
		t.Fatalf("other actions must be absent, got %v", s.ActionCounts)
	}
	if s.Log[0].Label != "巡視走動" || s.Log[0].Value != "" || s.Log[0].Kind != domain.KindAction {
		t.Fatalf("unexpected action entry %+v", s.Log[0])
	}
}

func TestOperationsAreNoOpsUnlessRunning(t *testing.T) {
	t.Parallel()
	idle := domain.NewSession()
	stopped := mustApply(t, started(t, "體育"), domain.Stop{}, t0)

	events := []domain.Event{
		domain.Stop{},
		domain.ToggleMode{Mode: domain.ModeLecture},
		domain.RecordAction{Action: domain.ActionRegulation},
		domain.SetEngagement{Level: domain.LevelHigh},
		domain.AddNote{Text: "after the bell"},
		domain.Tick{},
		domain.PollEngagement{Threshold: time.Second},
	}
	for _, s := range []domain.Session{idle, stopped} {
		for _, ev := range events {
			next, entries, err := domain.Apply(s, ev, t0.Add(time.Hour))
			if !errors.Is(err, apperrors.ErrNotRunning) {
				t.Fatalf("%s %T: expected ErrNotRunning, got %v", s.Status, ev, err)
			}
			if entries != nil || len(next.Log) != len(s.Log) || next.ElapsedSeconds != s.ElapsedSeconds || len(next.ActionCounts) != len(s.ActionCounts) {
				t.Fatalf("%s %T: state changed", s.Status, ev)
			}
		}
	}
}

func TestEngagementStalenessScenario(t *testing.T) {
	t.Parallel()
	threshold := 5 * time.Minute
	s := started(t, "藝術")
	s = mustApply(t, s, domain.SetEngagement{Level: domain.LevelLow}, t0)

	for elapsed := 10 * time.Second; elapsed <= threshold; elapsed += 10 * time.Second {
		s = mustApply(t, s, domain.PollEngagement{Threshold: threshold}, t0.Add(elapsed))
		if s.Stale {
			t.Fatalf("stale raised too early at %s", elapsed)
		}
	}
	s = mustApply(t, s, domain.PollEngagement{Threshold: threshold}, t0.Add(threshold+10*time.Second))
	if !s.Stale {
		t.Fatalf("expected stale after threshold")
	}
	// sticky: a later poll does not clear it
	s = mustApply(t, s, domain.PollEngagement{Threshold: time.Hour}, t0.Add(threshold+20*time.Second))
	if !s.Stale {
		t.Fatalf("stale flag must stay raised until engagement changes")
	}

	before := len(s.EngagementHistory)
	s = mustApply(t, s, domain.SetEngagement{Level: domain.LevelHigh}, t0.Add(6*time.Minute))
	if s.Stale {
		t.Fatalf("set engagement must clear stale flag")
	}
	if len(s.EngagementHistory) != before+1 || s.EngagementHistory[before].Level != domain.LevelHigh {
		t.Fatalf("unexpected history %+v", s.EngagementHistory)
	}
	if s.EngagementHistory[before].Timestamp != "09:06:00" || s.Engagement != domain.LevelHigh {
		t.Fatalf("unexpected engagement sample %+v", s.EngagementHistory[before])
	}
	if s.Log[0].Kind != domain.KindEngagement || s.Log[0].Value != "高" {
		t.Fatalf("unexpected engagement entry %+v", s.Log[0])
	}
}

func TestAddNote(t *testing.T) {
	t.Parallel()
	s := started(t, "資訊")
	if _, _, err := domain.Apply(s, domain.AddNote{Text: "   "}, t0); !errors.Is(err, apperrors.ErrEmptyNote) {
		t.Fatalf("expected empty note error, got %v", err)
	}
	s = mustApply(t, s, domain.AddNote{Text: "  students ask why  "}, t0)
	if s.Log[0].Kind != domain.KindNote || s.Log[0].Label != domain.LabelNote || s.Log[0].Value != "students ask why" {
		t.Fatalf("unexpected note entry %+v", s.Log[0])
	}
}

func TestInvalidVocabularyRejected(t *testing.T) {
	t.Parallel()
	s := started(t, "數學")
	for _, ev := range []domain.Event{
		domain.ToggleMode{Mode: "DANCING"},
		domain.RecordAction{Action: "SHOUTING"},
		domain.SetEngagement{Level: "EXTREME"},
	} {
		next, _, err := domain.Apply(s, ev, t0)
		if !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("%T: expected invalid input, got %v", ev, err)
		}
		if len(next.Log) != len(s.Log) {
			t.Fatalf("%T: rejected event changed the log", ev)
		}
	}
}

func TestLogLengthMatchesOperationCount(t *testing.T) {
	t.Parallel()
	s := domain.NewSession()
	ops := []domain.Event{
		domain.Start{Subject: "數學"},
		domain.ToggleMode{Mode: domain.ModeLecture},
		domain.RecordAction{Action: domain.ActionOpenQuestion},
		domain.SetEngagement{Level: domain.LevelHigh},
		domain.ToggleMode{Mode: domain.ModePractice},
		domain.AddNote{Text: "pairs work"},
		domain.RecordAction{Action: domain.ActionClosedQuestion},
		domain.Stop{},
	}
	for i, ev := range ops {
		s = mustApply(t, s, ev, t0.Add(time.Duration(i)*time.Minute))
		if s.Running() {
			s = mustApply(t, s, domain.Tick{}, t0) // ticks never log
		}
	}
	if len(s.Log) != len(ops) {
		t.Fatalf("expected %d entries, got %d", len(ops), len(s.Log))
	}
	for i := 1; i < len(s.Log); i++ {
		if s.Log[i-1].Timestamp < s.Log[i].Timestamp {
			t.Fatalf("log not newest-first at %d: %v", i, s.Log)
		}
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	t.Parallel()
	s := started(t, "數學")
	s = mustApply(t, s, domain.ToggleMode{Mode: domain.ModeLecture}, t0)
	_ = mustApply(t, s, domain.Tick{}, t0)
	_ = mustApply(t, s, domain.RecordAction{Action: domain.ActionRegulation}, t0)
	if s.ElapsedSeconds != 0 || s.ModeSeconds(domain.ModeLecture) != 0 || s.ActionCount(domain.ActionRegulation) != 0 || len(s.Log) != 2 {
		t.Fatalf("input session was mutated: %+v", s)
	}
}

func TestParseVocabulary(t *testing.T) {
	t.Parallel()
	if m, err := domain.ParseMode("group-discussion"); err != nil || m != domain.ModeGroupDiscussion {
		t.Fatalf("parse mode code: %v %v", m, err)
	}
	if m, err := domain.ParseMode("講述教學"); err != nil || m != domain.ModeLecture {
		t.Fatalf("parse mode label: %v %v", m, err)
	}
	if a, err := domain.ParseAction("positive_encouragement"); err != nil || a != domain.ActionPositiveEncouragement {
		t.Fatalf("parse action: %v %v", a, err)
	}
	if l, err := domain.ParseLevel("低"); err != nil || l != domain.LevelLow {
		t.Fatalf("parse level: %v %v", l, err)
	}
	if _, err := domain.ParseLevel("meh"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
