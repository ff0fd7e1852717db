package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	assistantdto "chronos/internal/modules/assistant/dto"
	observationin "chronos/internal/modules/observation/adapter/in"
	observationout "chronos/internal/modules/observation/adapter/out"
	"chronos/internal/modules/observation/domain"
	observationservice "chronos/internal/modules/observation/service"
	observationusecase "chronos/internal/modules/observation/usecase"
	reportin "chronos/internal/modules/report/adapter/in"
	reportusecase "chronos/internal/modules/report/usecase"
	"chronos/internal/platform/clock"
	"chronos/internal/platform/id"
	"chronos/internal/ui/components"
)

type fakeIDs struct{}

func (fakeIDs) New() string { return "ui-1" }

type seqIDs struct{ n int }

func (s *seqIDs) New() string {
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

type fakeAssistant struct {
	polishErr error
	payloads  []string
}

func (f *fakeAssistant) Polish(_ context.Context, note string) (assistantdto.PolishOutput, error) {
	if f.polishErr != nil {
		return assistantdto.PolishOutput{Text: note}, f.polishErr
	}
	return assistantdto.PolishOutput{Text: "潤飾後：" + note, Changed: true}, nil
}

func (f *fakeAssistant) Summarize(_ context.Context, snapshot string) (assistantdto.ReportOutput, error) {
	f.payloads = append(f.payloads, snapshot)
	return assistantdto.ReportOutput{Markdown: "# 報告"}, nil
}

func newTestModel(t *testing.T, asst *fakeAssistant) (Model, *clock.Manual) {
	t.Helper()
	return newTestModelWithIDs(t, asst, fakeIDs{})
}

func newTestModelWithIDs(t *testing.T, asst *fakeAssistant, ids id.Generator) (Model, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(time.Date(2026, 10, 17, 9, 0, 0, 0, time.Local))
	svc := observationservice.NewSessionService(clk, ids, []string{"國文", "數學"}, 5*time.Minute, nil)
	obsUC := observationusecase.NewInteractor(svc, observationout.NewFileExportStore(t.TempDir()), nil)
	reportUC := reportusecase.NewInteractor(obsUC)
	m := NewModel(observationin.NewCLIHandler(obsUC), reportin.NewCLIHandler(reportUC), asst, Options{Subject: "數學"})
	return m, clk
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func beat(m Model, clk *clock.Manual, n int) Model {
	for i := 0; i < n; i++ {
		clk.Advance(time.Second)
		next, _ := m.Update(heartbeatMsg(clk.Now()))
		m = next.(Model)
	}
	return m
}

func TestHeartbeatOnlyCountsWhileRunning(t *testing.T) {
	t.Parallel()
	m, clk := newTestModel(t, &fakeAssistant{})

	m = beat(m, clk, 3)
	if m.session.ElapsedSeconds != 0 {
		t.Fatalf("idle heartbeat must not tick, got %d", m.session.ElapsedSeconds)
	}

	m = press(t, m, "s", "1")
	m = beat(m, clk, 5)
	if m.session.ElapsedSeconds != 5 || m.session.ModeSeconds(domain.ModeLecture) != 5 {
		t.Fatalf("unexpected session %+v", m.session)
	}
	if m.session.Subject != "數學" {
		t.Fatalf("expected selected subject, got %s", m.session.Subject)
	}
}

func TestStopOpensSummaryAndReportIsGeneratedOnce(t *testing.T) {
	t.Parallel()
	asst := &fakeAssistant{}
	m, clk := newTestModel(t, asst)

	m = press(t, m, "s", "p", "h")
	m = beat(m, clk, 2)
	m = press(t, m, "s")
	if m.activeTab != tabSummary || !m.summaryView.Ready() {
		t.Fatalf("stop must open the summary")
	}

	m, cmd := m.generateReport()
	if cmd == nil {
		t.Fatalf("expected report command")
	}
	next, _ := m.Update(reportMsg{sessionID: m.session.ID, out: assistantdto.ReportOutput{Markdown: "# 報告"}})
	m = next.(Model)
	if m.summaryView.Report() != "# 報告" {
		t.Fatalf("report not stored")
	}
	if _, again := m.generateReport(); again != nil {
		t.Fatalf("report must not be generated twice")
	}
}

func TestNoteInputSubmitsAndPolishFailureIsNotice(t *testing.T) {
	t.Parallel()
	asst := &fakeAssistant{polishErr: errors.New("offline")}
	m, _ := newTestModel(t, asst)

	m = press(t, m, "s", "n", "學", "生", "enter")
	if len(m.session.Log) != 2 || m.session.Log[0].Value != "學生" {
		t.Fatalf("note not logged: %+v", m.session.Log)
	}

	m = press(t, m, "q")
	if m.observeView.Note() != "q" {
		t.Fatalf("typing in the note must not quit, note=%q", m.observeView.Note())
	}
	next, _ := m.Update(polishedMsg{err: asst.polishErr})
	m = next.(Model)
	if m.status != polishFailedNotice {
		t.Fatalf("status = %q", m.status)
	}
}

func TestRejectedOperationsAreSilent(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, &fakeAssistant{})
	m = press(t, m, "p", "2")
	if m.status != "ready" || len(m.session.Log) != 0 {
		t.Fatalf("operations before start must be silent no-ops, status=%q", m.status)
	}
}

func TestPaletteCommands(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, &fakeAssistant{})
	for _, input := range []string{"start 國文", "mode group-discussion", "action 巡視走動", "engage low", "note 分組熱烈"} {
		next, _ := m.Update(components.PaletteSubmitMsg{Input: input})
		m = next.(Model)
	}
	if m.session.Subject != "國文" || m.session.ActiveMode != domain.ModeGroupDiscussion {
		t.Fatalf("unexpected session %+v", m.session)
	}
	if m.session.ActionCount(domain.ActionPatrolling) != 1 || m.session.Engagement != domain.LevelLow {
		t.Fatalf("unexpected counters %+v", m.session)
	}
	if len(m.session.Log) != 5 {
		t.Fatalf("log length = %d, want 5", len(m.session.Log))
	}
}

func TestNewSessionDiscardsPreviousReport(t *testing.T) {
	t.Parallel()
	m, clk := newTestModelWithIDs(t, &fakeAssistant{}, &seqIDs{})

	m = press(t, m, "s")
	m = beat(m, clk, 2)
	m = press(t, m, "s")
	first := m.session.ID
	m, cmd := m.generateReport()
	if cmd == nil {
		t.Fatalf("expected report command")
	}
	next, _ := m.Update(reportMsg{sessionID: first, out: assistantdto.ReportOutput{Markdown: "# 舊報告"}})
	m = next.(Model)
	if m.summaryView.Report() != "# 舊報告" {
		t.Fatalf("report not stored for %s", first)
	}

	m = press(t, m, "esc", "s")
	if m.session.ID == first || !m.session.Running() {
		t.Fatalf("expected a new running session, got %s %s", m.session.ID, m.session.Status)
	}
	if m.summaryView.Report() != "" || m.summaryView.Ready() {
		t.Fatalf("summary must be reset on start")
	}

	m = press(t, m, "x")
	path := strings.TrimPrefix(m.status, "已匯出 ")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export %q: %v", path, err)
	}
	if strings.Contains(string(raw), "舊報告") {
		t.Fatalf("export of %s carries the report of %s", m.session.ID, first)
	}
}

func TestLateReportForOtherSessionIsDropped(t *testing.T) {
	t.Parallel()
	m, clk := newTestModelWithIDs(t, &fakeAssistant{}, &seqIDs{})

	m = press(t, m, "s")
	m = beat(m, clk, 1)
	m = press(t, m, "s")
	first := m.session.ID
	m, _ = m.generateReport()

	m = press(t, m, "esc", "s", "s")
	if m.session.ID == first || m.session.Status != domain.StatusStopped {
		t.Fatalf("expected a second stopped session, got %s %s", m.session.ID, m.session.Status)
	}
	next, _ := m.Update(reportMsg{sessionID: first, out: assistantdto.ReportOutput{Markdown: "# 舊報告"}})
	m = next.(Model)
	if m.summaryView.Report() != "" {
		t.Fatalf("report of %s attached to %s", first, m.session.ID)
	}
	if !m.summaryView.CanGenerate() {
		t.Fatalf("second session must still be able to generate its own report")
	}
}
