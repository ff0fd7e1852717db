package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hashicorp/go-hclog"

	assistantdto "chronos/internal/modules/assistant/dto"
	"chronos/internal/modules/observation/domain"
	observationdto "chronos/internal/modules/observation/dto"
	reportdto "chronos/internal/modules/report/dto"
	apperrors "chronos/internal/platform/errors"
	"chronos/internal/platform/logging"
	"chronos/internal/ui/components"
	"chronos/internal/ui/theme"
	observeview "chronos/internal/ui/views/observe"
	summaryview "chronos/internal/ui/views/summary"
)

const (
	polishFailedNotice = "AI 潤飾失敗，請檢查網路連線"
	reportFailedNotice = "生成報告失敗，請稍後再試"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type observationPort interface {
	Subjects() []string
	Start(ctx context.Context, subject string) (observationdto.SessionOutput, error)
	Stop(ctx context.Context) (observationdto.SessionOutput, error)
	ToggleMode(ctx context.Context, mode string) (observationdto.SessionOutput, error)
	RecordAction(ctx context.Context, action string) (observationdto.SessionOutput, error)
	SetEngagement(ctx context.Context, level string) (observationdto.SessionOutput, error)
	AddNote(ctx context.Context, text string) (observationdto.SessionOutput, error)
	Tick(ctx context.Context) (observationdto.SessionOutput, error)
	PollEngagement(ctx context.Context) (observationdto.SessionOutput, error)
	Current(ctx context.Context) (observationdto.SessionOutput, error)
	CopyLog(ctx context.Context) (string, error)
	ExportText(ctx context.Context) (observationdto.ExportOutput, error)
	ExportMarkdown(ctx context.Context, report string) (observationdto.ExportOutput, error)
}

type reportPort interface {
	Summary(ctx context.Context) (reportdto.SummaryOutput, error)
}

type assistantPort interface {
	Polish(ctx context.Context, note string) (assistantdto.PolishOutput, error)
	Summarize(ctx context.Context, snapshotJSON string) (assistantdto.ReportOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabObserve tabID = iota
	tabSummary
	tabCount
)

var tabLabels = [tabCount]string{"觀課", "摘要"}

// ─── async messages ───────────────────────────────────────────────────────────

type heartbeatMsg time.Time

type pollMsg time.Time

type polishedMsg struct {
	out assistantdto.PolishOutput
	err error
}

type reportMsg struct {
	sessionID string
	out       assistantdto.ReportOutput
	err       error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Toggle  key.Binding
	Subject key.Binding
	Modes   key.Binding
	Actions key.Binding
	Engage  key.Binding
	Note    key.Binding
	Polish  key.Binding
	Copy    key.Binding
	Export  key.Binding
	Report  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "觀課/摘要")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "說明")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "指令")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "離開")),
		Toggle:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "開始/結束")),
		Subject: key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "科目")),
		Modes:   key.NewBinding(key.WithKeys(observeview.ModeKeys...), key.WithHelp("1-4", "教學模式")),
		Actions: key.NewBinding(key.WithKeys(observeview.ActionKeys...), key.WithHelp("p r o c w", "教學行為")),
		Engage:  key.NewBinding(key.WithKeys(observeview.LevelKeys...), key.WithHelp("h m l", "專注度")),
		Note:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "筆記")),
		Polish:  key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "AI 潤飾")),
		Copy:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "複製紀錄")),
		Export:  key.NewBinding(key.WithKeys("t", "x"), key.WithHelp("t/x", "匯出 txt/md")),
		Report:  key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "AI 報告")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Subject, k.Modes, k.Actions, k.Engage},
		{k.Note, k.Polish, k.Copy, k.Export, k.Report},
		{k.Tab, k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

type Options struct {
	Subject   string
	PollEvery time.Duration
	Logger    hclog.Logger
}

// Model is the root Bubble Tea model. It is the only caller of the
// observation port, so every session mutation happens on the Update loop.
// Only backend calls run in commands.
type Model struct {
	observation observationPort
	report      reportPort
	assistant   assistantPort
	pollEvery   time.Duration
	logger      hclog.Logger

	observeView observeview.Model
	summaryView summaryview.Model

	session   domain.Session
	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

func NewModel(observation observationPort, report reportPort, assistant assistantPort, opts Options) Model {
	if opts.PollEvery <= 0 {
		opts.PollEvery = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return Model{
		observation: observation,
		report:      report,
		assistant:   assistant,
		pollEvery:   opts.PollEvery,
		logger:      opts.Logger.Named("ui"),
		observeView: observeview.New(observation.Subjects(), opts.Subject),
		summaryView: summaryview.New(),
		session:     domain.NewSession(),
		activeTab:   tabObserve,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		status:      "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(heartbeat(), m.pollCmd())
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The palette intercepts all input while open.
	if m.palette.Visible() {
		if _, ok := msg.(tea.KeyMsg); ok {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case heartbeatMsg:
		m.observeView.SetNow(time.Time(msg))
		if m.session.Running() {
			m.apply(m.observation.Tick(context.Background()))
		}
		return m, heartbeat()

	case pollMsg:
		if m.session.Running() {
			m.apply(m.observation.PollEngagement(context.Background()))
		}
		return m, m.pollCmd()

	case polishedMsg:
		m.observeView.SetPolishing(false)
		if msg.err != nil {
			m.logger.Error("polish failed", "error", msg.err)
			m.status = polishFailedNotice
			return m, nil
		}
		m.observeView.SetNote(msg.out.Text)
		m.status = "筆記已潤飾"
		return m, nil

	case reportMsg:
		if msg.sessionID != m.session.ID || m.session.Status != domain.StatusStopped {
			m.logger.Debug("stale report dropped", "session_id", msg.sessionID)
			return m, nil
		}
		if msg.err != nil {
			m.logger.Error("report generation failed", "error", msg.err)
			m.summaryView.SetGenerating(false)
			m.status = reportFailedNotice
			return m, nil
		}
		m.summaryView.SetReport(msg.out.Markdown)
		m.status = "AI 報告已生成"
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.activeTab == tabObserve && m.observeView.NoteFocused() {
			return m.updateNote(msg)
		}
		if model, cmd, handled := m.handleKey(msg); handled {
			return model, cmd
		}
	}

	var cmd tea.Cmd
	switch m.activeTab {
	case tabObserve:
		m.observeView, cmd = m.observeView.Update(msg)
	case tabSummary:
		m.summaryView, cmd = m.summaryView.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	ctx := context.Background()
	k := msg.String()
	switch k {
	case "ctrl+c", "q":
		return m, tea.Quit, true
	case "tab":
		m.activeTab = (m.activeTab + 1) % tabCount
		if m.activeTab == tabSummary {
			m.refreshSummary()
		}
		return m, nil, true
	case "?":
		m.showHelp = !m.showHelp
		return m, nil, true
	case ":":
		return m, m.palette.Open(), true
	case "y":
		return m.copyLog(), nil, true
	case "t":
		return m.exportText(), nil, true
	case "x":
		return m.exportMarkdown(), nil, true
	case "g":
		model, cmd := m.generateReport()
		return model, cmd, true
	}

	if m.activeTab == tabSummary {
		if k == "esc" {
			m.activeTab = tabObserve
			return m, nil, true
		}
		return m, nil, false
	}

	switch k {
	case "s":
		return m.toggleSession(m.observeView.Subject()), nil, true
	case "left", "right":
		delta := 1
		if k == "left" {
			delta = -1
		}
		m.observeView.CycleSubject(delta)
		return m, nil, true
	case "n":
		return m, m.observeView.FocusNote(), true
	case "ctrl+p":
		model, cmd := m.polish()
		return model, cmd, true
	}
	if i := indexOf(observeview.ModeKeys, k); i >= 0 {
		m.apply(m.observation.ToggleMode(ctx, string(domain.Modes[i])))
		return m, nil, true
	}
	if i := indexOf(observeview.ActionKeys, k); i >= 0 {
		m.apply(m.observation.RecordAction(ctx, string(domain.Actions[i])))
		return m, nil, true
	}
	if i := indexOf(observeview.LevelKeys, k); i >= 0 {
		m.apply(m.observation.SetEngagement(ctx, string(domain.Levels[i])))
		return m, nil, true
	}
	return m, nil, false
}

func (m Model) updateNote(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.observeView.BlurNote()
		return m, nil
	case "ctrl+p":
		return m.polish()
	case "enter":
		if m.sendNote(m.observeView.Note()) {
			m.observeView.SetNote("")
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.observeView, cmd = m.observeView.Update(msg)
	return m, cmd
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.activeTab == tabSummary:
		content = m.summaryView.View()
	default:
		content = m.observeView.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "Chronos  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.session.Running() {
		left = theme.Hot.Render("● "+m.session.Subject) + "  " + left
	}
	right := theme.Muted.Render("?:說明  tab:切換  ::指令  q:離開")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	ctx := context.Background()
	verb, arg, _ := strings.Cut(strings.TrimSpace(input), " ")
	arg = strings.TrimSpace(arg)

	switch verb {
	case "start":
		if m.session.Running() {
			m.status = "觀課進行中"
			return m, nil
		}
		subject := m.observeView.Subject()
		if arg != "" {
			m.observeView.SelectSubject(arg)
			subject = arg
		}
		return m.toggleSession(subject), nil
	case "stop":
		if !m.session.Running() {
			return m, nil
		}
		return m.toggleSession(""), nil
	case "subject":
		if !m.observeView.SelectSubject(arg) {
			m.status = "無法切換科目: " + arg
		}
		return m, nil
	case "mode":
		m.apply(m.observation.ToggleMode(ctx, arg))
	case "action":
		m.apply(m.observation.RecordAction(ctx, arg))
	case "engage":
		m.apply(m.observation.SetEngagement(ctx, arg))
	case "note":
		m.sendNote(arg)
	case "polish":
		return m.polish()
	case "copy":
		return m.copyLog(), nil
	case "export:txt":
		return m.exportText(), nil
	case "export:md":
		return m.exportMarkdown(), nil
	case "report":
		return m.generateReport()
	case "summary":
		m.refreshSummary()
		m.activeTab = tabSummary
	default:
		m.status = "unknown command: " + verb
	}
	return m, nil
}

// ─── session operations ───────────────────────────────────────────────────────

// apply records the session after an observation call. Rejected operations
// (not running, invalid input, empty note) are silent no-ops.
func (m *Model) apply(out observationdto.SessionOutput, err error) bool {
	if err != nil {
		if errors.Is(err, apperrors.ErrNotRunning) || errors.Is(err, apperrors.ErrInvalidInput) || errors.Is(err, apperrors.ErrEmptyNote) {
			m.logger.Trace("operation ignored", "error", err)
			return false
		}
		m.status = err.Error()
		return false
	}
	m.session = out.Session
	m.observeView.SetSession(out.Session)
	return true
}

func (m Model) toggleSession(subject string) Model {
	ctx := context.Background()
	if m.session.Running() {
		if m.apply(m.observation.Stop(ctx)) {
			m.refreshSummary()
			m.activeTab = tabSummary
			m.status = "觀課結束 " + domain.FormatDuration(m.session.ElapsedSeconds)
		}
		return m
	}
	if m.apply(m.observation.Start(ctx, subject)) {
		m.summaryView.Reset()
		m.activeTab = tabObserve
		m.status = "觀課開始: " + m.session.Subject
	}
	return m
}

func (m *Model) sendNote(text string) bool {
	return m.apply(m.observation.AddNote(context.Background(), text))
}

func (m *Model) refreshSummary() {
	out, err := m.report.Summary(context.Background())
	if err != nil {
		if !errors.Is(err, apperrors.ErrNoSession) {
			m.status = err.Error()
		}
		return
	}
	m.summaryView.SetSummary(out.Summary)
}

func (m Model) copyLog() Model {
	if _, err := m.observation.CopyLog(context.Background()); err != nil {
		m.status = noticeFor("複製失敗", err)
		return m
	}
	m.status = "紀錄已複製到剪貼簿"
	return m
}

func (m Model) exportText() Model {
	out, err := m.observation.ExportText(context.Background())
	if err != nil {
		m.status = noticeFor("匯出失敗", err)
		return m
	}
	m.status = "已匯出 " + out.Path
	return m
}

func (m Model) exportMarkdown() Model {
	out, err := m.observation.ExportMarkdown(context.Background(), m.summaryView.Report())
	if err != nil {
		m.status = noticeFor("匯出失敗", err)
		return m
	}
	m.status = "已匯出 " + out.Path
	return m
}

func (m Model) polish() (Model, tea.Cmd) {
	note := m.observeView.Note()
	if strings.TrimSpace(note) == "" || m.observeView.Polishing() {
		return m, nil
	}
	spin := m.observeView.SetPolishing(true)
	return m, tea.Batch(spin, func() tea.Msg {
		out, err := m.assistant.Polish(context.Background(), note)
		return polishedMsg{out: out, err: err}
	})
}

// generateReport snapshots the session on the Update loop and only hands the
// serialized payload to the background command.
func (m Model) generateReport() (Model, tea.Cmd) {
	if m.session.Status != domain.StatusStopped {
		return m, nil
	}
	out, err := m.report.Summary(context.Background())
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.summaryView.SetSummary(out.Summary)
	if !m.summaryView.CanGenerate() {
		return m, nil
	}
	m.activeTab = tabSummary
	spin := m.summaryView.SetGenerating(true)
	payload, sessionID := out.SnapshotJSON, m.session.ID
	return m, tea.Batch(spin, func() tea.Msg {
		res, err := m.assistant.Summarize(context.Background(), payload)
		return reportMsg{sessionID: sessionID, out: res, err: err}
	})
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func heartbeat() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg { return heartbeatMsg(t) })
}

func (m Model) pollCmd() tea.Cmd {
	return tea.Every(m.pollEvery, func(t time.Time) tea.Msg { return pollMsg(t) })
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.observeView, _ = m.observeView.Update(sz)
	m.summaryView, _ = m.summaryView.Update(sz)
}

func noticeFor(prefix string, err error) string {
	if errors.Is(err, apperrors.ErrNoSession) {
		return prefix + ": 尚無觀課紀錄"
	}
	return fmt.Sprintf("%s: %v", prefix, err)
}

func indexOf(keys []string, k string) int {
	for i, v := range keys {
		if v == k {
			return i
		}
	}
	return -1
}
