package observe

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"chronos/internal/modules/observation/domain"
	"chronos/internal/ui/theme"
)

// ModeKeys and ActionKeys map single keys to the vocabulary, in display order.
var (
	ModeKeys = []string{"1", "2", "3", "4"}

	ActionKeys = []string{"p", "r", "o", "c", "w"}

	LevelKeys = []string{"h", "m", "l"}
)

const staleHint = "(請更新紀錄)"

// Model renders the live observation screen. It holds no session logic: the
// root model pushes the latest session and wall-clock time into it.
type Model struct {
	subjects   []string
	subjectIdx int
	session    domain.Session
	now        time.Time

	note      textinput.Model
	spinner   spinner.Model
	polishing bool
	log       viewport.Model

	width  int
	height int
}

func New(subjects []string, initial string) Model {
	ti := textinput.New()
	ti.Placeholder = "質性筆記…  (n 輸入, enter 送出, ctrl+p AI 潤飾)"
	ti.CharLimit = 500

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	idx := 0
	for i, s := range subjects {
		if s == initial {
			idx = i
		}
	}

	return Model{
		subjects:   subjects,
		subjectIdx: idx,
		session:    domain.NewSession(),
		note:       ti,
		spinner:    sp,
		log:        viewport.New(0, 0),
	}
}

func (m *Model) SetSession(s domain.Session) {
	m.session = s
	m.log.SetContent(renderLog(s.Log))
	m.log.GotoTop()
}

func (m *Model) SetNow(t time.Time) { m.now = t }

func (m Model) Subject() string {
	if len(m.subjects) == 0 {
		return ""
	}
	return m.subjects[m.subjectIdx]
}

// CycleSubject moves the selector; it is locked while a session runs.
func (m *Model) CycleSubject(delta int) bool {
	if m.session.Running() || len(m.subjects) == 0 {
		return false
	}
	n := len(m.subjects)
	m.subjectIdx = ((m.subjectIdx+delta)%n + n) % n
	return true
}

// SelectSubject picks a subject by name, reporting whether it is configured.
func (m *Model) SelectSubject(name string) bool {
	if m.session.Running() {
		return false
	}
	for i, s := range m.subjects {
		if s == name {
			m.subjectIdx = i
			return true
		}
	}
	return false
}

func (m *Model) FocusNote() tea.Cmd { return m.note.Focus() }

func (m *Model) BlurNote() { m.note.Blur() }

func (m Model) NoteFocused() bool { return m.note.Focused() }

func (m Model) Note() string { return m.note.Value() }

func (m *Model) SetNote(text string) {
	m.note.SetValue(text)
	m.note.CursorEnd()
}

func (m *Model) SetPolishing(on bool) tea.Cmd {
	m.polishing = on
	if on {
		return m.spinner.Tick
	}
	return nil
}

func (m Model) Polishing() bool { return m.polishing }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.note.Width = max(m.width-8, 10)
		m.log.Width = m.width - 4
		m.log.Height = max(m.height-14, 3)
		m.log.SetContent(renderLog(m.session.Log))
	case spinner.TickMsg:
		if m.polishing {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	case tea.KeyMsg:
		if m.note.Focused() {
			var cmd tea.Cmd
			m.note, cmd = m.note.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.log, cmd = m.log.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	sections := []string{
		m.renderHeader(),
		m.renderModes(),
		m.renderActions(),
		m.renderEngagement(),
		m.renderNote(),
		theme.Title.Render("即時紀錄"),
		m.log.View(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	subject := theme.Hot.Render(m.Subject())
	if !m.session.Running() && len(m.subjects) > 1 {
		subject = theme.Muted.Render("← ") + subject + theme.Muted.Render(" →")
	}
	state := theme.Muted.Render("s 開始觀課")
	switch m.session.Status {
	case domain.StatusRunning:
		state = theme.Alert.Render("● 觀課中") + theme.Muted.Render("  s 結束")
	case domain.StatusStopped:
		state = theme.Muted.Render("已結束  s 重新開始  tab 摘要")
	}
	clock := theme.Clock.Render(m.now.Format(domain.TimestampLayout))
	elapsed := theme.Title.Render(domain.FormatDuration(m.session.ElapsedSeconds))
	return fmt.Sprintf("科目 %s   %s   計時 %s   %s\n", subject, clock, elapsed, state)
}

func (m Model) renderModes() string {
	parts := make([]string, 0, len(domain.Modes))
	for i, mode := range domain.Modes {
		label := fmt.Sprintf("%s %s %s", ModeKeys[i], mode.Label(), domain.FormatDuration(m.session.ModeSeconds(mode)))
		style := theme.Button
		if m.session.ActiveMode == mode {
			style = theme.ButtonOn
		}
		parts = append(parts, style.Render(label))
	}
	return theme.Pane.Render(theme.Title.Render("教學模式") + "\n" + strings.Join(parts, " "))
}

func (m Model) renderActions() string {
	parts := make([]string, 0, len(domain.Actions))
	for i, action := range domain.Actions {
		label := fmt.Sprintf("%s %s ×%d", ActionKeys[i], action.Label(), m.session.ActionCount(action))
		parts = append(parts, theme.Button.Render(label))
	}
	return theme.Pane.Render(theme.Title.Render("教學行為") + "\n" + strings.Join(parts, " "))
}

func (m Model) renderEngagement() string {
	parts := make([]string, 0, len(domain.Levels))
	for i, level := range domain.Levels {
		label := fmt.Sprintf("%s %s", LevelKeys[i], level.Label())
		style := theme.Button
		if m.session.Engagement == level {
			style = theme.ButtonOn
		}
		parts = append(parts, style.Render(label))
	}
	title := theme.Title.Render("學生專注度")
	pane := theme.Pane
	if m.session.Running() && m.session.Stale {
		title += " " + theme.Alert.Render(staleHint)
		// blink with the heartbeat
		if m.now.Second()%2 == 0 {
			pane = theme.PaneAlert
		}
	}
	return pane.Render(title + "\n" + strings.Join(parts, " "))
}

func (m Model) renderNote() string {
	line := m.note.View()
	if m.polishing {
		line += " " + m.spinner.View() + theme.Muted.Render(" AI 潤飾中…")
	}
	pane := theme.Pane
	if m.note.Focused() {
		pane = theme.PaneActive
	}
	return pane.Render(line)
}

func renderLog(log []domain.LogEntry) string {
	if len(log) == 0 {
		return theme.Muted.Render("(尚無紀錄)")
	}
	lines := make([]string, 0, len(log))
	for _, e := range log {
		ts := theme.Muted.Render("[" + e.Timestamp + "]")
		label := e.Label
		switch e.Kind {
		case domain.KindModeChange:
			label = theme.Hot.Render(label)
		case domain.KindEngagement:
			label = theme.Title.Render(label)
		case domain.KindNote:
			label = lipgloss.NewStyle().Foreground(theme.Lavender).Render(label)
		}
		line := ts + " " + label
		if e.Value != "" {
			line += ": " + e.Value
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
