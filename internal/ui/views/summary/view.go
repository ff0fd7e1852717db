package summary

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	observation "chronos/internal/modules/observation/domain"
	"chronos/internal/modules/report/domain"
	"chronos/internal/ui/theme"
)

const shareWidth = 24

// Model renders the post-session summary and the AI narrative report.
type Model struct {
	summary    domain.Summary
	ready      bool
	report     string
	generating bool

	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	width    int
	height   int
}

func New() Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	r, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(0),
	)
	return Model{viewport: viewport.New(0, 0), spinner: sp, renderer: r}
}

// SetSummary replaces the compiled summary. A new session discards the old
// report.
func (m *Model) SetSummary(s domain.Summary) {
	if s.SessionID != m.summary.SessionID {
		m.report = ""
	}
	m.summary = s
	m.ready = true
	m.viewport.SetContent(m.renderReport())
}

// Reset forgets the summary and any report of a previous session.
func (m *Model) Reset() {
	m.summary = domain.Summary{}
	m.ready = false
	m.report = ""
	m.generating = false
	m.viewport.SetContent("")
}

func (m Model) Ready() bool { return m.ready }

// CanGenerate is false once a report exists or while one is being generated.
func (m Model) CanGenerate() bool {
	return m.ready && m.report == "" && !m.generating
}

func (m Model) Report() string { return m.report }

func (m *Model) SetGenerating(on bool) tea.Cmd {
	m.generating = on
	if on {
		return m.spinner.Tick
	}
	return nil
}

func (m *Model) SetReport(markdown string) {
	m.report = markdown
	m.generating = false
	m.viewport.SetContent(m.renderReport())
	m.viewport.GotoTop()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.width - 2
		m.viewport.Height = max(m.height-lipgloss.Height(m.renderStats())-3, 3)
		if r, err := glamour.NewTermRenderer(
			glamour.WithStylePath("dark"),
			glamour.WithWordWrap(max(m.width-6, 20)),
		); err == nil {
			m.renderer = r
		}
		m.viewport.SetContent(m.renderReport())
	case spinner.TickMsg:
		if m.generating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if !m.ready {
		return theme.Muted.Render("結束觀課後顯示摘要。")
	}
	header := theme.Title.Render("觀課摘要") +
		theme.Muted.Render("  y 複製  t 匯出 txt  x 匯出 md  g AI 報告  esc 返回")
	body := m.viewport.View()
	if m.generating {
		body = lipgloss.Place(m.width, m.viewport.Height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" 生成報告中…")
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, m.renderStats(), body)
}

func (m Model) renderStats() string {
	s := m.summary
	info := fmt.Sprintf("%s %s\n%s %s",
		theme.Muted.Render("學科名稱"), theme.Hot.Render(s.Subject),
		theme.Muted.Render("觀課時長"), theme.Hot.Render(s.Duration))

	var shares strings.Builder
	shares.WriteString(theme.Title.Render("模式佔比"))
	for _, share := range s.Shares {
		fmt.Fprintf(&shares, "\n%s %s %s",
			padLabel(share.Label), ShareBar(share.Percent, shareWidth),
			theme.Muted.Render(observation.FormatDuration(share.Seconds)))
	}

	var actions strings.Builder
	actions.WriteString(theme.Title.Render("行為累計"))
	for _, a := range s.Actions {
		fmt.Fprintf(&actions, "\n%s %s", padLabel(a.Label), theme.Alert.Render(fmt.Sprintf("%d 次", a.Count)))
	}

	curve := theme.Title.Render("專注度曲線") + "\n" + EngagementStrip(s.Bars)

	left := lipgloss.JoinVertical(lipgloss.Left, theme.Pane.Render(info), theme.Pane.Render(shares.String()))
	right := lipgloss.JoinVertical(lipgloss.Left, theme.Pane.Render(actions.String()), theme.Pane.Render(curve))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func (m Model) renderReport() string {
	if m.report == "" {
		return theme.Muted.Render("按 g 生成 AI 觀課分析報告。")
	}
	if m.renderer != nil {
		if out, err := m.renderer.Render(m.report); err == nil {
			return out
		}
	}
	return m.report
}

// ShareBar draws a horizontal bar filled to percent of width cells.
func ShareBar(percent float64, width int) string {
	filled := int(percent/100*float64(width) + 0.5)
	filled = min(max(filled, 0), width)
	return lipgloss.NewStyle().Foreground(theme.Peach).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.Surface1).Render(strings.Repeat("░", width-filled))
}

// EngagementStrip renders one glyph per sample, its height following the bar tier.
func EngagementStrip(bars []domain.Bar) string {
	if len(bars) == 0 {
		return theme.Muted.Render("(無紀錄)")
	}
	var b strings.Builder
	for _, bar := range bars {
		switch bar.Height {
		case domain.BarHigh:
			b.WriteString(theme.LevelHigh.Render("█"))
		case domain.BarMedium:
			b.WriteString(theme.LevelMedium.Render("▆"))
		default:
			b.WriteString(theme.LevelLow.Render("▃"))
		}
	}
	return b.String()
}

func padLabel(label string) string {
	return lipgloss.NewStyle().Width(10).Render(label)
}
