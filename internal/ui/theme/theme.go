package theme

import "github.com/charmbracelet/lipgloss"

var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Yellow   = lipgloss.Color("#f9e2af")
	Peach    = lipgloss.Color("#fab387")
	Red      = lipgloss.Color("#f38ba8")

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Foreground(Text).
		Padding(0, 1)

	PaneActive = Pane.BorderForeground(Lavender)
	PaneAlert  = Pane.BorderForeground(Red)

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Alert = lipgloss.NewStyle().Foreground(Red).Bold(true)

	Button   = lipgloss.NewStyle().Foreground(Text).Background(Surface0).Padding(0, 1)
	ButtonOn = lipgloss.NewStyle().Foreground(Base).Background(Peach).Bold(true).Padding(0, 1)
	Clock    = lipgloss.NewStyle().Foreground(Yellow).Bold(true)
)

// Level colours follow the engagement tiers, high to low.
var (
	LevelHigh   = lipgloss.NewStyle().Foreground(Green)
	LevelMedium = lipgloss.NewStyle().Foreground(Yellow)
	LevelLow    = lipgloss.NewStyle().Foreground(Red)
)
