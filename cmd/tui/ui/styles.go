package ui

import (
	"github.com/charmbracelet/lipgloss"
)

const screenWidth = 80

var (
	Primary = lipgloss.Color("#7AA2F7")
	Accent  = lipgloss.Color("#BB9AF7")
	Success = lipgloss.Color("#9ECE6A")
	Error   = lipgloss.Color("#F7768E")
	Muted   = lipgloss.Color("#737AA2")
	Text    = lipgloss.Color("#C0CAF5")
	BgDark  = lipgloss.Color("#16161E")

	TitleStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Padding(0, 1)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2).
			MarginTop(1)

	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(Accent).
				Bold(true).
				PaddingLeft(2)

	ItemStyle = lipgloss.NewStyle().
			Foreground(Text).
			PaddingLeft(2)

	InfoStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	InputStyle = lipgloss.NewStyle().
			Foreground(Text).
			Border(lipgloss.NormalBorder()).
			BorderForeground(Muted).
			Padding(0, 1)

	FocusedInputStyle = InputStyle.
				BorderForeground(Accent)

	LabelStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Width(15)

	ValueStyle = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true)
)

func center(s string) string {
	return lipgloss.NewStyle().Width(screenWidth).Align(lipgloss.Center).Render(s)
}

// header renders a screen title with an optional subtitle below it.
func header(title, subtitle string) string {
	out := lipgloss.NewStyle().MarginTop(2).Render(center(TitleStyle.Render(title)))
	if subtitle != "" {
		out += "\n" + center(SubtitleStyle.Render(subtitle))
	}
	return out + "\n\n"
}

// status renders the in-flight, success and error lines shared by every
// screen that talks to the service.
func status(busy string, loading bool, done string, err error) string {
	var out string
	if loading {
		out += center(InfoStyle.Render("… "+busy)) + "\n"
	}
	if done != "" {
		out += center(SuccessStyle.Render("✓ "+done)) + "\n"
	}
	if err != nil {
		out += center(ErrorStyle.Render("✗ "+err.Error())) + "\n"
	}
	return out
}

func help(keys string) string {
	return "\n" + center(InfoStyle.Render(keys))
}
