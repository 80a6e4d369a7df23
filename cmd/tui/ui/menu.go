package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	menuProfile = iota
	menuRename
	menuPassword
	menuDelete
	menuLogout
)

var menuItems = []string{
	menuProfile:  "View Profile",
	menuRename:   "Rename",
	menuPassword: "Change Password",
	menuDelete:   "Delete Account",
	menuLogout:   "Log Out",
}

// MenuModel sets selected to the chosen item on enter; the parent resets it
// to -1 once handled.
type MenuModel struct {
	cursor   int
	selected int
}

func NewMenuModel() *MenuModel {
	return &MenuModel{selected: -1}
}

func (m *MenuModel) Init() tea.Cmd {
	return nil
}

func (m *MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(menuItems)-1 {
				m.cursor++
			}
		case "enter":
			m.selected = m.cursor
		}
	}
	return m, nil
}

func (m *MenuModel) View() string {
	rows := make([]string, len(menuItems))
	for i, item := range menuItems {
		if i == m.cursor {
			rows[i] = SelectedItemStyle.Render("> " + item)
		} else {
			rows[i] = ItemStyle.Render("  " + item)
		}
	}
	box := BoxStyle.Width(60).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))

	return header("ACCOUNTS", "Self-service") +
		center(box) + "\n" +
		help("↑/↓ navigate  •  enter select  •  q quit")
}
