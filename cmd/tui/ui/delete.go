package ui

import (
	"github.com/Varun5711/accounts/cmd/tui/client"
	tea "github.com/charmbracelet/bubbletea"
)

type accountDeletedMsg struct{}

type accountDeleteErrorMsg struct {
	err error
}

type DeleteModel struct {
	client  *client.Client
	userID  string
	loading bool
	err     error
}

func NewDeleteModel() *DeleteModel {
	return &DeleteModel{}
}

func (m *DeleteModel) SetClient(c *client.Client) {
	m.client = c
}

func (m *DeleteModel) Init() tea.Cmd {
	return nil
}

func (m *DeleteModel) Reset(userID string) {
	m.userID = userID
	m.loading = false
	m.err = nil
}

func deleteAccountCmd(c *client.Client, id string) tea.Cmd {
	return func() tea.Msg {
		if err := c.Delete(id); err != nil {
			return accountDeleteErrorMsg{err: err}
		}
		return accountDeletedMsg{}
	}
}

func (m *DeleteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case accountDeleteErrorMsg:
		m.loading = false
		m.err = msg.err
	case tea.KeyMsg:
		if msg.String() != "y" || m.loading {
			return m, nil
		}
		if m.client == nil {
			m.err = errNoClient
			return m, nil
		}
		m.loading = true
		m.err = nil
		return m, deleteAccountCmd(m.client, m.userID)
	}
	return m, nil
}

func (m *DeleteModel) View() string {
	warning := BoxStyle.Width(60).BorderForeground(Error).Render(
		"This permanently removes your account.\nThe email can be registered again afterwards.")
	return header("DELETE ACCOUNT", "") +
		center(warning) + "\n\n" +
		status("Deleting...", m.loading, "", m.err) +
		help("y confirm  •  esc cancel")
}
