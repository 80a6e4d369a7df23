package ui

import (
	"github.com/Varun5711/accounts/cmd/tui/client"
	"github.com/Varun5711/accounts/internal/models/account"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type profileSuccessMsg struct {
	profile *account.Profile
}

type profileErrorMsg struct {
	err error
}

type ProfileModel struct {
	client  *client.Client
	userID  string
	profile *account.Profile
	loading bool
	err     error
}

func NewProfileModel() *ProfileModel {
	return &ProfileModel{}
}

func (m *ProfileModel) SetClient(c *client.Client) {
	m.client = c
}

func (m *ProfileModel) Init() tea.Cmd {
	return nil
}

func fetchProfileCmd(c *client.Client, id string) tea.Cmd {
	return func() tea.Msg {
		p, err := c.Get(id)
		if err != nil {
			return profileErrorMsg{err: err}
		}
		return profileSuccessMsg{profile: p}
	}
}

// Load resets the view and returns the command that fetches the profile.
func (m *ProfileModel) Load(userID string) tea.Cmd {
	m.userID = userID
	m.profile = nil
	m.err = nil
	if m.client == nil {
		m.err = errNoClient
		return nil
	}
	m.loading = true
	return fetchProfileCmd(m.client, userID)
}

func (m *ProfileModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case profileSuccessMsg:
		m.loading = false
		m.profile = msg.profile
	case profileErrorMsg:
		m.loading = false
		m.err = msg.err
	case tea.KeyMsg:
		if msg.String() == "r" && !m.loading {
			return m, m.Load(m.userID)
		}
	}
	return m, nil
}

func (m *ProfileModel) View() string {
	body := status("Loading profile...", m.loading, "", m.err)
	if m.profile != nil {
		rows := lipgloss.JoinVertical(lipgloss.Left,
			LabelStyle.Render("ID:")+ValueStyle.Render(m.profile.ID),
			LabelStyle.Render("Name:")+ValueStyle.Render(m.profile.Name),
			LabelStyle.Render("Email:")+ValueStyle.Render(m.profile.Email),
		)
		body = center(BoxStyle.Width(60).Render(rows)) + "\n"
	}
	return header("PROFILE", "") + body + help("r refresh  •  q back")
}
