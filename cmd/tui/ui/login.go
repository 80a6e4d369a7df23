package ui

import (
	"errors"
	"strings"

	"github.com/Varun5711/accounts/cmd/tui/client"
	tea "github.com/charmbracelet/bubbletea"
)

type loginSuccessMsg struct {
	token  string
	userID string
	email  string
	name   string
}

type loginErrorMsg struct {
	err error
}

var errNoClient = errors.New("account service client not configured")

const (
	loginEmail = iota
	loginPassword
)

type LoginModel struct {
	form    form
	loading bool
	err     error
	client  *client.Client
}

func NewLoginModel() *LoginModel {
	return &LoginModel{
		form: newForm(
			formField{label: "Email"},
			formField{label: "Password", secret: true},
		),
	}
}

func (m *LoginModel) SetClient(c *client.Client) {
	m.client = c
}

func (m *LoginModel) Init() tea.Cmd {
	return nil
}

// loginCmd exchanges credentials for a token, then fetches the profile the
// status bar shows.
func loginCmd(c *client.Client, email, password string) tea.Cmd {
	return func() tea.Msg {
		resp, err := c.Login(email, password)
		if err != nil {
			return loginErrorMsg{err: err}
		}

		c.SetToken(resp.Token)
		profile, err := c.Get(resp.ID)
		if err != nil {
			return loginErrorMsg{err: err}
		}

		return loginSuccessMsg{
			token:  resp.Token,
			userID: resp.ID,
			email:  profile.Email,
			name:   profile.Name,
		}
	}
}

func (m *LoginModel) submit() tea.Cmd {
	email := strings.TrimSpace(m.form.value(loginEmail))
	password := m.form.value(loginPassword)
	switch {
	case email == "":
		m.err = errors.New("email cannot be empty")
	case password == "":
		m.err = errors.New("password cannot be empty")
	case m.client == nil:
		m.err = errNoClient
	default:
		m.loading = true
		m.err = nil
		return loginCmd(m.client, email, password)
	}
	return nil
}

func (m *LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loginSuccessMsg:
		m.loading = false
		m.err = nil

	case loginErrorMsg:
		m.loading = false
		m.err = msg.err

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		if msg.String() == "enter" {
			return m, m.submit()
		}
		if msg.String() == "ctrl+l" {
			m.err = nil
		}
		m.form.handleKey(msg.String())
	}
	return m, nil
}

func (m *LoginModel) View() string {
	return header("LOGIN", "Sign in to manage your account.") +
		m.form.view() +
		status("Logging in...", m.loading, "", m.err) +
		help("tab switch  •  enter login  •  ctrl+l clear  •  ctrl+s sign up  •  ctrl+c quit")
}
