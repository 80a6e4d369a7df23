package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Varun5711/accounts/cmd/tui/client"
	tea "github.com/charmbracelet/bubbletea"
)

type signupSuccessMsg struct {
	token  string
	userID string
	email  string
	name   string
}

type signupErrorMsg struct {
	err error
}

// bcrypt ignores anything past this length, so the service rejects it.
const maxPasswordBytes = 72

const (
	signupName = iota
	signupEmail
	signupPassword
)

type SignupModel struct {
	form    form
	loading bool
	err     error
	client  *client.Client
}

func NewSignupModel() *SignupModel {
	return &SignupModel{
		form: newForm(
			formField{label: "Name"},
			formField{label: "Email"},
			formField{label: "Password", secret: true},
		),
	}
}

func (m *SignupModel) SetClient(c *client.Client) {
	m.client = c
}

func (m *SignupModel) Init() tea.Cmd {
	return nil
}

// signupCmd registers the account and logs straight in with the same
// credentials.
func signupCmd(c *client.Client, name, email, password string) tea.Cmd {
	return func() tea.Msg {
		profile, err := c.Register(name, email, password)
		if err != nil {
			return signupErrorMsg{err: err}
		}

		resp, err := c.Login(email, password)
		if err != nil {
			return signupErrorMsg{err: err}
		}

		return signupSuccessMsg{
			token:  resp.Token,
			userID: profile.ID,
			email:  profile.Email,
			name:   profile.Name,
		}
	}
}

func (m *SignupModel) submit() tea.Cmd {
	name := strings.TrimSpace(m.form.value(signupName))
	email := strings.TrimSpace(m.form.value(signupEmail))
	password := m.form.value(signupPassword)
	switch {
	case name == "":
		m.err = errors.New("name cannot be empty")
	case email == "":
		m.err = errors.New("email cannot be empty")
	case password == "":
		m.err = errors.New("password cannot be empty")
	case len(password) > maxPasswordBytes:
		m.err = fmt.Errorf("password must be at most %d bytes", maxPasswordBytes)
	case m.client == nil:
		m.err = errNoClient
	default:
		m.loading = true
		m.err = nil
		return signupCmd(m.client, name, email, password)
	}
	return nil
}

func (m *SignupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case signupSuccessMsg:
		m.loading = false
		m.err = nil

	case signupErrorMsg:
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

func (m *SignupModel) View() string {
	return header("SIGN UP", "Create an account to get started.") +
		m.form.view() +
		center(InfoStyle.Render(fmt.Sprintf("(password up to %d bytes)", maxPasswordBytes))) + "\n\n" +
		status("Creating account...", m.loading, "", m.err) +
		help("tab switch  •  enter sign up  •  ctrl+l clear  •  ctrl+s login  •  ctrl+c quit")
}
