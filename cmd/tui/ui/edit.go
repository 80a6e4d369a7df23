package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Varun5711/accounts/cmd/tui/client"
	"github.com/Varun5711/accounts/internal/models/account"
	tea "github.com/charmbracelet/bubbletea"
)

type EditField int

const (
	EditName EditField = iota
	EditPassword
)

type accountUpdatedMsg struct {
	profile *account.Profile
}

type accountUpdateErrorMsg struct {
	err error
}

// EditModel changes a single field of the signed-in account.
type EditModel struct {
	client  *client.Client
	userID  string
	field   EditField
	form    form
	loading bool
	done    bool
	err     error
}

func NewEditModel() *EditModel {
	return &EditModel{}
}

func (m *EditModel) SetClient(c *client.Client) {
	m.client = c
}

func (m *EditModel) Init() tea.Cmd {
	return nil
}

// Reset prepares the form for the given field.
func (m *EditModel) Reset(userID string, field EditField) {
	m.userID = userID
	m.field = field
	if field == EditPassword {
		m.form = newForm(formField{label: "New password", secret: true})
	} else {
		m.form = newForm(formField{label: "New name"})
	}
	m.loading = false
	m.done = false
	m.err = nil
}

func updateAccountCmd(c *client.Client, id string, field EditField, value string) tea.Cmd {
	return func() tea.Msg {
		var name, password *string
		if field == EditName {
			name = &value
		} else {
			password = &value
		}
		p, err := c.Update(id, name, password)
		if err != nil {
			return accountUpdateErrorMsg{err: err}
		}
		return accountUpdatedMsg{profile: p}
	}
}

func (m *EditModel) submit() tea.Cmd {
	value := m.form.value(0)
	if m.field == EditName {
		value = strings.TrimSpace(value)
	}
	switch {
	case value == "":
		m.err = errors.New("value cannot be empty")
	case m.field == EditPassword && len(value) > maxPasswordBytes:
		m.err = fmt.Errorf("password must be at most %d bytes", maxPasswordBytes)
	case m.client == nil:
		m.err = errNoClient
	default:
		m.loading = true
		m.done = false
		m.err = nil
		return updateAccountCmd(m.client, m.userID, m.field, value)
	}
	return nil
}

func (m *EditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case accountUpdatedMsg:
		m.loading = false
		m.done = true
		m.err = nil
		m.form.clear()

	case accountUpdateErrorMsg:
		m.loading = false
		m.err = msg.err

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		if msg.String() == "enter" {
			return m, m.submit()
		}
		m.form.handleKey(msg.String())
	}
	return m, nil
}

func (m *EditModel) View() string {
	title := "RENAME"
	if m.field == EditPassword {
		title = "CHANGE PASSWORD"
	}
	return header(title, "") +
		m.form.view() +
		status("Saving...", m.loading, doneText(m.done, "Saved"), m.err) +
		help("enter save  •  ctrl+l clear  •  esc back")
}

func doneText(done bool, text string) string {
	if done {
		return text
	}
	return ""
}
