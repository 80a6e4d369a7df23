package ui

import (
	"github.com/Varun5711/accounts/cmd/tui/client"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type View int

const (
	LoginView View = iota
	SignupView
	MenuView
	ProfileView
	EditView
	DeleteView
)

type Model struct {
	currentView View
	login       *LoginModel
	signup      *SignupModel
	menu        *MenuModel
	profile     *ProfileModel
	edit        *EditModel
	remove      *DeleteModel
	client      *client.Client
	width       int
	height      int

	isAuthenticated bool
	token           string
	userID          string
	userName        string
	userEmail       string
}

func NewModel(c *client.Client) Model {
	loginModel := NewLoginModel()
	loginModel.SetClient(c)

	signupModel := NewSignupModel()
	signupModel.SetClient(c)

	profileModel := NewProfileModel()
	profileModel.SetClient(c)

	editModel := NewEditModel()
	editModel.SetClient(c)

	deleteModel := NewDeleteModel()
	deleteModel.SetClient(c)

	return Model{
		currentView: LoginView,
		login:       loginModel,
		signup:      signupModel,
		menu:        NewMenuModel(),
		profile:     profileModel,
		edit:        editModel,
		remove:      deleteModel,
		client:      c,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m *Model) signIn(token, userID, name, email string) {
	m.isAuthenticated = true
	m.token = token
	m.userID = userID
	m.userName = name
	m.userEmail = email
	m.client.SetToken(token)
	m.currentView = MenuView
}

func (m *Model) signOut() {
	m.isAuthenticated = false
	m.token = ""
	m.userID = ""
	m.userName = ""
	m.userEmail = ""
	m.client.SetToken("")
	m.login = NewLoginModel()
	m.login.SetClient(m.client)
	m.currentView = LoginView
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loginSuccessMsg:
		m.signIn(msg.token, msg.userID, msg.name, msg.email)
		return m, nil

	case signupSuccessMsg:
		m.signIn(msg.token, msg.userID, msg.name, msg.email)
		return m, nil

	case accountUpdatedMsg:
		m.userName = msg.profile.Name
		m.userEmail = msg.profile.Email

	case accountDeletedMsg:
		m.signOut()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			switch m.currentView {
			case MenuView:
				return m, tea.Quit
			case ProfileView, DeleteView:
				m.currentView = MenuView
				return m, nil
			}

		case "esc":
			if m.isAuthenticated && m.currentView != MenuView {
				m.currentView = MenuView
				return m, nil
			}

		case "ctrl+s":
			if m.currentView == LoginView {
				m.currentView = SignupView
				return m, nil
			} else if m.currentView == SignupView {
				m.currentView = LoginView
				return m, nil
			}
		}
	}

	switch m.currentView {
	case LoginView:
		updatedLogin, cmd := m.login.Update(msg)
		m.login = updatedLogin.(*LoginModel)
		return m, cmd

	case SignupView:
		updatedSignup, cmd := m.signup.Update(msg)
		m.signup = updatedSignup.(*SignupModel)
		return m, cmd

	case MenuView:
		updatedMenu, cmd := m.menu.Update(msg)
		m.menu = updatedMenu.(*MenuModel)
		if m.menu.selected != -1 {
			selected := m.menu.selected
			m.menu.selected = -1
			switch selected {
			case menuProfile:
				m.currentView = ProfileView
				return m, m.profile.Load(m.userID)
			case menuRename:
				m.edit.Reset(m.userID, EditName)
				m.currentView = EditView
			case menuPassword:
				m.edit.Reset(m.userID, EditPassword)
				m.currentView = EditView
			case menuDelete:
				m.remove.Reset(m.userID)
				m.currentView = DeleteView
			case menuLogout:
				m.signOut()
			}
		}
		return m, cmd

	case ProfileView:
		updatedProfile, cmd := m.profile.Update(msg)
		m.profile = updatedProfile.(*ProfileModel)
		return m, cmd

	case EditView:
		updatedEdit, cmd := m.edit.Update(msg)
		m.edit = updatedEdit.(*EditModel)
		return m, cmd

	case DeleteView:
		updatedDelete, cmd := m.remove.Update(msg)
		m.remove = updatedDelete.(*DeleteModel)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	var statusBar string
	if m.isAuthenticated && m.currentView != LoginView && m.currentView != SignupView {
		userInfo := lipgloss.NewStyle().
			Foreground(Success).
			Render("👤 " + m.userName)

		emailInfo := lipgloss.NewStyle().
			Foreground(Muted).
			Render(" (" + m.userEmail + ")")

		statusBar = lipgloss.NewStyle().
			Width(screenWidth).
			Align(lipgloss.Left).
			Background(BgDark).
			Padding(0, 2).
			Render(userInfo + emailInfo)
	}

	var mainContent string
	switch m.currentView {
	case LoginView:
		mainContent = m.login.View()
	case SignupView:
		mainContent = m.signup.View()
	case MenuView:
		mainContent = m.menu.View()
	case ProfileView:
		mainContent = m.profile.View()
	case EditView:
		mainContent = m.edit.View()
	case DeleteView:
		mainContent = m.remove.View()
	}

	if statusBar != "" {
		return lipgloss.JoinVertical(lipgloss.Left, statusBar, "\n", mainContent)
	}
	return mainContent
}
