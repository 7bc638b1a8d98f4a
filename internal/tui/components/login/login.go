// Package login is the sign-in form. ctrl+n switches it to creating a new
// account, which adds a username field.
package login

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mediamingle/mingle/internal/tui/common"
	"github.com/mediamingle/mingle/internal/tui/styles"
)

const (
	fieldEmail = iota
	fieldUsername
	fieldPassword
)

type Model struct {
	inputs  []textinput.Model
	focus   int // index into inputs
	signup  bool
	busy    bool
	spinner spinner.Model
	errText string
	width   int
	height  int
}

func New() Model {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = "Email    "
	email.CharLimit = 254

	username := textinput.New()
	username.Placeholder = "username"
	username.Prompt = "Username "
	username.CharLimit = 50

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "Password "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128

	for _, ti := range []*textinput.Model{&email, &username, &password} {
		ti.PromptStyle = styles.MetadataStyle
		ti.TextStyle = lipgloss.NewStyle().Foreground(styles.OxocarbonBase05)
		ti.Cursor.Style = lipgloss.NewStyle().Foreground(styles.OxocarbonPurple)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.OxocarbonPurple)

	return Model{inputs: []textinput.Model{email, username, password}, spinner: s}
}

// Reset clears the form, returns it to sign-in and focuses the email field
func (m *Model) Reset() tea.Cmd {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.signup = false
	m.focus = fieldEmail
	m.busy = false
	m.errText = ""
	return m.inputs[fieldEmail].Focus()
}

// Failed shows an error and lets the user edit again
func (m *Model) Failed(text string) {
	m.busy = false
	m.errText = text
}

// Busy reports whether a request is in flight
func (m Model) Busy() bool { return m.busy }

// Signup reports whether the form creates an account
func (m Model) Signup() bool { return m.signup }

// SetSize sets the screen size the form centers in
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// fields lists the visible inputs in tab order
func (m Model) fields() []int {
	if m.signup {
		return []int{fieldEmail, fieldUsername, fieldPassword}
	}
	return []int{fieldEmail, fieldPassword}
}

func (m Model) moveFocus(step int) (Model, tea.Cmd) {
	fields := m.fields()
	pos := 0
	for i, f := range fields {
		if f == m.focus {
			pos = i
		}
	}
	pos = (pos + step + len(fields)) % len(fields)

	m.inputs[m.focus].Blur()
	m.focus = fields[pos]
	return m, m.inputs[m.focus].Focus()
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return common.CancelMsg{} }
		case "ctrl+n":
			m.signup = !m.signup
			m.errText = ""
			m.inputs[m.focus].Blur()
			m.focus = fieldEmail
			return m, m.inputs[fieldEmail].Focus()
		case "tab", "down":
			return m.moveFocus(1)
		case "shift+tab", "up":
			return m.moveFocus(-1)
		case "enter":
			if m.focus != fieldPassword {
				return m.moveFocus(1)
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	username := strings.TrimSpace(m.inputs[fieldUsername].Value())
	password := m.inputs[fieldPassword].Value()

	var send tea.Cmd
	switch {
	case m.signup && (email == "" || username == "" || password == ""):
		m.errText = "Fill in every field to create an account"
		return m, nil
	case email == "" || password == "":
		m.errText = "Enter your email and password"
		return m, nil
	case m.signup:
		send = func() tea.Msg { return common.SignupMsg{Email: email, Username: username, Password: password} }
	default:
		send = func() tea.Msg { return common.LoginMsg{Email: email, Password: password} }
	}

	m.busy = true
	m.errText = ""
	return m, tea.Batch(send, m.spinner.Tick)
}

func (m Model) View() string {
	title, working, help := " Sign in ", " Signing in...", "tab next field • enter sign in • ctrl+n new account • esc cancel"
	if m.signup {
		title, working, help = " Create account ", " Creating account...", "tab next field • enter sign up • ctrl+n sign in • esc cancel"
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(title))
	b.WriteString("\n\n")
	for _, f := range m.fields() {
		b.WriteString(m.inputs[f].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.busy:
		b.WriteString(m.spinner.View() + styles.MutedStyle.Render(working))
	case m.errText != "":
		b.WriteString(styles.DangerStyle.Render(m.errText))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render(help))

	box := styles.PopupStyle.Width(64).Render(b.String())
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
