// ABOUTME: Login screen collecting username and password
// ABOUTME: Emits credentials for the app to exchange for a token pair

package login

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/swapbook/bookx/cli/internal/tui/icons"
	"github.com/swapbook/bookx/cli/internal/tui/styles"
)

// FailedMessage is shown for any rejected login
const FailedMessage = "Login failed. Please check your credentials."

// SubmitMsg carries the entered credentials
type SubmitMsg struct {
	Username string
	Password string
}

// CancelledMsg is sent when the user leaves the login screen
type CancelledMsg struct{}

// Login is the credentials form
type Login struct {
	form       *huh.Form
	username   string
	password   string
	submitting bool
	err        string
}

// New creates a login screen
func New() *Login {
	l := &Login{}
	l.form = l.newForm()
	return l
}

func (l *Login) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&l.username).
				Validate(required("username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&l.password).
				Validate(required("password")),
		).Title("Welcome back").
			Description("Log in to exchange books and chat with the AI advisor"),
	).WithTheme(styles.FormTheme())
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// Init implements tea.Model
func (l *Login) Init() tea.Cmd {
	return l.form.Init()
}

// Update implements tea.Model
func (l *Login) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if l.submitting {
		return l, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return l, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		l.submitting = true
		l.err = ""
		creds := SubmitMsg{Username: strings.TrimSpace(l.username), Password: l.password}
		return l, func() tea.Msg { return creds }
	}
	return l, cmd
}

// Fail shows the login error and resets the form, keeping the username
func (l *Login) Fail() tea.Cmd {
	l.submitting = false
	l.err = FailedMessage
	l.password = ""
	l.form = l.newForm()
	return l.form.Init()
}

// Submitting reports whether a login request is outstanding
func (l *Login) Submitting() bool {
	return l.submitting
}

// View implements tea.Model
func (l *Login) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.User.String() + " Log in"))
	sb.WriteString("\n")

	if l.err != "" {
		sb.WriteString(styles.StatusCritical.Render(l.err))
		sb.WriteString("\n\n")
	}

	if l.submitting {
		sb.WriteString(styles.Subtitle.Render("Signing in..."))
		return sb.String()
	}

	sb.WriteString(l.form.View())
	return sb.String()
}
