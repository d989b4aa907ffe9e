// ABOUTME: Landing screen shown to signed-out users
// ABOUTME: Lets the user log in, check the backend, or quit

package landing

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/swapbook/bookx/cli/internal/tui/icons"
	"github.com/swapbook/bookx/cli/internal/tui/styles"
	"github.com/swapbook/bookx/cli/internal/tui/widgets"
)

// Choice is a landing menu action
type Choice int

const (
	ChoiceLogin Choice = iota
	ChoiceHealth
	ChoiceQuit
)

// String returns the string representation of a Choice
func (c Choice) String() string {
	switch c {
	case ChoiceLogin:
		return "login"
	case ChoiceHealth:
		return "health"
	case ChoiceQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// ChoiceMsg is sent when the user picks an option
type ChoiceMsg struct {
	Choice Choice
}

type option struct {
	label string
	value Choice
}

// Landing is the signed-out start screen
type Landing struct {
	options  []option
	selected Choice
	form     *huh.Form

	// backend health: nil until checked
	healthy  *bool
	checking bool
	notice   string
}

// New creates the landing screen
func New() *Landing {
	l := &Landing{
		options: []option{
			{label: "Log in", value: ChoiceLogin},
			{label: "Check backend status", value: ChoiceHealth},
			{label: "Quit", value: ChoiceQuit},
		},
		selected: ChoiceLogin,
	}
	l.form = l.newForm()
	return l
}

func (l *Landing) newForm() *huh.Form {
	var options []huh.Option[Choice]
	for _, opt := range l.options {
		options = append(options, huh.NewOption(opt.label, opt.value))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Choice]().
				Title("What would you like to do?").
				Options(options...).
				Value(&l.selected),
		),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

// Init implements tea.Model
func (l *Landing) Init() tea.Cmd {
	return l.form.Init()
}

// Update implements tea.Model
func (l *Landing) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		choice := l.selected
		l.form = l.newForm()
		return l, tea.Batch(l.form.Init(), func() tea.Msg { return ChoiceMsg{Choice: choice} })
	}
	return l, cmd
}

// SetChecking marks a health check as in flight
func (l *Landing) SetChecking() {
	l.checking = true
}

// SetHealth records the latest health check result
func (l *Landing) SetHealth(healthy bool) {
	l.checking = false
	l.healthy = &healthy
}

// SetNotice shows a one-line message, e.g. after a session expired
func (l *Landing) SetNotice(msg string) {
	l.notice = msg
}

// View implements tea.Model
func (l *Landing) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Book.String() + " Share books, discover stories"))
	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render("Give away books you've read and find your next favourite from readers nearby.\nAsk the AI advisor for recommendations from the community's shelves."))
	sb.WriteString("\n")

	if l.notice != "" {
		sb.WriteString(widgets.StatusText(l.notice, widgets.StatusWarning))
		sb.WriteString("\n\n")
	}

	switch {
	case l.checking:
		sb.WriteString(styles.Subtitle.Render("Checking backend..."))
		sb.WriteString("\n")
	case l.healthy != nil:
		sb.WriteString("Backend: " + widgets.HealthBadge(*l.healthy))
		sb.WriteString("\n\n")
	}

	sb.WriteString(l.form.View())
	return sb.String()
}
