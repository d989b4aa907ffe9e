// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state, routes input to child components, and runs API commands

package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/swapbook/bookx/cli/internal/chat"
	"github.com/swapbook/bookx/cli/internal/client"
	"github.com/swapbook/bookx/cli/internal/recommend"
	"github.com/swapbook/bookx/cli/internal/tui/bookform"
	"github.com/swapbook/bookx/cli/internal/tui/dashboard"
	"github.com/swapbook/bookx/cli/internal/tui/detail"
	"github.com/swapbook/bookx/cli/internal/tui/icons"
	"github.com/swapbook/bookx/cli/internal/tui/imagefiles"
	"github.com/swapbook/bookx/cli/internal/tui/landing"
	"github.com/swapbook/bookx/cli/internal/tui/login"
	"github.com/swapbook/bookx/cli/internal/tui/recentfiles"
	"github.com/swapbook/bookx/cli/internal/tui/styles"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLanding Screen = iota
	ScreenLogin
	ScreenDashboard
	ScreenDetail
	ScreenCreateBook
)

// Layout constants
const (
	minTerminalWidth = 80 // Frame never renders narrower than this
	frameLines       = 2  // Header and footer
)

const (
	sessionExpiredNotice = "Your session has expired. Please log in again."
	loggedOutNotice      = "You have been logged out."
)

// healthCheckedMsg is sent when the backend health probe completes
type healthCheckedMsg struct {
	healthy bool
}

// loggedInMsg is sent when a login attempt completes
type loggedInMsg struct {
	username string
	err      error
}

// booksLoadedMsg is sent when the listing fetch completes
type booksLoadedMsg struct {
	books []client.Book
	err   error
}

// adviceMsg is sent when an advice request and its recommendation resolve
type adviceMsg struct {
	reply string
	books []client.Book
	err   error
}

// bookCreatedMsg is sent when a create-book request completes
type bookCreatedMsg struct {
	book      *client.Book
	imagePath string
	err       error
}

// loggedOutMsg is sent once tokens are discarded
type loggedOutMsg struct{}

// App is the root model for the TUI
type App struct {
	ctx      context.Context
	api      *client.Client
	resolver *recommend.Resolver
	recent   *recentfiles.RecentFiles

	screen     Screen
	width      int
	height     int
	username   string
	lastUpdate time.Time

	// Child models
	landing    *landing.Landing
	loginView  *login.Login
	dashboard  *dashboard.Dashboard
	detailView *detail.Detail
	form       *bookform.Form
}

// New creates a new TUI application. It starts on the dashboard when a session is stored.
func New(api *client.Client, resolver *recommend.Resolver, recent *recentfiles.RecentFiles) *App {
	a := &App{
		ctx:      context.Background(),
		api:      api,
		resolver: resolver,
		recent:   recent,
		screen:   ScreenLanding,
		landing:  landing.New(),
	}
	if api.Auth().IsAuthenticated() {
		a.screen = ScreenDashboard
		a.dashboard = dashboard.New(a.frameWidth(), a.contentHeight())
	}
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.screen == ScreenDashboard {
		return tea.Batch(a.dashboard.Init(), a.dashboard.SetLoadingBooks(), a.loadBooks())
	}
	return a.landing.Init()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.dashboard != nil {
			a.dashboard.SetSize(a.frameWidth(), a.contentHeight())
		}
		if a.detailView != nil {
			a.detailView.SetWidth(a.frameWidth() - 4)
		}
		return a.forward(msg)

	case tea.KeyMsg:
		// Handle global quit
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.screen == ScreenDetail {
			return a.updateDetail(msg)
		}
		return a.forward(msg)

	case landing.ChoiceMsg:
		return a.handleChoice(msg)

	case healthCheckedMsg:
		a.landing.SetHealth(msg.healthy)
		return a, nil

	case login.SubmitMsg:
		return a, a.login(msg.Username, msg.Password)

	case login.CancelledMsg:
		a.loginView = nil
		a.screen = ScreenLanding
		return a, a.landing.Init()

	case loggedInMsg:
		if msg.err != nil {
			slog.Warn("Login failed", "error", msg.err)
			if a.loginView == nil {
				return a, nil
			}
			return a, a.loginView.Fail()
		}
		a.username = msg.username
		a.loginView = nil
		return a, a.showDashboard()

	case booksLoadedMsg:
		if msg.err != nil {
			if client.IsUnauthenticated(msg.err) {
				return a.expireSession()
			}
			slog.Error("Failed to load books", "error", msg.err)
			if a.dashboard != nil {
				a.dashboard.SetStatus(msg.err.Error())
			}
			return a, nil
		}
		a.lastUpdate = time.Now()
		if a.dashboard != nil {
			a.dashboard.SetBooks(msg.books)
		}
		return a, nil

	case dashboard.AskMsg:
		return a, a.askAdvice(msg.Prompt)

	case adviceMsg:
		if a.dashboard == nil {
			return a, nil
		}
		if msg.err != nil {
			if client.IsUnauthenticated(msg.err) {
				return a.expireSession()
			}
			slog.Error("Advice request failed", "error", msg.err)
			a.dashboard.SetAdviceError()
			return a, nil
		}
		a.dashboard.SetAdvice(msg.reply, msg.books)
		return a, nil

	case dashboard.OpenBookMsg:
		book := msg.Book
		a.detailView = detail.New(&book, msg.Recommended, a.frameWidth()-4)
		a.screen = ScreenDetail
		return a, nil

	case dashboard.RefreshMsg:
		return a, tea.Batch(a.dashboard.SetLoadingBooks(), a.loadBooks())

	case dashboard.NewBookMsg:
		return a, a.openForm()

	case dashboard.LogoutMsg:
		return a, a.logout()

	case loggedOutMsg:
		return a.showLanding(loggedOutNotice)

	case bookform.SubmitMsg:
		return a, a.createBook(msg.Input, msg.ImagePath)

	case bookform.CancelledMsg:
		a.form = nil
		a.screen = ScreenDashboard
		return a, nil

	case bookCreatedMsg:
		if msg.err != nil {
			if client.IsUnauthenticated(msg.err) {
				return a.expireSession()
			}
			slog.Error("Failed to create book", "error", msg.err)
			if a.form == nil {
				return a, nil
			}
			return a, a.form.SetError(msg.err.Error())
		}
		if msg.imagePath != "" {
			if err := a.recent.Add(msg.imagePath); err != nil {
				slog.Warn("Failed to record recent image", "path", msg.imagePath, "error", err)
			}
		}
		a.resolver.Invalidate()
		a.form = nil
		a.screen = ScreenDashboard
		a.dashboard.ClearRecommendation()
		return a, tea.Batch(a.dashboard.SetLoadingBooks(), a.loadBooks())
	}

	// Forward everything else to the active screen (needed for huh form internals and spinners)
	return a.forward(msg)
}

// forward routes a message to the active child model
func (a *App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.screen {
	case ScreenLanding:
		_, cmd = a.landing.Update(msg)
	case ScreenLogin:
		if a.loginView != nil {
			_, cmd = a.loginView.Update(msg)
		}
	case ScreenDashboard:
		if a.dashboard != nil {
			_, cmd = a.dashboard.Update(msg)
		}
	case ScreenCreateBook:
		if a.form != nil {
			_, cmd = a.form.Update(msg)
		}
	}
	return a, cmd
}

func (a *App) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "b", "esc", "enter":
		a.detailView = nil
		a.screen = ScreenDashboard
	}
	return a, nil
}

func (a *App) handleChoice(msg landing.ChoiceMsg) (tea.Model, tea.Cmd) {
	switch msg.Choice {
	case landing.ChoiceLogin:
		a.loginView = login.New()
		a.screen = ScreenLogin
		return a, a.loginView.Init()
	case landing.ChoiceHealth:
		a.landing.SetChecking()
		return a, a.checkHealth()
	case landing.ChoiceQuit:
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) showDashboard() tea.Cmd {
	a.dashboard = dashboard.New(a.frameWidth(), a.contentHeight())
	a.screen = ScreenDashboard
	return tea.Batch(a.dashboard.Init(), a.dashboard.SetLoadingBooks(), a.loadBooks())
}

func (a *App) showLanding(notice string) (tea.Model, tea.Cmd) {
	a.dashboard = nil
	a.detailView = nil
	a.form = nil
	a.loginView = nil
	a.username = ""
	a.lastUpdate = time.Time{}
	a.resolver.Invalidate()

	a.landing = landing.New()
	a.landing.SetNotice(notice)
	a.screen = ScreenLanding
	return a, a.landing.Init()
}

// expireSession returns to the landing screen after the backend rejected the session
func (a *App) expireSession() (tea.Model, tea.Cmd) {
	slog.Info("Session expired, returning to landing")
	if err := a.api.Auth().Logout(); err != nil {
		slog.Warn("Failed to clear tokens", "error", err)
	}
	return a.showLanding(sessionExpiredNotice)
}

func (a *App) openForm() tea.Cmd {
	recent := a.recent.List()
	imagesDir := imagefiles.FindImagesDir()
	images, err := imagefiles.Discover(imagesDir)
	if err != nil {
		slog.Debug("No local images found", "dir", imagesDir, "error", err)
	}

	a.form = bookform.New(recent, images, imagesDir)
	a.screen = ScreenCreateBook
	cmd := a.form.Init()
	if a.width > 0 {
		a.form.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
	}
	return cmd
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLogin:
		if a.loginView != nil {
			content = pad(a.loginView.View())
		}
	case ScreenDashboard:
		if a.dashboard != nil {
			content = a.dashboard.View()
		}
	case ScreenDetail:
		content = a.viewDetail()
	case ScreenCreateBook:
		if a.form != nil {
			content = pad(a.form.View())
		}
	default:
		content = pad(a.landing.View())
	}

	return a.wrapWithFrame(content)
}

func pad(content string) string {
	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

func (a *App) viewDetail() string {
	if a.detailView == nil {
		return ""
	}
	return styles.ActivePanel.Width(a.frameWidth() - 2).Render(a.detailView.View())
}

// frameWidth is the rendered frame width. One column short of the terminal
// to avoid wrapping on some terminals, never below minTerminalWidth.
func (a *App) frameWidth() int {
	return max(a.width-1, minTerminalWidth)
}

// contentHeight calculates the height available between header and footer
func (a *App) contentHeight() int {
	return max(a.height-frameLines, 0)
}

// renderHeader creates the header bar with app branding and context
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("BookX"))

	rightText := ""
	if a.screen != ScreenLanding && a.screen != ScreenLogin {
		who := "signed in"
		if a.username != "" {
			who = a.username
		}
		rightText = " " + contextStyle.Render(icons.User.String()+" "+who) + " "
	}

	leftWidth := lipgloss.Width(leftText)
	rightWidth := lipgloss.Width(rightText)
	fillWidth := width - 4 - leftWidth - rightWidth // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		rightText = ""
		fillWidth = max(width-4-leftWidth, 0)
	}

	fill := strings.Repeat("─", fillWidth)

	return borderStyle.Render("╭─" + leftText + fill + rightText + "─╮")
}

// shortcuts lists the keyboard hints for the current screen
func (a *App) shortcuts() []string {
	switch a.screen {
	case ScreenLanding:
		return []string{"↑↓ Navigate", "Enter Select", "ctrl+c Quit"}
	case ScreenLogin:
		return []string{"Tab Next", "Enter Submit", "Esc Back"}
	case ScreenDashboard:
		if a.dashboard != nil && a.dashboard.Focus() == dashboard.PaneBooks {
			return []string{"↑↓ Move", "Enter Open", "/ Search", "a All", "n New", "r Refresh", "L Logout", "q Quit"}
		}
		return []string{"Enter Send", "Tab Books", "ctrl+c Quit"}
	case ScreenDetail:
		return []string{"b Back", "q Quit"}
	case ScreenCreateBook:
		return []string{"Tab Next", "Enter Confirm", "Esc Cancel"}
	}
	return nil
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	shortcuts := a.shortcuts()
	var styled []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styled = append(styled, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styled = append(styled, s)
		}
	}

	leftText := " " + strings.Join(styled, "  ") + " "

	rightText := ""
	if !a.lastUpdate.IsZero() && a.screen == ScreenDashboard {
		rightText = " " + statusStyle.Render("Updated "+humanize.Time(a.lastUpdate)) + " "
	}

	leftWidth := lipgloss.Width(leftText)
	rightWidth := lipgloss.Width(rightText)
	fillWidth := width - 4 - leftWidth - rightWidth // -4 for ╰─ and ─╯
	if fillWidth < 0 {
		rightText = ""
		fillWidth = max(width-4-leftWidth, 0)
	}

	fill := strings.Repeat("─", fillWidth)

	return borderStyle.Render("╰─" + leftText + fill + rightText + "─╯")
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// checkHealth creates a command that probes the backend
func (a *App) checkHealth() tea.Cmd {
	return func() tea.Msg {
		return healthCheckedMsg{healthy: a.api.HealthCheck(a.ctx)}
	}
}

// login exchanges credentials for a token pair and stores it
func (a *App) login(username, password string) tea.Cmd {
	return func() tea.Msg {
		tokens, err := a.api.Auth().Login(a.ctx, username, password)
		if err != nil {
			return loggedInMsg{err: err}
		}
		if err := a.api.Auth().Store().SetTokens(tokens); err != nil {
			return loggedInMsg{err: fmt.Errorf("saving session: %w", err)}
		}
		slog.Info("Logged in", "username", username)
		return loggedInMsg{username: username}
	}
}

// loadBooks creates a command to fetch the full listing
func (a *App) loadBooks() tea.Cmd {
	return func() tea.Msg {
		books, err := a.api.ListBooks(a.ctx)
		return booksLoadedMsg{books: books, err: err}
	}
}

// askAdvice fetches advice and resolves it against the listing
func (a *App) askAdvice(prompt string) tea.Cmd {
	return func() tea.Msg {
		advice, err := a.api.GetAdvice(a.ctx, prompt)
		if err != nil {
			return adviceMsg{err: err}
		}
		result := a.resolver.Resolve(a.ctx, advice)
		slog.Debug("Resolved recommendation", "source", result.Source.String(), "books", len(result.Books))
		return adviceMsg{reply: chat.FormatAdvice(advice), books: result.Books}
	}
}

// createBook submits a new listing
func (a *App) createBook(input client.CreateBookInput, imagePath string) tea.Cmd {
	return func() tea.Msg {
		book, err := a.api.CreateBook(a.ctx, input)
		return bookCreatedMsg{book: book, imagePath: imagePath, err: err}
	}
}

// logout discards the stored tokens
func (a *App) logout() tea.Cmd {
	return func() tea.Msg {
		if err := a.api.Auth().Logout(); err != nil {
			slog.Warn("Failed to clear tokens", "error", err)
		}
		return loggedOutMsg{}
	}
}

// Run starts the TUI and blocks until it exits or ctx is cancelled
func Run(ctx context.Context, api *client.Client, resolver *recommend.Resolver, recent *recentfiles.RecentFiles) error {
	app := New(api, resolver, recent)
	app.ctx = ctx

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
