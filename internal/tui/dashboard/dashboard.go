// ABOUTME: Dashboard with the AI advisor chat beside the book listing
// ABOUTME: Owns view state only; API calls are requested through intent messages

package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/swapbook/bookx/cli/internal/chat"
	"github.com/swapbook/bookx/cli/internal/client"
	"github.com/swapbook/bookx/cli/internal/recommend"
	"github.com/swapbook/bookx/cli/internal/tui/icons"
	"github.com/swapbook/bookx/cli/internal/tui/styles"
	"github.com/swapbook/bookx/cli/internal/tui/widgets"
)

// Pane identifies the focused half of the dashboard
type Pane int

const (
	PaneChat Pane = iota
	PaneBooks
)

// AskMsg requests AI advice for a prompt
type AskMsg struct {
	Prompt string
}

// OpenBookMsg requests the detail view for a book
type OpenBookMsg struct {
	Book        client.Book
	Recommended bool
}

// RefreshMsg requests a full listing refetch
type RefreshMsg struct{}

// NewBookMsg requests the create-book form
type NewBookMsg struct{}

// LogoutMsg requests logout
type LogoutMsg struct{}

const (
	panelChrome  = 2 // rounded border, one column each side
	linesPerBook = 2
)

// Dashboard is the signed-in home screen
type Dashboard struct {
	conv    *chat.Conversation
	listing recommend.Listing

	viewport viewport.Model
	input    textinput.Model
	search   textinput.Model
	spinner  spinner.Model

	focus        Pane
	searching    bool
	cursor       int
	asking       bool
	loadingBooks bool
	status       string

	width  int
	height int
	now    func() time.Time
}

// New creates a dashboard sized to width x height
func New(width, height int) *Dashboard {
	input := textinput.New()
	input.Placeholder = "Ask for a genre, mood, or topic..."
	input.CharLimit = 500
	input.Prompt = icons.Chat.String() + " "
	input.Focus()

	search := textinput.New()
	search.Placeholder = "title, author, description"
	search.CharLimit = 100
	search.Prompt = icons.Search.String() + " "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Accent)

	d := &Dashboard{
		conv:     chat.New(),
		viewport: viewport.New(0, 0),
		input:    input,
		search:   search,
		spinner:  sp,
		focus:    PaneChat,
		now:      time.Now,
	}
	d.SetSize(width, height)
	return d
}

// SetSize updates the dashboard dimensions
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height

	d.viewport.Width = max(1, d.chatWidth()-panelChrome-2)
	d.viewport.Height = max(1, d.paneHeight()-4)
	d.input.Width = max(10, d.chatWidth()-panelChrome-6)
	d.search.Width = max(10, d.booksWidth()-panelChrome-6)
	d.refreshChat()
}

func (d *Dashboard) chatWidth() int {
	return d.width / 2
}

func (d *Dashboard) booksWidth() int {
	return d.width - d.chatWidth()
}

func (d *Dashboard) paneHeight() int {
	return max(3, d.height-panelChrome)
}

// Init implements tea.Model
func (d *Dashboard) Init() tea.Cmd {
	return textinput.Blink
}

// Focus returns the focused pane
func (d *Dashboard) Focus() Pane {
	return d.focus
}

// Listing exposes the listing state
func (d *Dashboard) Listing() *recommend.Listing {
	return &d.listing
}

// Messages returns the chat history
func (d *Dashboard) Messages() []chat.Message {
	return d.conv.Messages()
}

// Asking reports whether an advice request is outstanding
func (d *Dashboard) Asking() bool {
	return d.asking
}

// SetLoadingBooks marks a listing fetch as in flight
func (d *Dashboard) SetLoadingBooks() tea.Cmd {
	d.loadingBooks = true
	return d.spinner.Tick
}

// SetBooks replaces the listing with a fresh fetch. An active recommendation stays visible.
func (d *Dashboard) SetBooks(books []client.Book) {
	d.loadingBooks = false
	d.status = ""
	d.listing.SetAll(books)
	d.clampCursor()
}

// SetAdvice records an advisor reply and the books it resolved to
func (d *Dashboard) SetAdvice(reply string, books []client.Book) {
	d.asking = false
	d.conv.AddAssistant(reply)
	d.listing.SetRecommendation(books)
	d.cursor = 0
	d.refreshChat()
}

// ClearRecommendation returns the listing pane to all books
func (d *Dashboard) ClearRecommendation() {
	d.listing.ClearRecommendation()
	d.clampCursor()
}

// SetAdviceError records a failed advice request
func (d *Dashboard) SetAdviceError() {
	d.asking = false
	d.conv.AddAssistant(chat.ErrorReply)
	d.refreshChat()
}

// SetStatus shows a one-line error or notice in the listing pane
func (d *Dashboard) SetStatus(msg string) {
	d.loadingBooks = false
	d.status = msg
}

// Update implements tea.Model
func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !d.asking && !d.loadingBooks {
			return d, nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd

	case tea.KeyMsg:
		if msg.String() == "tab" && !d.searching {
			d.toggleFocus()
			return d, nil
		}
		if d.searching {
			return d.updateSearch(msg)
		}
		if d.focus == PaneChat {
			return d.updateChat(msg)
		}
		return d.updateBooks(msg)
	}

	return d, nil
}

func (d *Dashboard) toggleFocus() {
	if d.focus == PaneChat {
		d.focus = PaneBooks
		d.input.Blur()
		return
	}
	d.focus = PaneChat
	d.input.Focus()
}

func (d *Dashboard) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		d.toggleFocus()
		return d, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		d.viewport, cmd = d.viewport.Update(msg)
		return d, cmd
	case "enter":
		if d.asking {
			return d, nil
		}
		m, ok := d.conv.AddUser(d.input.Value())
		if !ok {
			return d, nil
		}
		d.input.SetValue("")
		d.asking = true
		d.refreshChat()
		prompt := m.Content
		return d, tea.Batch(d.spinner.Tick, func() tea.Msg { return AskMsg{Prompt: prompt} })
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

func (d *Dashboard) updateBooks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := d.listing.Visible()

	switch msg.String() {
	case "up", "k":
		if d.cursor > 0 {
			d.cursor--
		}
	case "down", "j":
		if d.cursor < len(visible)-1 {
			d.cursor++
		}
	case "enter":
		if d.cursor < len(visible) {
			book := visible[d.cursor]
			recommended := d.listing.HasRecommendation()
			return d, func() tea.Msg { return OpenBookMsg{Book: book, Recommended: recommended} }
		}
	case "/":
		d.searching = true
		d.search.Focus()
		return d, textinput.Blink
	case "a":
		d.ClearRecommendation()
	case "r":
		d.ClearRecommendation()
		return d, func() tea.Msg { return RefreshMsg{} }
	case "n":
		return d, func() tea.Msg { return NewBookMsg{} }
	case "L":
		return d, func() tea.Msg { return LogoutMsg{} }
	case "q":
		return d, tea.Quit
	}
	return d, nil
}

func (d *Dashboard) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		d.search.SetValue("")
		d.listing.SetQuery("")
		d.endSearch()
		return d, nil
	case "enter":
		d.endSearch()
		return d, nil
	}

	var cmd tea.Cmd
	d.search, cmd = d.search.Update(msg)
	d.listing.SetQuery(d.search.Value())
	d.clampCursor()
	return d, cmd
}

func (d *Dashboard) endSearch() {
	d.searching = false
	d.search.Blur()
	d.clampCursor()
}

func (d *Dashboard) clampCursor() {
	n := len(d.listing.Visible())
	if d.cursor >= n {
		d.cursor = n - 1
	}
	if d.cursor < 0 {
		d.cursor = 0
	}
}

func (d *Dashboard) refreshChat() {
	d.viewport.SetContent(d.renderMessages())
	d.viewport.GotoBottom()
}

func (d *Dashboard) renderMessages() string {
	width := max(10, d.viewport.Width)
	var blocks []string

	for _, m := range d.conv.Messages() {
		label := lipgloss.NewStyle().Foreground(styles.Accent).Bold(true).Render(icons.Sparkles.String() + " Advisor")
		body := styles.AssistantMessage.Width(width).Render(m.Content)
		if m.Role == chat.RoleUser {
			label = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render(icons.User.String() + " You")
			body = styles.UserMessage.Width(width).Render(m.Content)
		}
		stamp := styles.Subtitle.UnsetMarginBottom().Render(m.Timestamp.Format("15:04"))
		blocks = append(blocks, label+" "+stamp+"\n"+body)
	}
	return strings.Join(blocks, "\n\n")
}

// View renders both panes side by side
func (d *Dashboard) View() string {
	chatStyle, booksStyle := styles.ActivePanel, styles.Panel
	if d.focus == PaneBooks {
		chatStyle, booksStyle = styles.Panel, styles.ActivePanel
	}

	left := chatStyle.
		Width(d.chatWidth() - panelChrome).
		Height(d.paneHeight()).
		Render(d.viewChat())
	right := booksStyle.
		Width(d.booksWidth() - panelChrome).
		Height(d.paneHeight()).
		Render(d.viewBooks())

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (d *Dashboard) viewChat() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Chat.String() + " AI Book Advisor"))
	sb.WriteString("\n")
	sb.WriteString(d.viewport.View())
	sb.WriteString("\n")

	if d.asking {
		sb.WriteString(d.spinner.View() + " " + styles.Subtitle.UnsetMarginBottom().Render("Thinking..."))
	}
	sb.WriteString("\n")
	sb.WriteString(d.input.View())

	return sb.String()
}

func (d *Dashboard) viewBooks() string {
	var sb strings.Builder

	header := d.listing.Header()
	if d.listing.HasRecommendation() {
		header = icons.Sparkles.String() + " " + header
	} else {
		header = icons.Book.String() + " " + header
	}
	sb.WriteString(styles.Title.Render(header))
	sb.WriteString("\n")

	switch {
	case d.searching:
		sb.WriteString(d.search.View())
	case d.listing.Query() != "":
		sb.WriteString(styles.Subtitle.UnsetMarginBottom().Render(fmt.Sprintf("Filter: %q (/ to edit)", d.listing.Query())))
	default:
		sb.WriteString(styles.Subtitle.UnsetMarginBottom().Render("/ to search"))
	}
	sb.WriteString("\n")

	used := 3
	if d.status != "" {
		sb.WriteString(styles.StatusCritical.Render(d.status))
		sb.WriteString("\n")
		used++
	}

	visible := d.listing.Visible()
	switch {
	case d.loadingBooks:
		sb.WriteString(d.spinner.View() + " Loading books...")
		return sb.String()
	case len(visible) == 0 && d.listing.HasRecommendation():
		sb.WriteString(styles.Subtitle.Render("No matching books in the community yet. Press a to show all books."))
		return sb.String()
	case len(visible) == 0 && d.listing.Query() != "":
		sb.WriteString(styles.Subtitle.Render("No books match your search."))
		return sb.String()
	case len(visible) == 0:
		sb.WriteString(styles.Subtitle.Render("No books yet. Press n to list one!"))
		return sb.String()
	}

	perPage := max(1, (d.paneHeight()-used)/linesPerBook)
	start := 0
	if d.cursor >= perPage {
		start = d.cursor - perPage + 1
	}
	end := min(len(visible), start+perPage)

	rowWidth := max(10, d.booksWidth()-panelChrome-4)
	for i := start; i < end; i++ {
		sb.WriteString(d.renderBook(visible[i], i == d.cursor, rowWidth))
	}
	return sb.String()
}

func (d *Dashboard) renderBook(b client.Book, selected bool, width int) string {
	marker := "  "
	titleStyle := styles.NormalRow
	if selected && d.focus == PaneBooks {
		marker = "> "
		titleStyle = styles.SelectedRow
	}

	title := titleStyle.Render(truncate(b.Title, width-12))
	if b.Author != "" {
		title += styles.Subtitle.UnsetMarginBottom().Render(" by " + truncate(b.Author, 30))
	}

	meta := icons.Location.String() + " " + b.Location
	if created := b.Created(); !created.IsZero() {
		meta += " · " + humanize.RelTime(created, d.now(), "ago", "from now")
	}

	return marker + title + " " + widgets.FreeBadge() + "\n" +
		"  " + styles.Subtitle.UnsetMarginBottom().Render(truncate(meta, width)) + "\n"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
