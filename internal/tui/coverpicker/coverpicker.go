// ABOUTME: Cover image picker for the create-book form
// ABOUTME: Offers recent images, discovered images, a typed path, or no image

package coverpicker

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/swapbook/bookx/cli/internal/client"
	"github.com/swapbook/bookx/cli/internal/tui/imagefiles"
	"github.com/swapbook/bookx/cli/internal/tui/styles"
)

type state int

const (
	stateList state = iota
	stateInput
	stateBrowse
)

// SelectedMsg is sent when an image has been chosen and read
type SelectedMsg struct {
	Path  string
	Image *client.Image
}

// SkippedMsg is sent when the user continues without an image
type SkippedMsg struct{}

// CancelledMsg is sent when the user backs out of the picker
type CancelledMsg struct{}

// Picker is the cover image selection component
type Picker struct {
	recent    []string
	images    []imagefiles.ImageFile
	dir       string
	cursor    int
	state     state
	textInput textinput.Model
	err       string
	width     int
	height    int
}

var (
	selectedStyle = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle    = lipgloss.NewStyle().Foreground(styles.Danger)
	helpStyle     = lipgloss.NewStyle().Foreground(styles.Muted)
	dividerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// New creates a picker. dir is where images were discovered, for display only.
func New(recent []string, images []imagefiles.ImageFile, dir string) *Picker {
	ti := textinput.New()
	ti.Placeholder = "~/Pictures/cover.jpg"
	ti.CharLimit = 512
	ti.Width = 60

	return &Picker{
		recent:    recent,
		images:    images,
		dir:       dir,
		state:     stateList,
		textInput: ti,
	}
}

// Init implements tea.Model
func (p *Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case tea.KeyMsg:
		p.err = ""

		switch p.state {
		case stateList:
			return p.updateList(msg)
		case stateInput:
			return p.updateInput(msg)
		case stateBrowse:
			return p.updateBrowse(msg)
		}
	}

	return p, nil
}

// list layout: recent images, "Enter path...", optional "Browse images...", "No cover image"
func (p *Picker) listItemCount() int {
	count := len(p.recent) + 2
	if len(p.images) > 0 {
		count++
	}
	return count
}

func (p *Picker) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < p.listItemCount()-1 {
			p.cursor++
		}
	case "enter":
		return p.selectListItem()
	case "esc", "b":
		return p, func() tea.Msg { return CancelledMsg{} }
	}
	return p, nil
}

func (p *Picker) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		p.state = stateList
		p.textInput.SetValue("")
		p.textInput.Blur()
		return p, nil
	case "enter":
		path := strings.TrimSpace(p.textInput.Value())
		if path == "" {
			p.err = "Please enter a file path"
			return p, nil
		}
		return p.loadImage(path)
	}

	var cmd tea.Cmd
	p.textInput, cmd = p.textInput.Update(msg)
	return p, cmd
}

func (p *Picker) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	back := len(p.images)

	switch msg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < back {
			p.cursor++
		}
	case "enter":
		if p.cursor == back {
			p.state = stateList
			p.cursor = 0
			return p, nil
		}
		return p.loadImage(p.images[p.cursor].Path)
	case "esc", "b":
		p.state = stateList
		p.cursor = 0
	}
	return p, nil
}

func (p *Picker) selectListItem() (tea.Model, tea.Cmd) {
	n := len(p.recent)

	switch {
	case p.cursor < n:
		return p.loadImage(p.recent[p.cursor])
	case p.cursor == n:
		p.state = stateInput
		p.textInput.Focus()
		return p, textinput.Blink
	case len(p.images) > 0 && p.cursor == n+1:
		p.state = stateBrowse
		p.cursor = 0
		return p, nil
	default:
		return p, func() tea.Msg { return SkippedMsg{} }
	}
}

func (p *Picker) loadImage(path string) (tea.Model, tea.Cmd) {
	expanded := expandPath(path)

	if !imagefiles.IsImage(expanded) {
		p.err = "Not an image file: " + path
		return p, nil
	}

	if _, err := os.Stat(expanded); err != nil {
		if os.IsNotExist(err) {
			p.err = "File not found: " + path
		} else if os.IsPermission(err) {
			p.err = "Cannot read file: permission denied"
		} else {
			p.err = "Error reading file: " + err.Error()
		}
		return p, nil
	}

	img, err := client.LoadImage(expanded)
	if err != nil {
		p.err = err.Error()
		return p, nil
	}

	return p, func() tea.Msg {
		return SelectedMsg{Path: expanded, Image: img}
	}
}

// expandPath expands a leading ~ to the home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return home + path[1:]
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
	}
	return path
}

// SetError sets an error message to display
func (p *Picker) SetError(msg string) {
	p.err = msg
}

// View implements tea.Model
func (p *Picker) View() string {
	switch p.state {
	case stateInput:
		return p.viewInput()
	case stateBrowse:
		return p.viewBrowse()
	default:
		return p.viewList()
	}
}

func row(label string, selected bool) string {
	if selected {
		return "> " + selectedStyle.Render(label) + "\n"
	}
	return "  " + normalStyle.Render(label) + "\n"
}

func (p *Picker) viewList() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Cover image"))
	b.WriteString("\n")

	if len(p.recent) > 0 {
		b.WriteString(helpStyle.Render("Recent images:"))
		b.WriteString("\n")
		for i, path := range p.recent {
			display := path
			if len(display) > p.width-10 && p.width > 20 {
				display = "..." + display[len(display)-(p.width-13):]
			}
			b.WriteString(row(display, i == p.cursor))
		}

		dividerWidth := min(40, p.width-4)
		if dividerWidth < 1 {
			dividerWidth = 40
		}
		b.WriteString(dividerStyle.Render(strings.Repeat("─", dividerWidth)))
		b.WriteString("\n")
	}

	idx := len(p.recent)
	b.WriteString(row("Enter path...", p.cursor == idx))

	if len(p.images) > 0 {
		idx++
		b.WriteString(row("Browse images...", p.cursor == idx))
	}

	idx++
	b.WriteString(row("No cover image", p.cursor == idx))

	if p.err != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + p.err))
	}

	return b.String()
}

func (p *Picker) viewInput() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Enter image path"))
	b.WriteString("\n")
	b.WriteString(p.textInput.View())

	if p.err != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render("Error: " + p.err))
	}

	return b.String()
}

func (p *Picker) viewBrowse() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Images in " + p.dir))
	b.WriteString("\n")

	for i, img := range p.images {
		b.WriteString(row(img.Label(), i == p.cursor))
	}
	b.WriteString(row("[back]", p.cursor == len(p.images)))

	if p.err != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + p.err))
	}

	return b.String()
}
