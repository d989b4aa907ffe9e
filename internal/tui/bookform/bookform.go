// ABOUTME: Create-book form as a bubbletea model
// ABOUTME: Three steps (details, location & contact, cover image) with a progress indicator

package bookform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/swapbook/bookx/cli/internal/client"
	"github.com/swapbook/bookx/cli/internal/tui/coverpicker"
	"github.com/swapbook/bookx/cli/internal/tui/icons"
	"github.com/swapbook/bookx/cli/internal/tui/imagefiles"
	"github.com/swapbook/bookx/cli/internal/tui/styles"
)

// SubmitMsg is sent when every step is complete
type SubmitMsg struct {
	Input     client.CreateBookInput
	ImagePath string
}

// CancelledMsg is sent when the form is abandoned
type CancelledMsg struct{}

const (
	stepDetails = iota + 1
	stepContact
	stepCover
)

var stepNames = []string{"Details", "Location & Contact", "Cover image"}

// Form collects a new book listing
type Form struct {
	form   *huh.Form
	picker *coverpicker.Picker
	step   int
	width  int

	recent     []string
	images     []imagefiles.ImageFile
	imagesDir  string
	submitting bool
	err        string

	title       string
	author      string
	description string
	location    string
	phone       string
	image       *client.Image
	imagePath   string
}

// New creates a form. recent and images feed the cover picker.
func New(recent []string, images []imagefiles.ImageFile, imagesDir string) *Form {
	f := &Form{
		step:      stepDetails,
		recent:    recent,
		images:    images,
		imagesDir: imagesDir,
	}
	f.form = f.detailsForm()
	return f
}

func (f *Form) detailsForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("e.g., Dune").
				CharLimit(200).
				Value(&f.title).
				Validate(required("Title")),
			huh.NewInput().
				Title("Author").
				Placeholder("optional").
				CharLimit(200).
				Value(&f.author),
			huh.NewText().
				Title("Description").
				Placeholder("Condition, edition, why you loved it...").
				CharLimit(2000).
				Lines(4).
				Value(&f.description),
		).Title("Step 1: Details").
			Description("What book are you giving away?"),
	).WithTheme(styles.FormTheme())
}

func (f *Form) contactForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Location").
				Placeholder("e.g., Berlin, Kreuzberg").
				CharLimit(200).
				Value(&f.location).
				Validate(required("Location")),
			huh.NewInput().
				Title("Phone number").
				Description("Shown to readers who want the book").
				Placeholder("optional").
				CharLimit(40).
				Value(&f.phone),
		).Title("Step 2: Location & Contact").
			Description("Where can someone pick it up?"),
	).WithTheme(styles.FormTheme())
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", strings.ToLower(field))
		}
		return nil
	}
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if f.submitting {
		return f, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		f.width = msg.Width
		if f.picker != nil {
			f.picker.Update(msg)
		}
		form, cmd := f.form.Update(msg)
		if hf, ok := form.(*huh.Form); ok {
			f.form = hf
		}
		return f, cmd

	case coverpicker.SelectedMsg:
		f.image = msg.Image
		f.imagePath = msg.Path
		return f.submit()

	case coverpicker.SkippedMsg:
		f.image = nil
		f.imagePath = ""
		return f.submit()

	case coverpicker.CancelledMsg:
		f.step = stepContact
		f.picker = nil
		f.form = f.contactForm()
		return f, f.form.Init()

	case tea.KeyMsg:
		if msg.String() == "esc" && f.step != stepCover {
			return f, func() tea.Msg { return CancelledMsg{} }
		}
		f.err = ""
	}

	if f.step == stepCover {
		model, cmd := f.picker.Update(msg)
		f.picker = model.(*coverpicker.Picker)
		return f, cmd
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	if f.form.State == huh.StateCompleted {
		return f.advanceStep()
	}
	return f, cmd
}

func (f *Form) advanceStep() (tea.Model, tea.Cmd) {
	switch f.step {
	case stepDetails:
		f.step = stepContact
		f.form = f.contactForm()
		return f, f.form.Init()

	case stepContact:
		f.step = stepCover
		f.picker = coverpicker.New(f.recent, f.images, f.imagesDir)
		if f.width > 0 {
			f.picker.Update(tea.WindowSizeMsg{Width: f.width})
		}
		return f, f.picker.Init()
	}
	return f, nil
}

func (f *Form) submit() (tea.Model, tea.Cmd) {
	f.submitting = true
	input := f.Input()
	path := f.imagePath
	return f, func() tea.Msg {
		return SubmitMsg{Input: input, ImagePath: path}
	}
}

// Input returns the values collected so far
func (f *Form) Input() client.CreateBookInput {
	return client.CreateBookInput{
		Title:       strings.TrimSpace(f.title),
		Author:      strings.TrimSpace(f.author),
		Description: strings.TrimSpace(f.description),
		Location:    strings.TrimSpace(f.location),
		PhoneNumber: strings.TrimSpace(f.phone),
		Image:       f.image,
	}
}

// SetError shows a failed submission and restarts at step 1 with the entered values
func (f *Form) SetError(msg string) tea.Cmd {
	f.submitting = false
	f.err = msg
	f.step = stepDetails
	f.picker = nil
	f.form = f.detailsForm()
	return f.form.Init()
}

// Submitting reports whether a create request is outstanding
func (f *Form) Submitting() bool {
	return f.submitting
}

// Step returns the current step number (1-based)
func (f *Form) Step() int {
	return f.step
}

// View implements tea.Model
func (f *Form) View() string {
	var sb strings.Builder

	sb.WriteString(f.renderProgress())
	sb.WriteString("\n\n")

	if f.err != "" {
		sb.WriteString(styles.StatusCritical.Render(icons.Critical.String() + " " + f.err))
		sb.WriteString("\n\n")
	}

	switch {
	case f.submitting:
		sb.WriteString(styles.Subtitle.Render("Listing your book..."))
	case f.step == stepCover && f.picker != nil:
		sb.WriteString(f.picker.View())
	default:
		sb.WriteString(f.form.View())
	}

	return sb.String()
}

func (f *Form) renderProgress() string {
	width := f.width - 1
	if width < 60 {
		width = 60
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary)

	var steps []string
	for i, name := range stepNames {
		stepNum := i + 1
		var indicator string
		var nameStyle lipgloss.Style

		switch {
		case stepNum < f.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Secondary).Render(icons.CheckOK.String())
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		case stepNum == f.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("●")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
		default:
			indicator = lipgloss.NewStyle().Foreground(styles.Muted).Render("○")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		}

		steps = append(steps, fmt.Sprintf("%s %s", indicator, nameStyle.Render(name)))
	}
	stepsLine := strings.Join(steps, "    ")

	// "│  " + bar + " │"
	barWidth := width - 5
	filledWidth := (f.step * barWidth) / len(stepNames)
	filledBar := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("━", filledWidth))
	emptyBar := lipgloss.NewStyle().Foreground(styles.Surface).Render(strings.Repeat("─", barWidth-filledWidth))

	label := icons.Plus.String() + " New book"
	topFill := max(0, width-5-lipgloss.Width(label))
	top := "┌─ " + titleStyle.Render(label) + " " + strings.Repeat("─", topFill) + "┐"

	stepsPadding := max(0, width-4-lipgloss.Width(stepsLine))
	middle := "│ " + stepsLine + strings.Repeat(" ", stepsPadding) + " │"
	bar := "│  " + filledBar + emptyBar + " │"
	bottom := "└" + strings.Repeat("─", width-2) + "┘"

	return borderStyle.Render(strings.Join([]string{top, middle, bar, bottom}, "\n"))
}
