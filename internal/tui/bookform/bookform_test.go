// ABOUTME: Tests for the create-book form
// ABOUTME: Validates step progression, submission, cancel, and error recovery

package bookform

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/swapbook/bookx/cli/internal/client"
	"github.com/swapbook/bookx/cli/internal/tui/coverpicker"
)

func update(f *Form, msg tea.Msg) (*Form, tea.Cmd) {
	model, cmd := f.Update(msg)
	return model.(*Form), cmd
}

func TestNewStartsAtDetails(t *testing.T) {
	f := New(nil, nil, "")

	if f.Step() != stepDetails {
		t.Errorf("expected step 1, got %d", f.Step())
	}
	view := f.View()
	if !strings.Contains(view, "Details") {
		t.Errorf("expected details step in view:\n%s", view)
	}
	if !strings.Contains(view, "Location & Contact") {
		t.Error("expected progress indicator to list all steps")
	}
}

func TestAdvanceSteps(t *testing.T) {
	f := New(nil, nil, "")
	f.title = "Dune"
	f.location = "Berlin"

	f.advanceStep()
	if f.Step() != stepContact {
		t.Fatalf("expected step 2, got %d", f.Step())
	}

	f.advanceStep()
	if f.Step() != stepCover {
		t.Fatalf("expected step 3, got %d", f.Step())
	}
	if f.picker == nil {
		t.Fatal("expected cover picker on step 3")
	}
	if !strings.Contains(f.View(), "Cover image") {
		t.Error("expected cover picker view")
	}
}

func TestSkipImageSubmits(t *testing.T) {
	f := New(nil, nil, "")
	f.title = "  Dune "
	f.author = "Frank Herbert"
	f.location = "Berlin"
	f.step = stepCover

	f, cmd := update(f, coverpicker.SkippedMsg{})
	if cmd == nil {
		t.Fatal("expected submit command")
	}
	submit, ok := cmd().(SubmitMsg)
	if !ok {
		t.Fatalf("expected SubmitMsg, got %T", cmd())
	}
	if submit.Input.Title != "Dune" || submit.Input.Location != "Berlin" {
		t.Errorf("unexpected input %+v", submit.Input)
	}
	if submit.Input.Image != nil {
		t.Error("expected no image")
	}
	if !f.Submitting() {
		t.Error("expected form to be submitting")
	}
	if !strings.Contains(f.View(), "Listing your book") {
		t.Error("expected submitting view")
	}
}

func TestSelectImageSubmits(t *testing.T) {
	f := New(nil, nil, "")
	f.title = "Dune"
	f.location = "Berlin"
	f.step = stepCover

	img := &client.Image{Filename: "dune.jpg", Data: []byte("jpeg")}
	_, cmd := update(f, coverpicker.SelectedMsg{Path: "/covers/dune.jpg", Image: img})

	submit := cmd().(SubmitMsg)
	if submit.Input.Image != img {
		t.Error("expected selected image in input")
	}
	if submit.ImagePath != "/covers/dune.jpg" {
		t.Errorf("expected image path, got %q", submit.ImagePath)
	}
}

func TestSubmittingIgnoresInput(t *testing.T) {
	f := New(nil, nil, "")
	f.submitting = true

	if _, cmd := update(f, tea.KeyMsg{Type: tea.KeyEsc}); cmd != nil {
		t.Error("expected input ignored while submitting")
	}
}

func TestPickerCancelReturnsToContact(t *testing.T) {
	f := New(nil, nil, "")
	f.step = stepCover

	f, _ = update(f, coverpicker.CancelledMsg{})
	if f.Step() != stepContact {
		t.Errorf("expected step 2 after picker cancel, got %d", f.Step())
	}
}

func TestEscCancels(t *testing.T) {
	f := New(nil, nil, "")

	_, cmd := update(f, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected cancel command")
	}
	if _, ok := cmd().(CancelledMsg); !ok {
		t.Errorf("expected CancelledMsg, got %T", cmd())
	}
}

func TestSetErrorRestartsWithValues(t *testing.T) {
	f := New(nil, nil, "")
	f.title = "Dune"
	f.location = "Berlin"
	f.step = stepCover
	f.submitting = true

	f.SetError("failed to create book: title too long")

	if f.Submitting() {
		t.Error("expected submitting cleared")
	}
	if f.Step() != stepDetails {
		t.Errorf("expected step 1, got %d", f.Step())
	}
	if f.Input().Title != "Dune" {
		t.Error("expected entered values kept")
	}
	if !strings.Contains(f.View(), "title too long") {
		t.Error("expected error in view")
	}
}

func TestRequired(t *testing.T) {
	check := required("Title")
	if err := check("  "); err == nil || err.Error() != "title is required" {
		t.Errorf("expected required error, got %v", err)
	}
	if err := check("Dune"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestProgressWidth(t *testing.T) {
	f := New(nil, nil, "")
	f.width = 101

	for _, line := range strings.Split(f.renderProgress(), "\n") {
		if got := lipgloss.Width(line); got != 100 {
			t.Errorf("expected progress line width 100, got %d: %q", got, line)
		}
	}
}
