// ABOUTME: Tests for the cover image picker
// ABOUTME: Validates navigation, selection, skipping, and error states

package coverpicker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/swapbook/bookx/cli/internal/tui/imagefiles"
)

func press(p *Picker, key tea.KeyMsg) (*Picker, tea.Cmd) {
	model, cmd := p.Update(key)
	return model.(*Picker), cmd
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestNew(t *testing.T) {
	p := New([]string{"/covers/dune.jpg"}, nil, "")

	if p.state != stateList {
		t.Errorf("expected initial state stateList, got %d", p.state)
	}
	if p.listItemCount() != 3 {
		t.Errorf("expected recent + path + none, got %d items", p.listItemCount())
	}
}

func TestNavigate(t *testing.T) {
	p := New([]string{"/a.png", "/b.png"}, nil, "")

	p, _ = press(p, keyDown)
	if p.cursor != 1 {
		t.Errorf("expected cursor 1, got %d", p.cursor)
	}
	p, _ = press(p, keyUp)
	p, _ = press(p, keyUp)
	if p.cursor != 0 {
		t.Errorf("expected cursor clamped at 0, got %d", p.cursor)
	}

	for i := 0; i < 10; i++ {
		p, _ = press(p, keyDown)
	}
	if p.cursor != p.listItemCount()-1 {
		t.Errorf("expected cursor clamped at last item, got %d", p.cursor)
	}
}

func TestSelectRecentImage(t *testing.T) {
	tmpDir := t.TempDir()
	cover := filepath.Join(tmpDir, "cover.png")
	os.WriteFile(cover, []byte("png"), 0644)

	p := New([]string{cover}, nil, "")
	_, cmd := press(p, keyEnter)
	if cmd == nil {
		t.Fatal("expected command to be returned")
	}

	selected, ok := cmd().(SelectedMsg)
	if !ok {
		t.Fatalf("expected SelectedMsg, got %T", cmd())
	}
	if selected.Path != cover {
		t.Errorf("expected path %s, got %s", cover, selected.Path)
	}
	if selected.Image.Filename != "cover.png" || string(selected.Image.Data) != "png" {
		t.Errorf("unexpected image %+v", selected.Image)
	}
}

func TestSelectMissingImage(t *testing.T) {
	p := New([]string{"/nonexistent/cover.png"}, nil, "")
	p, cmd := press(p, keyEnter)

	if cmd != nil {
		t.Error("expected no command for missing file")
	}
	if !strings.Contains(p.err, "File not found") {
		t.Errorf("expected not found error, got %q", p.err)
	}
}

func TestRejectsNonImage(t *testing.T) {
	tmpDir := t.TempDir()
	doc := filepath.Join(tmpDir, "notes.txt")
	os.WriteFile(doc, []byte("text"), 0644)

	p := New([]string{doc}, nil, "")
	p, cmd := press(p, keyEnter)

	if cmd != nil {
		t.Error("expected no command for non-image")
	}
	if !strings.Contains(p.err, "Not an image") {
		t.Errorf("expected not an image error, got %q", p.err)
	}
}

func TestEnterPath(t *testing.T) {
	p := New(nil, nil, "")

	p, _ = press(p, keyEnter)
	if p.state != stateInput {
		t.Fatalf("expected stateInput, got %d", p.state)
	}

	p, cmd := press(p, keyEnter)
	if cmd != nil || p.err != "Please enter a file path" {
		t.Errorf("expected empty path error, got %q", p.err)
	}

	p, _ = press(p, keyEsc)
	if p.state != stateList {
		t.Errorf("expected stateList after Esc, got %d", p.state)
	}
}

func TestSkip(t *testing.T) {
	p := New(nil, nil, "")
	p.cursor = p.listItemCount() - 1

	_, cmd := press(p, keyEnter)
	if cmd == nil {
		t.Fatal("expected command for skip")
	}
	if _, ok := cmd().(SkippedMsg); !ok {
		t.Errorf("expected SkippedMsg, got %T", cmd())
	}
}

func TestBrowseImages(t *testing.T) {
	tmpDir := t.TempDir()
	cover := filepath.Join(tmpDir, "dune.jpg")
	os.WriteFile(cover, []byte("jpeg"), 0644)
	images, _ := imagefiles.Discover(tmpDir)

	p := New(nil, images, tmpDir)
	p.cursor = 1

	p, _ = press(p, keyEnter)
	if p.state != stateBrowse {
		t.Fatalf("expected stateBrowse, got %d", p.state)
	}
	if !strings.Contains(p.View(), "dune.jpg") {
		t.Error("expected browse view to list dune.jpg")
	}

	_, cmd := press(p, keyEnter)
	if cmd == nil {
		t.Fatal("expected command for image selection")
	}
	if msg, ok := cmd().(SelectedMsg); !ok || msg.Path != cover {
		t.Errorf("expected SelectedMsg for %s, got %#v", cover, cmd())
	}
}

func TestCancelFromList(t *testing.T) {
	p := New(nil, nil, "")

	_, cmd := press(p, keyEsc)
	if cmd == nil {
		t.Fatal("expected command for cancel")
	}
	if _, ok := cmd().(CancelledMsg); !ok {
		t.Errorf("expected CancelledMsg, got %T", cmd())
	}
}

func TestViewWithZeroWidth(t *testing.T) {
	p := New([]string{"/path/to/a/really/long/recent/cover.png"}, nil, "")

	view := p.View()
	if !strings.Contains(view, "No cover image") {
		t.Errorf("expected list view, got %q", view)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input    string
		expected string
	}{
		{"~/Pictures/cover.jpg", home + "/Pictures/cover.jpg"},
		{"~", home},
		{"/absolute/cover.png", "/absolute/cover.png"},
		{"relative/cover.png", "relative/cover.png"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := expandPath(tc.input); got != tc.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}
