// ABOUTME: Listing and status icons for the BookX terminal UI
// ABOUTME: Nerd Font glyphs when BOOKX_NERD_FONTS or the terminal allows, plain Unicode otherwise

package icons

import (
	"os"
	"strconv"
	"strings"
	"sync"
)

// glyphTerminals bundle a Nerd Font by default, keyed by lowercased TERM_PROGRAM
var glyphTerminals = map[string]bool{
	"ghostty":   true,
	"iterm.app": true,
	"kitty":     true,
	"wezterm":   true,
}

var (
	nerdFontsOnce sync.Once
	nerdFonts     bool
)

// nerdFontsEnabled decides glyph support from the environment.
// BOOKX_NERD_FONTS wins when it parses as a bool; otherwise TERM_PROGRAM is consulted.
func nerdFontsEnabled(getenv func(string) string) bool {
	if v, err := strconv.ParseBool(getenv("BOOKX_NERD_FONTS")); err == nil {
		return v
	}
	return glyphTerminals[strings.ToLower(getenv("TERM_PROGRAM"))]
}

// HasNerdFonts reports whether Nerd Font glyphs are rendered. The answer is fixed on first use.
func HasNerdFonts() bool {
	nerdFontsOnce.Do(func() {
		nerdFonts = nerdFontsEnabled(os.Getenv)
	})
	return nerdFonts
}

// Icon pairs a Nerd Font glyph with a plain Unicode stand-in
type Icon struct {
	NerdFont string
	Fallback string
}

// String picks the glyph for the current terminal
func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

var (
	// Domain
	Book     = Icon{"󰂺", "▤"} // nf-md-book_open_variant
	Chat     = Icon{"󰭹", "✉"} // nf-md-chat
	Sparkles = Icon{"󰫢", "✦"} // nf-md-creation
	User     = Icon{"", "☺"} // nf-oct-person
	Location = Icon{"󰍎", "⌂"} // nf-md-map_marker
	Phone    = Icon{"󰏲", "☎"} // nf-md-phone
	Image    = Icon{"󰋩", "▣"} // nf-md-image

	// Status
	CheckOK  = Icon{"", "✓"} // nf-oct-check_circle
	Warning  = Icon{"", "⚠"} // nf-oct-alert
	Critical = Icon{"", "✗"} // nf-oct-x_circle
	Info     = Icon{"", "ℹ"} // nf-oct-info

	// Actions
	Search  = Icon{"󰍉", "⌕"} // nf-md-magnify
	Plus    = Icon{"󰐕", "+"} // nf-md-plus
	Refresh = Icon{"󰑓", "↻"} // nf-md-refresh
	Back    = Icon{"󰁍", "←"} // nf-md-arrow_left
	Logout  = Icon{"󰍃", "⇥"} // nf-md-logout
	Quit    = Icon{"󰗼", "×"} // nf-md-exit_to_app

	App = Icon{"󰂺", "◈"}
)
