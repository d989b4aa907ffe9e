// ABOUTME: Book detail view with the owner's contact details
// ABOUTME: Shows the full listing and how to arrange the exchange

package detail

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/swapbook/bookx/cli/internal/client"
	"github.com/swapbook/bookx/cli/internal/tui/icons"
	"github.com/swapbook/bookx/cli/internal/tui/styles"
	"github.com/swapbook/bookx/cli/internal/tui/widgets"
)

// Detail displays a single book
type Detail struct {
	book        *client.Book
	recommended bool
	width       int
	now         func() time.Time
}

// New creates a detail view
func New(book *client.Book, recommended bool, width int) *Detail {
	return &Detail{
		book:        book,
		recommended: recommended,
		width:       width,
		now:         time.Now,
	}
}

// Book returns the displayed book
func (d *Detail) Book() *client.Book {
	return d.book
}

// SetWidth updates the view width
func (d *Detail) SetWidth(width int) {
	d.width = width
}

// ContactText is the call to action shown under a listing
func ContactText(b *client.Book) string {
	phone := b.PhoneNumber
	if phone == "" {
		phone = "the number they provide"
	}
	return fmt.Sprintf("Interested in %q? Contact owner at %s to arrange the exchange!", b.Title, phone)
}

// View renders the book
func (d *Detail) View() string {
	if d.book == nil {
		return "No book selected"
	}
	b := d.book

	var sb strings.Builder

	header := styles.Title.Render(icons.Book.String() + " " + b.Title)
	sb.WriteString(header)
	sb.WriteString("\n")

	badges := widgets.FreeBadge()
	if d.recommended {
		badges += " " + widgets.AIPickBadge()
	}
	sb.WriteString(badges)
	sb.WriteString("\n\n")

	field := func(icon icons.Icon, label, value string) {
		if value == "" {
			return
		}
		sb.WriteString(fmt.Sprintf("%s %s %s\n", icon.String(), styles.KeyStyle.Render(label), value))
	}

	field(icons.User, "Author:", b.Author)
	field(icons.Location, "Location:", b.Location)
	field(icons.Phone, "Phone:", b.PhoneNumber)
	field(icons.User, "Listed by:", b.OwnerUsername)
	if created := b.Created(); !created.IsZero() {
		field(icons.Info, "Listed:", humanize.RelTime(created, d.now(), "ago", "from now"))
	}
	field(icons.Image, "Cover:", b.ImageURL)

	if b.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(b.Description)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(styles.StatusOK.Render(ContactText(b)))
	sb.WriteString("\n")

	if d.width <= 0 {
		return sb.String()
	}
	return lipgloss.NewStyle().Width(d.width).Render(sb.String())
}
