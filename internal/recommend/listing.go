// ABOUTME: View state for the book listing pane
// ABOUTME: Tracks all books, the active AI recommendation, and a local text filter

package recommend

import (
	"fmt"
	"strings"

	"github.com/swapbook/bookx/cli/internal/client"
)

// Listing is the book listing state. The zero value is an empty listing.
type Listing struct {
	all            []client.Book
	recommended    []client.Book
	hasRecommended bool
	query          string
}

// SetAll replaces the full listing. An active recommendation is kept.
func (l *Listing) SetAll(books []client.Book) {
	l.all = books
}

// All returns every known book
func (l *Listing) All() []client.Book {
	return l.all
}

// SetRecommendation activates a recommendation. An empty slice is a valid, empty recommendation.
func (l *Listing) SetRecommendation(books []client.Book) {
	l.recommended = books
	l.hasRecommended = true
}

// ClearRecommendation returns the listing to all books
func (l *Listing) ClearRecommendation() {
	l.recommended = nil
	l.hasRecommended = false
}

// HasRecommendation reports whether a recommendation is active
func (l *Listing) HasRecommendation() bool {
	return l.hasRecommended
}

// SetQuery sets the local free-text filter
func (l *Listing) SetQuery(q string) {
	l.query = strings.TrimSpace(q)
}

// Query returns the local free-text filter
func (l *Listing) Query() string {
	return l.query
}

// Visible returns the books to display
func (l *Listing) Visible() []client.Book {
	base := l.all
	if l.hasRecommended {
		base = l.recommended
	}
	if l.query == "" {
		return base
	}

	q := strings.ToLower(l.query)
	var out []client.Book
	for _, b := range base {
		if matches(b, q) {
			out = append(out, b)
		}
	}
	return out
}

// Header is the listing title line
func (l *Listing) Header() string {
	n := len(l.Visible())
	if l.hasRecommended {
		return fmt.Sprintf("AI recommended books (%d)", n)
	}
	return fmt.Sprintf("%d books available for exchange", n)
}

func matches(b client.Book, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(b.Title), lowerQuery) ||
		strings.Contains(strings.ToLower(b.Author), lowerQuery) ||
		strings.Contains(strings.ToLower(b.Description), lowerQuery)
}
