package recommend

import (
	"testing"

	"github.com/swapbook/bookx/cli/internal/client"
)

func testBooks() []client.Book {
	return []client.Book{
		{ID: 1, Title: "Dune", Author: "Frank Herbert", Description: "Desert planet"},
		{ID: 2, Title: "1984", Author: "George Orwell", Description: "Surveillance state"},
		{ID: 3, Title: "Emma", Author: "Jane Austen", Description: "Matchmaking in a village"},
	}
}

func TestListing_AllBooksByDefault(t *testing.T) {
	var l Listing
	l.SetAll(testBooks())

	if got := len(l.Visible()); got != 3 {
		t.Errorf("expected 3 visible books, got %d", got)
	}
	if got := l.Header(); got != "3 books available for exchange" {
		t.Errorf("unexpected header %q", got)
	}
}

func TestListing_Recommendation(t *testing.T) {
	var l Listing
	l.SetAll(testBooks())
	l.SetRecommendation([]client.Book{testBooks()[1]})

	visible := l.Visible()
	if len(visible) != 1 || visible[0].ID != 2 {
		t.Errorf("expected only the recommended book, got %+v", visible)
	}
	if got := l.Header(); got != "AI recommended books (1)" {
		t.Errorf("unexpected header %q", got)
	}
}

func TestListing_EmptyRecommendation(t *testing.T) {
	var l Listing
	l.SetAll(testBooks())
	l.SetRecommendation(nil)

	if got := len(l.Visible()); got != 0 {
		t.Errorf("expected empty recommendation to show nothing, got %d", got)
	}
	if got := l.Header(); got != "AI recommended books (0)" {
		t.Errorf("unexpected header %q", got)
	}
}

func TestListing_ClearRecommendation(t *testing.T) {
	var l Listing
	l.SetAll(testBooks())
	l.SetRecommendation(nil)
	l.ClearRecommendation()

	if l.HasRecommendation() {
		t.Error("expected recommendation cleared")
	}
	if got := len(l.Visible()); got != 3 {
		t.Errorf("expected all books, got %d", got)
	}
}

func TestListing_SetAllKeepsRecommendation(t *testing.T) {
	var l Listing
	l.SetRecommendation([]client.Book{testBooks()[0]})
	l.SetAll(testBooks())

	if !l.HasRecommendation() {
		t.Fatal("expected refetch to keep recommendation")
	}
	if got := l.Visible(); len(got) != 1 || got[0].ID != testBooks()[0].ID {
		t.Errorf("expected only the recommended book, got %+v", got)
	}
	if got := len(l.All()); got != 3 {
		t.Errorf("expected all books replaced, got %d", got)
	}
}

func TestListing_Query(t *testing.T) {
	tests := []struct {
		query string
		want  []int
	}{
		{"dune", []int{1}},
		{"ORWELL", []int{2}},
		{"village", []int{3}},
		{"  ", []int{1, 2, 3}},
		{"zzz", nil},
	}

	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			var l Listing
			l.SetAll(testBooks())
			l.SetQuery(tc.query)

			visible := l.Visible()
			if len(visible) != len(tc.want) {
				t.Fatalf("expected %d books, got %d", len(tc.want), len(visible))
			}
			for i, id := range tc.want {
				if visible[i].ID != id {
					t.Errorf("position %d: expected id %d, got %d", i, id, visible[i].ID)
				}
			}
		})
	}
}

func TestListing_QueryFiltersRecommendation(t *testing.T) {
	var l Listing
	l.SetAll(testBooks())
	l.SetRecommendation([]client.Book{testBooks()[0], testBooks()[1]})
	l.SetQuery("emma")

	if got := len(l.Visible()); got != 0 {
		t.Errorf("expected query to filter within the recommendation, got %d", got)
	}
}
