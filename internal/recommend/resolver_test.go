// ABOUTME: Tests for the advice-to-listing merge rules
// ABOUTME: Uses a fake searcher to count and control search calls

package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/swapbook/bookx/cli/internal/client"
)

type fakeSearcher struct {
	books  []client.Book
	err    error
	calls  int
	params client.SearchParams
}

func (f *fakeSearcher) SearchBooks(ctx context.Context, params client.SearchParams) ([]client.Book, error) {
	f.calls++
	f.params = params
	return f.books, f.err
}

func newTestResolver(t *testing.T, s Searcher) *Resolver {
	t.Helper()
	r := NewResolver(s, 0)
	t.Cleanup(r.Close)
	return r
}

func advice(matched []client.Book, filter client.FilterQuery) *client.AdviceResponse {
	return &client.AdviceResponse{
		AI:           &client.AIAdvice{},
		MatchedBooks: matched,
		FilterQuery:  filter,
	}
}

func TestResolve_MatchedBooksWin(t *testing.T) {
	s := &fakeSearcher{books: []client.Book{{ID: 99, Title: "Other"}}}
	r := newTestResolver(t, s)

	matched := []client.Book{{ID: 1, Title: "Dune"}, {ID: 2, Title: "1984"}}
	res := r.Resolve(context.Background(), advice(matched, client.FilterQuery{Titles: []string{"X"}}))

	if res.Source != SourceMatched {
		t.Errorf("expected matched source, got %s", res.Source)
	}
	if len(res.Books) != 2 || res.Books[0].ID != 1 || res.Books[1].ID != 2 {
		t.Errorf("expected exactly the matched books, got %+v", res.Books)
	}
	if s.calls != 0 {
		t.Errorf("expected no search, got %d calls", s.calls)
	}
}

func TestResolve_FilterSearch(t *testing.T) {
	s := &fakeSearcher{books: []client.Book{{ID: 5, Title: "Dune"}}}
	r := newTestResolver(t, s)

	res := r.Resolve(context.Background(), advice(nil, client.FilterQuery{Titles: []string{"Dune"}, Authors: []string{"Herbert"}}))

	if res.Source != SourceFilterSearch {
		t.Errorf("expected filter-search source, got %s", res.Source)
	}
	if len(res.Books) != 1 || res.Books[0].ID != 5 {
		t.Errorf("expected search result, got %+v", res.Books)
	}
	if len(s.params.Titles) != 1 || s.params.Authors[0] != "Herbert" {
		t.Errorf("expected filter passed to search, got %+v", s.params)
	}
}

func TestResolve_FilterSearchCached(t *testing.T) {
	s := &fakeSearcher{books: []client.Book{{ID: 5, Title: "Dune"}}}
	r := newTestResolver(t, s)

	r.Resolve(context.Background(), advice(nil, client.FilterQuery{Titles: []string{"Dune", "1984"}}))
	r.Resolve(context.Background(), advice(nil, client.FilterQuery{Titles: []string{" 1984", "dune"}}))

	if s.calls != 1 {
		t.Errorf("expected equivalent filters to share one search, got %d calls", s.calls)
	}

	r.Invalidate()
	r.Resolve(context.Background(), advice(nil, client.FilterQuery{Titles: []string{"Dune", "1984"}}))
	if s.calls != 2 {
		t.Errorf("expected search after invalidate, got %d calls", s.calls)
	}
}

func TestResolve_SearchFailureIsEmpty(t *testing.T) {
	s := &fakeSearcher{err: errors.New("boom")}
	r := newTestResolver(t, s)

	res := r.Resolve(context.Background(), advice(nil, client.FilterQuery{Authors: []string{"Banks"}}))

	if res.Source != SourceEmpty {
		t.Errorf("expected empty source, got %s", res.Source)
	}
	if len(res.Books) != 0 {
		t.Errorf("expected no books, got %+v", res.Books)
	}
	if res.Err == nil {
		t.Error("expected search error to be reported")
	}
}

func TestResolve_NothingIsEmpty(t *testing.T) {
	s := &fakeSearcher{}
	r := newTestResolver(t, s)

	res := r.Resolve(context.Background(), advice(nil, client.FilterQuery{}))
	if res.Source != SourceEmpty || len(res.Books) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
	if s.calls != 0 {
		t.Errorf("expected no search, got %d calls", s.calls)
	}

	if res := r.Resolve(context.Background(), nil); res.Source != SourceEmpty {
		t.Errorf("expected empty result for nil advice, got %s", res.Source)
	}
}
