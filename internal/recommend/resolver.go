// ABOUTME: Turns an AI advice response into the set of listed books to display
// ABOUTME: Prefers server-matched books, then a cached filter search, else an empty set

package recommend

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/swapbook/bookx/cli/internal/cache"
	"github.com/swapbook/bookx/cli/internal/client"
)

// DefaultSearchTTL is how long filter-search results are reused
const DefaultSearchTTL = 2 * time.Minute

// Source identifies which rule produced a Result
type Source int

const (
	SourceEmpty Source = iota
	SourceMatched
	SourceFilterSearch
)

func (s Source) String() string {
	switch s {
	case SourceMatched:
		return "matched"
	case SourceFilterSearch:
		return "filter-search"
	default:
		return "empty"
	}
}

// Result is the resolved recommendation. Err carries a swallowed search failure for logging.
type Result struct {
	Books  []client.Book
	Source Source
	Err    error
}

// Searcher is the subset of the API client the resolver needs
type Searcher interface {
	SearchBooks(ctx context.Context, params client.SearchParams) ([]client.Book, error)
}

// Resolver merges advice responses with the book listing
type Resolver struct {
	searcher Searcher
	cache    *cache.Cache[[]client.Book]
}

// NewResolver creates a resolver whose filter searches are cached for ttl
func NewResolver(searcher Searcher, ttl time.Duration) *Resolver {
	if ttl <= 0 {
		ttl = DefaultSearchTTL
	}
	return &Resolver{
		searcher: searcher,
		cache:    cache.New[[]client.Book](ttl),
	}
}

// Close stops the cache cleanup goroutine
func (r *Resolver) Close() {
	r.cache.Close()
}

// Invalidate drops cached search results, e.g. after a book was created
func (r *Resolver) Invalidate() {
	r.cache.Purge()
}

// Resolve applies the merge rules. It never falls back to the unfiltered listing.
func (r *Resolver) Resolve(ctx context.Context, advice *client.AdviceResponse) Result {
	if advice == nil {
		return Result{Source: SourceEmpty}
	}

	if len(advice.MatchedBooks) > 0 {
		return Result{Books: advice.MatchedBooks, Source: SourceMatched}
	}

	if advice.FilterQuery.IsEmpty() {
		return Result{Source: SourceEmpty}
	}

	key := filterKey(advice.FilterQuery)
	if books, ok := r.cache.Get(key); ok {
		return Result{Books: books, Source: SourceFilterSearch}
	}

	books, err := r.searcher.SearchBooks(ctx, client.SearchParams{
		Titles:  advice.FilterQuery.Titles,
		Authors: advice.FilterQuery.Authors,
	})
	if err != nil {
		slog.Warn("Filter search failed, showing no recommendations", "error", err)
		return Result{Source: SourceEmpty, Err: err}
	}

	r.cache.Set(key, books)
	return Result{Books: books, Source: SourceFilterSearch}
}

// filterKey normalizes a filter so equivalent queries share a cache entry
func filterKey(f client.FilterQuery) string {
	return "t:" + normalizeList(f.Titles) + "|a:" + normalizeList(f.Authors)
}

func normalizeList(values []string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return strings.Join(out, "\x1f")
}
