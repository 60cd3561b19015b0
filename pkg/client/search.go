package client

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// historyMax bounds the persisted search history.
	historyMax = 10
	// suggestDebounce is the quiet period before a suggestion request fires.
	suggestDebounce = 300 * time.Millisecond
	// suggestMinChars is the minimum query length for suggestions.
	suggestMinChars = 1
)

// Searcher drives room search. Every change to the query, page, sort, or
// filters goes through an explicit trigger method; responses are applied in
// issue order so a slow stale response never overwrites a newer one. On
// failure the previous results are kept and the error is reported alongside
// them.
type Searcher struct {
	client  *Client
	storage Storage
	logger  *slog.Logger

	mu      sync.Mutex
	params  SearchParams
	result  *SearchResult
	lastErr error
	applied uint64

	seq atomic.Uint64

	suggestMu    sync.Mutex
	suggestTimer *time.Timer
	suggestSeq   atomic.Uint64
}

// NewSearcher creates a searcher over the client and storage.
func NewSearcher(c *Client, storage Storage) *Searcher {
	return &Searcher{
		client:  c,
		storage: storage,
		logger:  c.logger,
		params:  SearchParams{Page: 1},
	}
}

// Params returns a copy of the current search parameters.
func (s *Searcher) Params() SearchParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// Results returns the last applied results and the error of the most recent
// trigger. After a failed trigger both are non-nil: the results are the last
// good page.
func (s *Searcher) Results() (*SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.lastErr
}

// HasResults reports whether the last applied result contains any rooms.
func (s *Searcher) HasResults() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result != nil && len(s.result.Rooms) > 0
}

// Search runs a new text search. The page resets to 1; other parameters are
// kept.
func (s *Searcher) Search(ctx context.Context, query string) (*SearchResult, error) {
	s.mu.Lock()
	s.params.Query = query
	s.params.Page = 1
	params := s.params
	s.mu.Unlock()
	return s.execute(ctx, params)
}

// ChangePage moves to another page of the current search. Only the page
// changes; query, sort, and filters are preserved.
func (s *Searcher) ChangePage(ctx context.Context, page int) (*SearchResult, error) {
	if page < 1 {
		page = 1
	}
	s.mu.Lock()
	s.params.Page = page
	params := s.params
	s.mu.Unlock()
	return s.execute(ctx, params)
}

// ChangeSort changes the sort column and order and resets to page 1.
func (s *Searcher) ChangeSort(ctx context.Context, sortBy, sortOrder string) (*SearchResult, error) {
	s.mu.Lock()
	s.params.SortBy = sortBy
	s.params.SortOrder = sortOrder
	s.params.Page = 1
	params := s.params
	s.mu.Unlock()
	return s.execute(ctx, params)
}

// Filters are the non-text search constraints.
type Filters struct {
	MinPrice string
	MaxPrice string
	Capacity int
	RoomType string
}

// ApplyFilters replaces the filters and resets to page 1.
func (s *Searcher) ApplyFilters(ctx context.Context, f Filters) (*SearchResult, error) {
	s.mu.Lock()
	s.params.MinPrice = f.MinPrice
	s.params.MaxPrice = f.MaxPrice
	s.params.Capacity = f.Capacity
	s.params.RoomType = f.RoomType
	s.params.Page = 1
	params := s.params
	s.mu.Unlock()
	return s.execute(ctx, params)
}

// execute issues the request under the next sequence number and applies the
// response only if no newer trigger has been applied meanwhile.
func (s *Searcher) execute(ctx context.Context, params SearchParams) (*SearchResult, error) {
	seq := s.seq.Add(1)

	result, err := s.client.SearchRooms(ctx, params)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.applied {
		// A newer trigger already applied its result; drop this one.
		return s.result, s.lastErr
	}
	s.applied = seq

	if err != nil {
		// Stale-while-error: keep the previous results visible.
		s.lastErr = err
		return s.result, err
	}

	s.result = result
	s.lastErr = nil

	if q := strings.TrimSpace(params.Query); q != "" {
		s.recordHistory(q)
	}
	return result, nil
}

// recordHistory pushes the query into the persisted history. Called with mu
// held.
func (s *Searcher) recordHistory(query string) {
	history, err := s.storage.GetHistory()
	if err != nil {
		s.logger.Warn("failed to read search history", "error", err)
		history = nil
	}
	if err := s.storage.SetHistory(pushHistory(history, query)); err != nil {
		s.logger.Warn("failed to persist search history", "error", err)
	}
}

// History returns the persisted search history, newest first.
func (s *Searcher) History() []string {
	history, err := s.storage.GetHistory()
	if err != nil {
		s.logger.Warn("failed to read search history", "error", err)
		return nil
	}
	return history
}

// pushHistory prepends query, removing an earlier duplicate and capping the
// list at historyMax entries.
func pushHistory(history []string, query string) []string {
	out := make([]string, 0, historyMax)
	out = append(out, query)
	for _, h := range history {
		if h == query {
			continue
		}
		out = append(out, h)
		if len(out) == historyMax {
			break
		}
	}
	return out
}

// Suggest requests name completions for the query after a debounce period.
// Rapid successive calls cancel earlier pending ones; only the latest call's
// result is delivered. Queries shorter than one character and request
// failures both deliver an empty slice, never an error.
func (s *Searcher) Suggest(ctx context.Context, query string, deliver func([]string)) {
	seq := s.suggestSeq.Add(1)

	s.suggestMu.Lock()
	if s.suggestTimer != nil {
		s.suggestTimer.Stop()
	}

	if len(strings.TrimSpace(query)) < suggestMinChars {
		s.suggestTimer = nil
		s.suggestMu.Unlock()
		deliver([]string{})
		return
	}

	s.suggestTimer = time.AfterFunc(suggestDebounce, func() {
		if seq != s.suggestSeq.Load() {
			return
		}
		suggestions, err := s.client.Suggestions(ctx, query, 0)
		if err != nil {
			s.logger.Debug("suggestions request failed", "error", err)
			suggestions = nil
		}
		if seq != s.suggestSeq.Load() {
			return
		}
		if suggestions == nil {
			suggestions = []string{}
		}
		deliver(suggestions)
	})
	s.suggestMu.Unlock()
}
