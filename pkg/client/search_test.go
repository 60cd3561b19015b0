package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// searchEcho serves /api/search/rooms, answering every query with a single
// room named after the q parameter so tests can tell responses apart.
func searchEcho(hook func(r *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if hook != nil {
			hook(r)
		}
		q := r.URL.Query().Get("q")
		json.NewEncoder(w).Encode(SearchResult{
			Rooms:      []Room{{ID: "r1", Name: q}},
			Pagination: Pagination{Page: 1, TotalPages: 1, Total: 1},
			Filters:    map[string]string{},
		})
	}
}

func TestSearcher_StaleResponseNeverOverwritesNewer(t *testing.T) {
	slowArrived := make(chan struct{})
	releaseSlow := make(chan struct{})

	srv := httptest.NewServer(searchEcho(func(r *http.Request) {
		if r.URL.Query().Get("q") == "slow" {
			close(slowArrived)
			<-releaseSlow
		}
	}))
	defer srv.Close()

	s := NewSearcher(New(WithBaseURL(srv.URL)), NewMemoryStorage())

	slowDone := make(chan struct{})
	go func() {
		s.Search(context.Background(), "slow")
		close(slowDone)
	}()

	// Issue a newer search while the first is still in flight.
	<-slowArrived
	result, err := s.Search(context.Background(), "fast")
	assert.NoError(t, err)
	assert.Equal(t, "fast", result.Rooms[0].Name)

	// Let the stale response come back; it must be dropped.
	close(releaseSlow)
	<-slowDone

	final, err := s.Results()
	assert.NoError(t, err)
	assert.Equal(t, "fast", final.Rooms[0].Name)
}

func TestSearcher_ChangePagePreservesOtherParams(t *testing.T) {
	var lastQuery atomic.Value
	srv := httptest.NewServer(searchEcho(func(r *http.Request) {
		lastQuery.Store(r.URL.Query())
	}))
	defer srv.Close()

	s := NewSearcher(New(WithBaseURL(srv.URL)), NewMemoryStorage())

	_, err := s.Search(context.Background(), "phòng đôi")
	assert.NoError(t, err)
	_, err = s.ApplyFilters(context.Background(), Filters{MinPrice: "300000", Capacity: 2})
	assert.NoError(t, err)
	_, err = s.ChangeSort(context.Background(), "price", "asc")
	assert.NoError(t, err)

	_, err = s.ChangePage(context.Background(), 3)
	assert.NoError(t, err)

	q := lastQuery.Load().(url.Values)
	assert.Equal(t, "phòng đôi", q.Get("q"))
	assert.Equal(t, "3", q.Get("page"))
	assert.Equal(t, "300000", q.Get("min_price"))
	assert.Equal(t, "2", q.Get("capacity"))
	assert.Equal(t, "price", q.Get("sort_by"))
	assert.Equal(t, "asc", q.Get("sort_order"))
}

func TestSearcher_SortAndFilterChangesResetPage(t *testing.T) {
	srv := httptest.NewServer(searchEcho(nil))
	defer srv.Close()

	s := NewSearcher(New(WithBaseURL(srv.URL)), NewMemoryStorage())

	_, err := s.Search(context.Background(), "phòng")
	assert.NoError(t, err)
	_, err = s.ChangePage(context.Background(), 4)
	assert.NoError(t, err)
	assert.Equal(t, 4, s.Params().Page)

	_, err = s.ChangeSort(context.Background(), "price", "desc")
	assert.NoError(t, err)
	assert.Equal(t, 1, s.Params().Page)

	_, err = s.ChangePage(context.Background(), 2)
	assert.NoError(t, err)
	_, err = s.ApplyFilters(context.Background(), Filters{RoomType: "double"})
	assert.NoError(t, err)
	assert.Equal(t, 1, s.Params().Page)
}

func TestSearcher_StaleWhileError(t *testing.T) {
	var failing atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		searchEcho(nil)(w, r)
	}))
	defer srv.Close()

	s := NewSearcher(New(WithBaseURL(srv.URL), WithMaxRetries(0)), NewMemoryStorage())

	_, err := s.Search(context.Background(), "phòng đôi")
	assert.NoError(t, err)
	assert.True(t, s.HasResults())

	failing.Store(true)
	_, err = s.Search(context.Background(), "phòng đơn")
	assert.Error(t, err)

	// The previous results stay visible alongside the error.
	result, lastErr := s.Results()
	assert.Error(t, lastErr)
	assert.NotNil(t, result)
	assert.Equal(t, "phòng đôi", result.Rooms[0].Name)
}

func TestSearcher_HistoryRecordsSuccessfulQueries(t *testing.T) {
	srv := httptest.NewServer(searchEcho(nil))
	defer srv.Close()

	storage := NewMemoryStorage()
	s := NewSearcher(New(WithBaseURL(srv.URL)), storage)

	_, err := s.Search(context.Background(), "phòng đơn")
	assert.NoError(t, err)
	_, err = s.Search(context.Background(), "phòng đôi")
	assert.NoError(t, err)

	history := s.History()
	assert.Equal(t, []string{"phòng đôi", "phòng đơn"}, history)

	// Repeating a query moves it to the front instead of duplicating it.
	_, err = s.Search(context.Background(), "phòng đơn")
	assert.NoError(t, err)
	assert.Equal(t, []string{"phòng đơn", "phòng đôi"}, s.History())

	// Empty queries and page changes are not recorded.
	_, err = s.Search(context.Background(), "  ")
	assert.NoError(t, err)
	_, err = s.ChangePage(context.Background(), 2)
	assert.NoError(t, err)
	assert.Len(t, s.History(), 2)
}

func TestPushHistoryBounds(t *testing.T) {
	var history []string
	for i := 0; i < 15; i++ {
		history = pushHistory(history, fmt.Sprintf("query-%d", i))
	}
	assert.Len(t, history, historyMax)
	assert.Equal(t, "query-14", history[0])

	history = pushHistory(history, "query-10")
	assert.Len(t, history, historyMax)
	assert.Equal(t, "query-10", history[0])
}

func TestSearcher_SuggestDebounce(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(map[string][]string{
			"suggestions": {r.URL.Query().Get("q") + " match"},
		})
	}))
	defer srv.Close()

	s := NewSearcher(New(WithBaseURL(srv.URL)), NewMemoryStorage())

	delivered := make(chan []string, 2)
	deliver := func(suggestions []string) { delivered <- suggestions }

	// Rapid typing: only the last keystroke's request should fire.
	s.Suggest(context.Background(), "p", deliver)
	s.Suggest(context.Background(), "ph", deliver)
	s.Suggest(context.Background(), "phò", deliver)

	select {
	case suggestions := <-delivered:
		assert.Equal(t, []string{"phò match"}, suggestions)
	case <-time.After(2 * time.Second):
		t.Fatal("suggestion never delivered")
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestSearcher_SuggestShortQueryDeliversEmpty(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	s := NewSearcher(New(WithBaseURL(srv.URL)), NewMemoryStorage())

	delivered := make(chan []string, 1)
	s.Suggest(context.Background(), "  ", func(suggestions []string) { delivered <- suggestions })

	select {
	case suggestions := <-delivered:
		assert.Empty(t, suggestions)
	case <-time.After(time.Second):
		t.Fatal("empty delivery expected immediately")
	}
	assert.Equal(t, int32(0), calls.Load())
}

func TestSearcher_SuggestFailuresAreSilent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewSearcher(New(WithBaseURL(srv.URL), WithMaxRetries(0)), NewMemoryStorage())

	delivered := make(chan []string, 1)
	s.Suggest(context.Background(), "phòng", func(suggestions []string) { delivered <- suggestions })

	select {
	case suggestions := <-delivered:
		assert.Equal(t, []string{}, suggestions)
	case <-time.After(2 * time.Second):
		t.Fatal("suggestion never delivered")
	}
}
