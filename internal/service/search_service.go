package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"homestay/internal/auth"
	"homestay/internal/model"
	"homestay/internal/repository"
)

// Pagination is the standard page envelope.
type Pagination struct {
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
	Total      int64 `json:"total"`
}

// SearchResult is the outcome of a room search. Filters are echoed back so
// clients can render the applied state without tracking it separately.
type SearchResult struct {
	Rooms      []model.Room      `json:"rooms"`
	Pagination Pagination        `json:"pagination"`
	Filters    map[string]string `json:"filters"`
	SearchInfo SearchInfo        `json:"search"`
}

// SearchInfo carries metadata about the executed search.
type SearchInfo struct {
	LogID string `json:"log_id"`
}

// SearchService handles room search, suggestions, and per-user history.
type SearchService interface {
	SearchRooms(ctx context.Context, userID *uuid.UUID, params repository.RoomSearchParams, filters map[string]string) (*SearchResult, error)
	Suggestions(ctx context.Context, query string, limit int) []string
	History(ctx context.Context, userID uuid.UUID) ([]string, error)
	Close()
}

type searchService struct {
	roomRepo     repository.RoomRepository
	searchLogs   repository.SearchLogRepository
	sessionStore auth.SessionStoreInterface
	// Channel for async search logging
	logChannel chan model.SearchLog
	done       chan struct{}
}

// NewSearchService creates a new search service and starts its log worker.
func NewSearchService(
	roomRepo repository.RoomRepository,
	searchLogs repository.SearchLogRepository,
	sessionStore auth.SessionStoreInterface,
) SearchService {
	service := &searchService{
		roomRepo:     roomRepo,
		searchLogs:   searchLogs,
		sessionStore: sessionStore,
		logChannel:   make(chan model.SearchLog, 100),
		done:         make(chan struct{}),
	}

	go service.logWorker(context.Background())

	return service
}

// logWorker persists search logs asynchronously in batches.
func (s *searchService) logWorker(ctx context.Context) {
	batch := make([]model.SearchLog, 0, 10)
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case log, ok := <-s.logChannel:
			if !ok {
				if len(batch) > 0 {
					_ = s.searchLogs.CreateBatch(ctx, batch)
				}
				close(s.done)
				return
			}
			batch = append(batch, log)
			if len(batch) >= 10 {
				_ = s.searchLogs.CreateBatch(ctx, batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				_ = s.searchLogs.CreateBatch(ctx, batch)
				batch = batch[:0]
			}
		case <-ctx.Done():
			return
		}
	}
}

// Close flushes pending search logs.
func (s *searchService) Close() {
	close(s.logChannel)
	select {
	case <-s.done:
	case <-time.After(2 * time.Second):
	}
}

// SearchRooms executes a search and returns results with pagination. A
// successful non-empty query is pushed to the caller's search history, and
// the search itself is logged asynchronously.
func (s *searchService) SearchRooms(ctx context.Context, userID *uuid.UUID, params repository.RoomSearchParams, filters map[string]string) (*SearchResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 10
	}

	rooms, total, err := s.roomRepo.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(params.Limit) - 1) / int64(params.Limit))

	logID := uuid.New()
	s.logSearch(ctx, logID, userID, params, filters, len(rooms))

	if userID != nil && params.Query != "" {
		_ = s.sessionStore.PushSearchHistory(ctx, *userID, params.Query)
	}

	if filters == nil {
		filters = map[string]string{}
	}

	return &SearchResult{
		Rooms: rooms,
		Pagination: Pagination{
			Page:       params.Page,
			TotalPages: totalPages,
			Total:      total,
		},
		Filters:    filters,
		SearchInfo: SearchInfo{LogID: logID.String()},
	}, nil
}

// Suggestions returns room name completions for a query. Failures degrade to
// an empty list; they never surface to the caller.
func (s *searchService) Suggestions(ctx context.Context, query string, limit int) []string {
	if len(query) < 1 {
		return []string{}
	}
	if limit < 1 || limit > 20 {
		limit = 5
	}
	names, err := s.roomRepo.Suggestions(ctx, query, limit)
	if err != nil || names == nil {
		return []string{}
	}
	return names
}

// History returns the user's recent search queries, most recent first.
func (s *searchService) History(ctx context.Context, userID uuid.UUID) ([]string, error) {
	history, err := s.sessionStore.GetSearchHistory(ctx, userID)
	if err != nil || history == nil {
		return []string{}, nil
	}
	return history, nil
}

// logSearch enqueues a search log entry without blocking the request path.
func (s *searchService) logSearch(ctx context.Context, logID uuid.UUID, userID *uuid.UUID, params repository.RoomSearchParams, filters map[string]string, results int) {
	encoded, _ := json.Marshal(filters)
	log := model.SearchLog{
		ID:      logID,
		Query:   params.Query,
		Filters: string(encoded),
		UserID:  userID,
		Results: results,
	}

	select {
	case s.logChannel <- log:
	default:
		// Channel full, log synchronously as fallback
		_ = s.searchLogs.Create(ctx, &log)
	}
}
