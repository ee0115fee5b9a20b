package handlers

import (
	"context"

	"github.com/tbourn/go-talk-search/internal/domain"
	"github.com/tbourn/go-talk-search/internal/search"
	"github.com/tbourn/go-talk-search/internal/services"
)

// SearchService defines the search and lookup operations consumed by the
// HTTP handlers. Implementations must be safe for concurrent use and honor
// the context for cancellation.
type SearchService interface {
	// Search returns at most maxResults ranked talks (<= 0 selects the default).
	Search(ctx context.Context, query string, maxResults int) (services.SearchOutcome, error)
	// Get returns one talk by identifier.
	Get(ctx context.Context, id string) (domain.Talk, error)
	// ListPage returns a 1-based page of talks in corpus order and the total.
	ListPage(ctx context.Context, page, pageSize int) ([]domain.Talk, int, error)
}

// Limits bounds the query parameters accepted from clients.
type Limits struct {
	MaxResults      int // largest accepted ?limit=
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{MaxResults: 100, DefaultPageSize: 20, MaxPageSize: 100}
}

// Handlers groups the HTTP endpoints of the talk search API.
type Handlers struct {
	svc    SearchService
	limits Limits
}

// New returns Handlers bound to svc. Zero fields of limits take defaults.
func New(svc SearchService, limits Limits) *Handlers {
	def := DefaultLimits()
	if limits.MaxResults <= 0 {
		limits.MaxResults = def.MaxResults
	}
	if limits.DefaultPageSize <= 0 {
		limits.DefaultPageSize = def.DefaultPageSize
	}
	if limits.MaxPageSize <= 0 {
		limits.MaxPageSize = def.MaxPageSize
	}
	limits.DefaultPageSize = min(limits.DefaultPageSize, limits.MaxPageSize)
	return &Handlers{svc: svc, limits: limits}
}

//
// DTOs
//

// SearchResult is one ranked match.
type SearchResult struct {
	ID    string `json:"id" example:"1712"`
	Title string `json:"title" example:"Walking by Faith"`
	Date  string `json:"date" example:"2019-04-06"`
	// Empty when the talk has no link.
	URL string `json:"url" example:"https://example.org/talks/1712"`
	// Transcript sentences containing a query word, at most three.
	Passages []string `json:"passages"`
	Score    int      `json:"score" example:"21"`
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Query string `json:"query" example:"faith"`
	// Number of talks searched; 0 when the corpus is unavailable.
	CorpusSize int `json:"corpus_size" example:"952"`
	// False when the corpus could not be loaded; results are then empty.
	CorpusLoaded bool           `json:"corpus_loaded" example:"true"`
	Count        int            `json:"count" example:"10"`
	Results      []SearchResult `json:"results"`
}

// LegacyResult is one item of the bare array returned by GET /api.
type LegacyResult struct {
	Title string `json:"title" example:"Walking by Faith"`
	Date  string `json:"date" example:"2019-04-06"`
	URL   string `json:"url" example:"https://example.org/talks/1712"`
}

// TalkSummary describes a talk without its transcript.
type TalkSummary struct {
	ID            string `json:"id" example:"1712"`
	Title         string `json:"title" example:"Walking by Faith"`
	Date          string `json:"date" example:"2019-04-06"`
	URL           string `json:"url" example:"https://example.org/talks/1712"`
	HasTranscript bool   `json:"has_transcript" example:"true"`
}

// TalkDetail is a talk including its transcript.
type TalkDetail struct {
	TalkSummary
	Transcript string `json:"transcript"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

// ListTalksResponse wraps a page of talks and pagination information.
type ListTalksResponse struct {
	Talks      []TalkSummary `json:"talks"`
	Pagination Pagination    `json:"pagination"`
}

func toSearchResults(rs []search.Result) []SearchResult {
	out := make([]SearchResult, len(rs))
	for i, r := range rs {
		out[i] = SearchResult{
			ID:       r.ID,
			Title:    r.Title,
			Date:     r.Date,
			URL:      r.URL,
			Passages: r.Passages,
			Score:    r.Score,
		}
	}
	return out
}

func toSummary(t domain.Talk) TalkSummary {
	return TalkSummary{
		ID:            t.ID,
		Title:         t.Title,
		Date:          t.Date,
		URL:           t.URL,
		HasTranscript: t.HasTranscript(),
	}
}
