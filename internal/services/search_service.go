// Package services – SearchService
//
// This file implements SearchService, the application-level component that
// owns the talk corpus and the search engine built over it. It loads the
// corpus lazily (or eagerly at startup) through a single-flight loader,
// applies caller-facing limits, and degrades to empty results when the corpus
// cannot be loaded instead of failing the request.
//
// Observability: public methods are OpenTelemetry-instrumented; loads are
// logged once per read of the source and searches are counted by outcome.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-talk-search/internal/corpus"
	"github.com/tbourn/go-talk-search/internal/domain"
	"github.com/tbourn/go-talk-search/internal/search"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SearchOptions configures a SearchService.
type SearchOptions struct {
	// Limit keeps only the first Limit records of the source (0 = all).
	Limit int

	// DefaultMaxResults is used when the caller asks for <= 0 results.
	DefaultMaxResults int
	// MaxResultsCap bounds the result count a caller may ask for (0 = no cap).
	MaxResultsCap int
	// MaxQueryRunes rejects longer queries with ErrQueryTooLong (0 = no limit).
	MaxQueryRunes int

	// Engine options are passed to search.New for every built engine.
	Engine []search.Option
}

// SearchOutcome is the result of one search as seen by transports.
type SearchOutcome struct {
	Query   string
	Tokens  []string
	Results []search.Result // never nil
	// CorpusSize is 0 when the corpus is unavailable.
	CorpusSize int
	// CorpusLoaded tells "no corpus" apart from "no match".
	CorpusLoaded bool
}

// SearchService coordinates corpus loading and keyword search.
// It is safe for concurrent use.
type SearchService struct {
	loader *corpus.Loader
	opts   SearchOptions
	engine atomic.Pointer[search.Engine]
}

// NewSearchService returns a service reading talks from src. Nothing is read
// until the first call that needs the corpus (or an explicit EnsureLoaded).
func NewSearchService(src corpus.Source, opts SearchOptions) *SearchService {
	if opts.DefaultMaxResults <= 0 {
		opts.DefaultMaxResults = search.DefaultMaxResults
	}
	return &SearchService{
		loader: corpus.NewLoader(src,
			corpus.WithLimit(opts.Limit),
			corpus.WithObserver(logLoad),
		),
		opts: opts,
	}
}

// logLoad reports one read of the corpus source.
func logLoad(ev corpus.LoadEvent) {
	if ev.Err != nil {
		corpusLoadFailures.Inc()
		log.Error().
			Err(ev.Err).
			Str("source", ev.Source).
			Dur("took", ev.Duration).
			Msg("corpus load failed")
		return
	}
	corpusTalks.Set(float64(ev.Talks))
	log.Info().
		Str("source", ev.Source).
		Int("talks", ev.Talks).
		Dur("took", ev.Duration).
		Msg("corpus loaded")
}

// EnsureLoaded loads the corpus if no load has succeeded yet. It is
// idempotent and concurrent callers share a single read. Errors match
// corpus.ErrLoad; a later call retries.
func (s *SearchService) EnsureLoaded(ctx context.Context) error {
	tr := otel.Tracer("services/SearchService")
	ctx, span := tr.Start(ctx, "EnsureLoaded",
		trace.WithAttributes(attribute.String("corpus.source", s.loader.SourceName())),
	)
	defer span.End()

	if _, err := s.current(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "corpus load failed")
		return err
	}
	return nil
}

// current returns the engine for the loaded corpus, loading it when needed.
func (s *SearchService) current(ctx context.Context) (*search.Engine, error) {
	if e := s.engine.Load(); e != nil {
		return e, nil
	}
	c, err := s.loader.EnsureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	e := search.New(c, s.opts.Engine...)
	if !s.engine.CompareAndSwap(nil, e) {
		return s.engine.Load(), nil
	}
	return e, nil
}

// Search runs query against the corpus and returns at most maxResults
// results, best first. maxResults <= 0 selects the configured default and
// values above the cap are clamped.
//
// The only error is ErrQueryTooLong. An unavailable corpus yields an empty
// outcome with CorpusLoaded=false.
func (s *SearchService) Search(ctx context.Context, query string, maxResults int) (SearchOutcome, error) {
	tr := otel.Tracer("services/SearchService")
	ctx, span := tr.Start(ctx, "Search",
		trace.WithAttributes(
			attribute.Int("query.runes", utf8.RuneCountInString(query)),
			attribute.Int("search.max_results", maxResults),
		),
	)
	defer span.End()

	out := SearchOutcome{Query: query, Tokens: []string{}, Results: []search.Result{}}

	if s.opts.MaxQueryRunes > 0 && utf8.RuneCountInString(query) > s.opts.MaxQueryRunes {
		searchesTotal.WithLabelValues(outcomeRejected).Inc()
		return out, ErrQueryTooLong
	}
	maxResults = s.clampResults(maxResults)

	eng, err := s.current(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("corpus.loaded", false))
		searchesTotal.WithLabelValues(outcomeNoCorpus).Inc()
		return out, nil
	}

	start := time.Now()
	resp := eng.Search(query, maxResults)
	searchDuration.Observe(time.Since(start).Seconds())

	out.Tokens = resp.Tokens
	out.Results = resp.Results
	out.CorpusSize = resp.CorpusSize
	out.CorpusLoaded = true

	switch {
	case len(resp.Tokens) == 0:
		searchesTotal.WithLabelValues(outcomeNoTokens).Inc()
	case len(resp.Results) == 0:
		searchesTotal.WithLabelValues(outcomeMiss).Inc()
	default:
		searchesTotal.WithLabelValues(outcomeHit).Inc()
	}
	span.SetAttributes(
		attribute.Int("search.tokens", len(resp.Tokens)),
		attribute.Int("search.results", len(resp.Results)),
	)
	return out, nil
}

func (s *SearchService) clampResults(n int) int {
	if n <= 0 {
		n = s.opts.DefaultMaxResults
	}
	if s.opts.MaxResultsCap > 0 && n > s.opts.MaxResultsCap {
		n = s.opts.MaxResultsCap
	}
	return n
}

// Get returns the talk with the given identifier.
// It fails with ErrTalkNotFound or, when the corpus cannot be loaded, with
// an error matching both ErrCorpusUnavailable and corpus.ErrLoad.
func (s *SearchService) Get(ctx context.Context, id string) (domain.Talk, error) {
	tr := otel.Tracer("services/SearchService")
	ctx, span := tr.Start(ctx, "Get", trace.WithAttributes(attribute.String("talk.id", id)))
	defer span.End()

	eng, err := s.current(ctx)
	if err != nil {
		span.RecordError(err)
		return domain.Talk{}, fmt.Errorf("%w: %w", ErrCorpusUnavailable, err)
	}
	t, err := eng.Corpus().Get(id)
	if errors.Is(err, corpus.ErrNotFound) {
		return domain.Talk{}, ErrTalkNotFound
	}
	return t, err
}

// ListPage returns one page of talks in corpus order together with the total
// number of talks. page is 1-based; out of range pages are empty.
func (s *SearchService) ListPage(ctx context.Context, page, pageSize int) ([]domain.Talk, int, error) {
	tr := otel.Tracer("services/SearchService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	eng, err := s.current(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("%w: %w", ErrCorpusUnavailable, err)
	}
	c := eng.Corpus()
	return c.Page((page-1)*pageSize, pageSize), c.Len(), nil
}

// Ready reports whether the corpus has been loaded.
func (s *SearchService) Ready() bool { return s.engine.Load() != nil }

// CorpusSize returns the number of loaded talks, or 0 before the first
// successful load.
func (s *SearchService) CorpusSize() int {
	if e := s.engine.Load(); e != nil {
		return e.Corpus().Len()
	}
	return 0
}

// SourceName identifies where talks are read from.
func (s *SearchService) SourceName() string { return s.loader.SourceName() }
