// Package search provides a deterministic, concurrency-safe keyword search
// engine over an immutable talk corpus.
//
//   - No logging in the library (callers decide how/what to log)
//   - Functional options for weights and limits (Option pattern)
//   - Unicode-aware lowercasing; tokens are whitespace separated query words
//     longer than three characters
//   - Read-only after construction (safe for concurrent use)
//   - Deterministic ranking: descending score, ties keep corpus order
//
// Scoring sums, over every query token, ten times its occurrences in the
// title plus its occurrences in the transcript. Occurrences are substring
// matches, so "faith" also counts inside "faithful". This favours recall over
// precision and is kept on purpose.
package search

import (
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/go-talk-search/internal/corpus"
)

// DefaultMaxResults is used when Search is called with maxResults <= 0.
const DefaultMaxResults = 10

// Result is one ranked match. Title, Date and URL alias the corpus strings;
// nothing is copied out of the corpus.
type Result struct {
	// Position is the talk's index in corpus load order.
	Position int
	ID       string
	Title    string
	Date     string
	URL      string
	// Passages are transcript sentences containing a query token, in
	// transcript order. Never nil.
	Passages []string
	Score    int
}

// Response is the outcome of one Search call. CorpusSize lets callers tell an
// empty corpus apart from a query that matched nothing.
type Response struct {
	Tokens     []string
	Results    []Result
	CorpusSize int
}

// ----------------------------------------------------------------------------
// Options

type Option func(*config)

type config struct {
	titleWeight       int
	minTokenRunes     int
	maxPassages       int
	defaultMaxResults int
}

func defaultConfig() config {
	return config{
		titleWeight:       10,
		minTokenRunes:     4,
		maxPassages:       3,
		defaultMaxResults: DefaultMaxResults,
	}
}

// WithTitleWeight sets how much a title occurrence counts relative to a
// transcript occurrence.
func WithTitleWeight(w int) Option {
	return func(c *config) {
		if w > 0 {
			c.titleWeight = w
		}
	}
}

// WithMinTokenRunes sets the shortest query word, in runes, kept as a token.
func WithMinTokenRunes(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.minTokenRunes = n
		}
	}
}

// WithMaxPassages caps the passages extracted per result.
func WithMaxPassages(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.maxPassages = n
		}
	}
}

// WithDefaultMaxResults sets the result count used when Search gets maxResults <= 0.
func WithDefaultMaxResults(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.defaultMaxResults = n
		}
	}
}

// ----------------------------------------------------------------------------
// Implementation

// doc caches the lowercased searchable fields of one talk.
type doc struct {
	title      string
	transcript string
}

// Engine scores queries against one corpus. Build it once per loaded corpus.
type Engine struct {
	cfg    config
	corpus *corpus.Corpus
	docs   []doc
}

// New builds an Engine over c. A nil corpus behaves as an empty one.
func New(c *corpus.Corpus, opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	lower := cases.Lower(language.Und)
	docs := make([]doc, c.Len())
	for i := range docs {
		t := c.At(i)
		docs[i] = doc{
			title:      lower.String(t.Title),
			transcript: lower.String(t.Transcript),
		}
	}
	return &Engine{cfg: cfg, corpus: c, docs: docs}
}

// Corpus returns the corpus the engine was built over.
func (e *Engine) Corpus() *corpus.Corpus { return e.corpus }

// Search returns up to maxResults talks matching query, best first.
// A query without tokens, or an empty corpus, yields no results and no error.
func (e *Engine) Search(query string, maxResults int) Response {
	// A Caser is stateful, so every call gets its own.
	lower := cases.Lower(language.Und)
	tokens := tokenize(query, e.cfg.minTokenRunes, lower)
	resp := Response{Tokens: tokens, Results: []Result{}, CorpusSize: len(e.docs)}
	if len(tokens) == 0 || len(e.docs) == 0 {
		return resp
	}
	if maxResults <= 0 {
		maxResults = e.cfg.defaultMaxResults
	}
	maxResults = min(maxResults, len(e.docs))

	type scored struct {
		pos   int
		score int
	}
	buf := make([]scored, 0, min(4*maxResults, len(e.docs)))
	for i, d := range e.docs {
		if s := score(d, tokens, e.cfg.titleWeight); s > 0 {
			buf = append(buf, scored{pos: i, score: s})
		}
	}
	if len(buf) == 0 {
		return resp
	}

	// buf is in corpus order, so a stable sort breaks ties by load order.
	sort.SliceStable(buf, func(a, b int) bool {
		return buf[a].score > buf[b].score
	})

	if maxResults > len(buf) {
		maxResults = len(buf)
	}
	out := make([]Result, maxResults)
	for i, s := range buf[:maxResults] {
		t := e.corpus.At(s.pos)
		out[i] = Result{
			Position: s.pos,
			ID:       t.ID,
			Title:    t.Title,
			Date:     t.Date,
			URL:      t.URL,
			Passages: extractPassages(t.Transcript, tokens, e.cfg.maxPassages, lower),
			Score:    s.score,
		}
	}
	resp.Results = out
	return resp
}
