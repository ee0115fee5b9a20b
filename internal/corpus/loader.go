package corpus

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tbourn/go-talk-search/internal/domain"
)

// Source yields the raw record sequence of a corpus. Implementations must
// return records in a stable order and report unreadable or malformed input
// as an error.
type Source interface {
	// Name identifies the source in errors and logs (e.g. "json:data/talks.json.gz").
	Name() string
	// Load reads every record. It is called at most once per successful load.
	Load(ctx context.Context) ([]domain.Talk, error)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLimit keeps only the first n records of the source. n <= 0 keeps all.
func WithLimit(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.limit = n
		}
	}
}

// LoadEvent describes one completed read of the source.
type LoadEvent struct {
	Source   string
	Talks    int // records kept after the limit; 0 on failure
	Duration time.Duration
	Err      error // nil on success, otherwise a *LoadError
}

// WithObserver registers fn to be called once after every read of the
// source, from the goroutine that performed it.
func WithObserver(fn func(LoadEvent)) LoaderOption {
	return func(l *Loader) { l.observe = fn }
}

// Loader memoizes the corpus read from a Source.
//
//   - Concurrent first calls share one read of the source (single-flight) and
//     all observe the same *Corpus or the same error.
//   - A successful load is kept for the lifetime of the Loader.
//   - A failed load is not kept: the next call reads the source again.
type Loader struct {
	src     Source
	limit   int
	observe func(LoadEvent)

	group singleflight.Group
	cur   atomic.Pointer[Corpus]
	reads atomic.Int64
}

// NewLoader returns a Loader for src.
func NewLoader(src Source, opts ...LoaderOption) *Loader {
	l := &Loader{src: src}
	for _, o := range opts {
		o(l)
	}
	return l
}

// SourceName returns the name of the underlying source.
func (l *Loader) SourceName() string { return l.src.Name() }

// EnsureLoaded returns the loaded corpus, reading the source if no load has
// succeeded yet. Errors are *LoadError values.
func (l *Loader) EnsureLoaded(ctx context.Context) (*Corpus, error) {
	if c := l.cur.Load(); c != nil {
		return c, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, asLoadError(l.src.Name(), err)
	}
	// The shared read outlives any one caller; each caller stops waiting
	// when its own ctx is done.
	readCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan("corpus", func() (any, error) {
		// A call that was queued behind a finished flight must not re-read.
		if c := l.cur.Load(); c != nil {
			return c, nil
		}
		l.reads.Add(1)
		start := time.Now()
		c, err := l.read(readCtx)
		if l.observe != nil {
			l.observe(LoadEvent{Source: l.src.Name(), Talks: c.Len(), Duration: time.Since(start), Err: err})
		}
		if err != nil {
			return nil, err
		}
		l.cur.Store(c)
		return c, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Corpus), nil
	case <-ctx.Done():
		return nil, asLoadError(l.src.Name(), ctx.Err())
	}
}

func (l *Loader) read(ctx context.Context) (*Corpus, error) {
	talks, err := l.src.Load(ctx)
	if err != nil {
		return nil, asLoadError(l.src.Name(), err)
	}
	if l.limit > 0 && len(talks) > l.limit {
		talks = talks[:l.limit]
	}
	c, err := New(talks)
	if err != nil {
		return nil, asLoadError(l.src.Name(), err)
	}
	return c, nil
}

// Current returns the loaded corpus, or nil when no load has succeeded.
func (l *Loader) Current() *Corpus { return l.cur.Load() }

// Reads returns how many times the source has been read.
func (l *Loader) Reads() int64 { return l.reads.Load() }
