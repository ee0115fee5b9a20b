// Package corpus holds the immutable, in-memory collection of talks and the
// single-flight loader that builds it from an external record source.
//
// A Corpus is read-only after construction and safe for concurrent use
// without locking. The package never logs; callers decide what to report.
package corpus

import (
	"fmt"
	"slices"

	"github.com/tbourn/go-talk-search/internal/domain"
)

// Corpus is a fixed, ordered collection of talks with unique identifiers.
// The zero value and a nil *Corpus are both valid, empty corpora.
type Corpus struct {
	talks []domain.Talk
	byID  map[string]int
}

// New builds a Corpus from talks, preserving their order. The slice is copied.
// It fails with ErrDuplicateID when two talks share an identifier.
func New(talks []domain.Talk) (*Corpus, error) {
	c := &Corpus{
		talks: slices.Clone(talks),
		byID:  make(map[string]int, len(talks)),
	}
	for i, t := range c.talks {
		if prev, ok := c.byID[t.ID]; ok {
			return nil, fmt.Errorf("%w: %q at positions %d and %d", ErrDuplicateID, t.ID, prev, i)
		}
		c.byID[t.ID] = i
	}
	return c, nil
}

// Len returns the number of talks.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.talks)
}

// At returns the talk at position i in load order. It panics when i is out of
// range, like a slice index.
func (c *Corpus) At(i int) domain.Talk { return c.talks[i] }

// All returns a copy of the talks in load order.
func (c *Corpus) All() []domain.Talk {
	if c == nil {
		return nil
	}
	return slices.Clone(c.talks)
}

// Get returns the talk with the given identifier, or ErrNotFound.
func (c *Corpus) Get(id string) (domain.Talk, error) {
	if c != nil {
		if i, ok := c.byID[id]; ok {
			return c.talks[i], nil
		}
	}
	return domain.Talk{}, ErrNotFound
}

// Page returns the talks in [offset, offset+limit) in load order. Out of
// range windows yield an empty slice.
func (c *Corpus) Page(offset, limit int) []domain.Talk {
	n := c.Len()
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || offset >= n {
		return []domain.Talk{}
	}
	end := min(offset+limit, n)
	return slices.Clone(c.talks[offset:end])
}
