package testutil

import (
	"fmt"
	"sync"
)

// SequentialRevisions hands out predictable revision ids ("rev-0001",
// "rev-0002", ...) in place of random UUIDs, so stored rows compare exactly.
//
// Safe for concurrent use.
type SequentialRevisions struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialRevisions returns a generator using prefix. An empty prefix
// defaults to "rev".
func NewSequentialRevisions(prefix string) *SequentialRevisions {
	if prefix == "" {
		prefix = "rev"
	}
	return &SequentialRevisions{prefix: prefix}
}

// Generate returns the next revision id.
func (g *SequentialRevisions) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}
