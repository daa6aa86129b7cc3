package service

import (
	"strings"
	"sync"
)

// SubmissionGate allows at most one in-flight submission per key. A key is
// built from the browser session and the form (and row, for per-row forms),
// so different visitors and different rows never block each other.
type SubmissionGate struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

func NewSubmissionGate() *SubmissionGate {
	return &SubmissionGate{pending: make(map[string]struct{})}
}

// TryAcquire claims key. When ok is false another submission holds it and
// the caller must not proceed. release must be called exactly once.
func (g *SubmissionGate) TryAcquire(parts ...string) (release func(), ok bool) {
	key := gateKey(parts)

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.pending[key]; busy {
		return func() {}, false
	}
	g.pending[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.pending, key)
			g.mu.Unlock()
		})
	}, true
}

// Pending reports whether key is currently held.
func (g *SubmissionGate) Pending(parts ...string) bool {
	key := gateKey(parts)
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.pending[key]
	return busy
}

func gateKey(parts []string) string {
	return strings.Join(parts, "\x00")
}
