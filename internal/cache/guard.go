package cache

import "sync"

// RunGuard serializes pipeline runs per fingerprint so concurrent
// uploads of the same document pay for inference once. Entries are
// reference counted and reclaimed when the last holder releases.
type RunGuard struct {
	mu    sync.Mutex
	locks map[string]*guardEntry
}

type guardEntry struct {
	mu   sync.Mutex
	refs int
}

// NewRunGuard creates an empty guard table.
func NewRunGuard() *RunGuard {
	return &RunGuard{locks: make(map[string]*guardEntry)}
}

// Lock acquires the per-fingerprint mutex and returns its release
// function. Distinct fingerprints never block each other.
func (g *RunGuard) Lock(fingerprint string) func() {
	g.mu.Lock()
	entry, ok := g.locks[fingerprint]
	if !ok {
		entry = &guardEntry{}
		g.locks[fingerprint] = entry
	}
	entry.refs++
	g.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		g.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(g.locks, fingerprint)
		}
		g.mu.Unlock()
	}
}
