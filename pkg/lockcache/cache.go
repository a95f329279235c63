// Package lockcache is the in-memory LFS lock cache (component C2): a
// path-keyed view of the locks the remote LFS lock service currently
// reports, periodically reconciled with `git lfs locks --verify`.
package lockcache

import (
	"context"
	"sync"

	"github.com/ethos-core/ethos-core/pkg/gitcli"
)

// Entry is the cached state for one locked path.
type Entry struct {
	Lock gitcli.Lock
	Ours bool
}

// Verifier is the subset of *gitcli.Driver the cache needs, so tests can
// substitute a fake.
type Verifier interface {
	VerifyLocks(ctx context.Context) (*gitcli.LockVerifyResult, error)
}

// Cache holds the authoritative local view of LFS locks for one configured
// repo path. It never persists across restarts.
type Cache struct {
	mu   sync.RWMutex
	data map[string]Entry

	verifierMu sync.RWMutex
	verifier   Verifier
	repoPath   string
}

// New constructs an empty Cache bound to verifier.
func New(verifier Verifier) *Cache {
	return &Cache{data: make(map[string]Entry), verifier: verifier}
}

// SetRepoPath records which repo path this cache serves. It does not by
// itself trigger a reconcile.
func (c *Cache) SetRepoPath(path string) {
	c.verifierMu.Lock()
	defer c.verifierMu.Unlock()
	c.repoPath = path
}

// RepoPath returns the repo path set via SetRepoPath.
func (c *Cache) RepoPath() string {
	c.verifierMu.RLock()
	defer c.verifierMu.RUnlock()
	return c.repoPath
}

// Insert adds or overwrites the entry for path.
func (c *Cache) Insert(path string, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[path] = e
}

// Get returns the entry for path, if any.
func (c *Cache) Get(path string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.data[path]
	return e, ok
}

// Remove deletes the entry for path, if present.
func (c *Cache) Remove(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, path)
}

// Snapshot returns a copy of the entire cache, split into ours/theirs, for
// callers (e.g. the status computer) that need the full picture.
func (c *Cache) Snapshot() (ours, theirs []Entry) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, e := range c.data {
		if e.Ours {
			ours = append(ours, e)
		} else {
			theirs = append(theirs, e)
		}
	}
	return ours, theirs
}

// Populate reconciles the cache against the remote lock server: after it
// returns, the cache's key set equals exactly the union of ours/theirs from
// the verify RPC (invariant 3, spec.md §8).
func (c *Cache) Populate(ctx context.Context, localUser string) error {
	result, err := c.verifier.VerifyLocks(ctx)
	if err != nil {
		return err
	}

	next := make(map[string]Entry, len(result.Ours)+len(result.Theirs))
	for _, l := range result.Ours {
		next[l.Path] = Entry{Lock: l, Ours: l.OwnerLogin() == localUser}
	}
	for _, l := range result.Theirs {
		next[l.Path] = Entry{Lock: l, Ours: l.OwnerLogin() == localUser}
	}

	c.mu.Lock()
	c.data = next
	c.mu.Unlock()
	return nil
}
