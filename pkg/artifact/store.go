package artifact

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Provider lists and fetches objects under a path prefix. Implementations:
// S3Provider (object storage) and FSProvider (local directory, used for
// tests and offline/dev use).
type Provider interface {
	// List returns every entry whose key has the given prefix, in no
	// particular order; Store.List sorts them most recently modified first.
	List(ctx context.Context, prefix string) ([]Entry, error)
	// Get returns the single entry whose key has the given prefix and whose
	// commit suffix (as parsed by parseCommit) begins with shortSHA.
	// ErrAmbiguous is returned if more than one entry matches, ErrNotFound if
	// none does.
	Get(ctx context.Context, prefix, shortSHA string) (Entry, error)
}

var (
	ErrNotFound  = fmt.Errorf("artifact: no matching entry")
	ErrAmbiguous = fmt.Errorf("artifact: short SHA matches more than one entry")
)

// SchemaVersion identifies the key-layout version a Store uses.
type SchemaVersion string

const SchemaV1 SchemaVersion = "v1"

// Store composes a Provider with a schema version, translating
// (project, kind, platform, buildConfig) tuples into object-store prefixes.
type Store struct {
	Provider Provider
	Version  SchemaVersion
}

// NewStore constructs a v1 Store.
func NewStore(p Provider) *Store {
	return &Store{Provider: p, Version: SchemaV1}
}

// Prefix builds the path prefix for a tuple, per the v1 schema:
// v1/<org-lowercased>-<repo-lowercased>/<kind>/<platform>/<build-config>/
func (s *Store) Prefix(owner, repo string, kind Kind, platform Platform, cfg BuildConfig) string {
	project := strings.ToLower(owner) + "-" + strings.ToLower(repo)
	return fmt.Sprintf("%s/%s/%s/%s/%s/", s.Version, project, kind, platform, cfg)
}

// List lists every entry for a tuple, most recent first.
func (s *Store) List(ctx context.Context, owner, repo string, kind Kind, platform Platform, cfg BuildConfig) ([]Entry, error) {
	entries, err := s.Provider.List(ctx, s.Prefix(owner, repo, kind, platform, cfg))
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Commit = parseCommit(entries[i].Key)
		entries[i].DisplayName = displayName(entries[i].Key)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].LastModified.After(entries[j].LastModified) })
	return entries, nil
}

// GetByShortSHA resolves a unique entry in the given tuple's prefix whose
// commit suffix begins with shortSHA.
func (s *Store) GetByShortSHA(ctx context.Context, owner, repo string, kind Kind, platform Platform, cfg BuildConfig, shortSHA string) (Entry, error) {
	e, err := s.Provider.Get(ctx, s.Prefix(owner, repo, kind, platform, cfg), shortSHA)
	if err != nil {
		return Entry{}, err
	}
	e.Commit = parseCommit(e.Key)
	e.DisplayName = displayName(e.Key)
	return e, nil
}

// NewestReachableSHA walks candidateSHAsMostRecentFirst and returns the
// first one that has a published build entry anywhere under prefix. This
// implements spec step 10's "scan walks local and remote logs in order and
// picks the first SHA present in the most-recent-first artifact list."
func NewestReachableSHA(ctx context.Context, provider Provider, prefix string, candidateSHAsMostRecentFirst []string) (string, bool, error) {
	entries, err := provider.List(ctx, prefix)
	if err != nil {
		return "", false, err
	}
	present := make(map[string]bool, len(entries))
	for _, e := range entries {
		if c := parseCommit(e.Key); c != "" {
			present[c] = true
		}
	}
	for _, sha := range candidateSHAsMostRecentFirst {
		for commit := range present {
			if strings.HasPrefix(sha, commit) || strings.HasPrefix(commit, sha) {
				return sha, true, nil
			}
		}
	}
	return "", false, nil
}
