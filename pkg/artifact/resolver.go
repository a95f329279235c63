package artifact

import "context"

// Resolver adapts a Store bound to one fixed tuple (the editor-DLL build the
// daemon tracks) into the narrow interface repostatus.ArtifactResolver
// expects, so the status computer does not need to know about kinds,
// platforms or build configs.
type Resolver struct {
	Store    *Store
	Owner    string
	Repo     string
	Kind     Kind
	Platform Platform
	Config   BuildConfig
}

// NewestBuildSHA implements repostatus.ArtifactResolver.
func (r *Resolver) NewestBuildSHA(ctx context.Context, candidatesMostRecentFirst []string) (string, bool, error) {
	prefix := r.Store.Prefix(r.Owner, r.Repo, r.Kind, r.Platform, r.Config)
	return NewestReachableSHA(ctx, r.Store.Provider, prefix, candidatesMostRecentFirst)
}
