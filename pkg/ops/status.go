package ops

import (
	"context"

	"github.com/ethos-core/ethos-core/pkg/ambient/kinderr"
	"github.com/ethos-core/ethos-core/pkg/repostatus"
)

// StatusOptions carries the parts of repostatus.Options that vary call to
// call; the collaborator handles themselves come from Operations.
type StatusOptions struct {
	SkipFetch       bool
	SkipDllCheck    bool
	ArtifactResolve repostatus.ArtifactResolver
	Previous        *repostatus.Status
}

// Status recomputes full repo status (spec.md §4.3), the single entry
// point every other operation uses to refresh its view of the world before
// and after mutating the working copy.
func (o *Operations) Status(ctx context.Context, opts StatusOptions) (*repostatus.Status, error) {
	status, err := repostatus.Compute(ctx, o.Git, o.Locks, repostatus.Options{
		LocalUser:       o.LocalUser,
		TrunkBranch:     o.RepoConfig.TrunkBranch,
		SkipFetch:       opts.SkipFetch,
		SkipDllCheck:    opts.SkipDllCheck,
		Classifier:      o.Classifier,
		ArtifactResolve: opts.ArtifactResolve,
		Previous:        opts.Previous,
	})
	if err != nil {
		return nil, kinderr.Wrap(kinderr.Internal, err)
	}
	return status, nil
}
