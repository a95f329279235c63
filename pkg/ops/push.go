package ops

import (
	"context"

	"github.com/ethos-core/ethos-core/pkg/ambient/kinderr"
)

// Push pushes the current branch to origin. On the trunk branch only, it
// also releases LFS locks held for pathsToUnlock; on any other branch
// locks are expected to be released by CI when the PR merges.
func (o *Operations) Push(ctx context.Context, pathsToUnlock []string) error {
	branch, err := o.Git.CurrentBranch(ctx)
	if err != nil {
		return kinderr.Wrap(kinderr.Internal, err)
	}
	if branch == "" {
		return kinderr.New(kinderr.Input, "cannot push from a detached HEAD")
	}

	if err := o.Git.Push(ctx, branch); err != nil {
		return kinderr.Wrap(kinderr.Internal, err)
	}

	if branch == o.RepoConfig.TrunkBranch && len(pathsToUnlock) > 0 {
		if _, err := o.Unlock(ctx, pathsToUnlock, false); err != nil {
			return err
		}
	}
	return nil
}
