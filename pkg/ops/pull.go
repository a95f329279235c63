package ops

import (
	"context"
	"strings"

	"github.com/ethos-core/ethos-core/pkg/ambient/kinderr"
	"github.com/ethos-core/ethos-core/pkg/gitcli"
)

// PullResult reports what Pull actually did, for the HTTP surface to relay
// to the UI.
type PullResult struct {
	QuickSubmitBranchDeleted string
	Rebased                  bool
}

// PullDeps are the narrow, test-substitutable collaborators Pull needs
// beyond the shared Operations handles.
type PullDeps struct {
	// OpenPRNumbers returns the open PR numbers for branch, used to refuse
	// deleting a Quick-Submit branch that still has an in-flight PR.
	OpenPRNumbers func(ctx context.Context, branch string) ([]int, error)
}

// Pull refuses when the engine/editor is believed running. If the current
// branch is a Quick-Submit branch it first verifies no PR is still open,
// then stashes any dirty state, checks out trunk, deletes the old branch
// locally and remotely, and finally rebases onto the trunk's upstream if
// there are any incoming commits.
func (o *Operations) Pull(ctx context.Context, deps PullDeps) (*PullResult, error) {
	if running, err := o.Engine.IsRunning(); err != nil {
		return nil, kinderr.Wrap(kinderr.Internal, err)
	} else if running {
		return nil, kinderr.New(kinderr.Input, "pull refused: the editor is running")
	}

	result := &PullResult{}
	branch, err := o.Git.CurrentBranch(ctx)
	if err != nil {
		return nil, kinderr.Wrap(kinderr.Internal, err)
	}

	if strings.HasPrefix(branch, "f11r") {
		if deps.OpenPRNumbers != nil {
			open, err := deps.OpenPRNumbers(ctx, branch)
			if err != nil {
				return nil, kinderr.Wrap(kinderr.Internal, err)
			}
			if len(open) > 0 {
				return nil, kinderr.New(kinderr.Input, "pull refused: branch %q still has an open pull request", branch)
			}
		}

		dirty, err := o.Git.StatusPorcelain(ctx)
		if err != nil {
			return nil, kinderr.Wrap(kinderr.Internal, err)
		}
		if hasDirtyEntries(dirty) {
			if err := o.Git.Stash(ctx, gitcli.StashPush, "pre-pull autostash"); err != nil {
				return nil, kinderr.Wrap(kinderr.Internal, err)
			}
		}

		trunk := o.RepoConfig.TrunkBranch
		if err := o.Git.Checkout(ctx, trunk, false); err != nil {
			return nil, kinderr.Wrap(kinderr.Internal, err)
		}
		if err := o.Git.DeleteBranch(ctx, branch, false); err != nil {
			return nil, kinderr.Wrap(kinderr.Internal, err)
		}
		if err := o.Git.DeleteBranch(ctx, branch, true); err != nil {
			return nil, kinderr.Wrap(kinderr.Internal, err)
		}
		result.QuickSubmitBranchDeleted = branch
	}

	if err := o.Git.Fetch(ctx, false); err != nil {
		return nil, kinderr.Wrap(kinderr.Internal, err)
	}
	entries, err := o.Git.Log(ctx, 1, "HEAD..@{upstream}")
	if err != nil {
		return nil, kinderr.Wrap(kinderr.Internal, err)
	}
	if len(entries) > 0 {
		if err := o.Git.Pull(ctx, gitcli.PullRebase, true); err != nil {
			return nil, kinderr.Wrap(kinderr.PullConflict, err)
		}
		result.Rebased = true
	}

	return result, nil
}

func hasDirtyEntries(porcelainLines []string) bool {
	for _, l := range porcelainLines {
		if strings.HasPrefix(l, "1 ") || strings.HasPrefix(l, "2 ") || strings.HasPrefix(l, "u ") || strings.HasPrefix(l, "? ") {
			return true
		}
	}
	return false
}
