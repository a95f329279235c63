package ops

import (
	"context"

	"github.com/ethos-core/ethos-core/pkg/repostatus"
)

// CommitAndPushRequest is one "/repo/push" call: stage exactly these files,
// commit them with message, and push the current branch.
type CommitAndPushRequest struct {
	Message string
	Files   []string
}

// CommitAndPushResult reports what happened, for the HTTP surface to relay.
type CommitAndPushResult struct {
	Status *repostatus.Status
	Pulled bool
}

// CommitAndPush runs the ordinary (non-Quick-Submit) push pipeline: stage
// the requested files, refresh status, rebase onto upstream first if the
// branch is behind, commit, push, and refresh status once more. On the
// trunk branch the pushed files' locks are released.
func (o *Operations) CommitAndPush(ctx context.Context, req CommitAndPushRequest, preStatus *repostatus.Status, pullDeps PullDeps) (*CommitAndPushResult, error) {
	if err := stageOnly(ctx, o.Git, preStatus, req.Files); err != nil {
		return nil, err
	}

	status, err := o.Status(ctx, StatusOptions{Previous: preStatus})
	if err != nil {
		return nil, err
	}

	pulled := false
	if status.CommitsBehind > 0 {
		if _, err := o.Pull(ctx, pullDeps); err != nil {
			return nil, err
		}
		pulled = true
		status, err = o.Status(ctx, StatusOptions{Previous: status})
		if err != nil {
			return nil, err
		}
	}

	if err := o.Commit(ctx, status, req.Message, true); err != nil {
		return nil, err
	}
	if err := o.Push(ctx, req.Files); err != nil {
		return nil, err
	}

	final, err := o.Status(ctx, StatusOptions{Previous: status})
	if err != nil {
		return nil, err
	}
	return &CommitAndPushResult{Status: final, Pulled: pulled}, nil
}
