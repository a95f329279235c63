package ops

import (
	"context"

	"github.com/ethos-core/ethos-core/pkg/ambient/kinderr"
	"github.com/ethos-core/ethos-core/pkg/repostatus"
)

// Commit creates a commit of the currently staged changes. It is a no-op
// (not an error) when status reports nothing staged, unless
// skipStatusCheck asserts the caller already knows better.
func (o *Operations) Commit(ctx context.Context, status *repostatus.Status, message string, skipStatusCheck bool) error {
	if !skipStatusCheck && status != nil && !status.HasStagedChanges() {
		return nil
	}
	if err := o.RepoConfig.CommitMessage.Validate(message); err != nil {
		return kinderr.Wrap(kinderr.Input, err)
	}
	if err := o.Git.Commit(ctx, message); err != nil {
		return kinderr.Wrap(kinderr.Internal, err)
	}
	return nil
}
