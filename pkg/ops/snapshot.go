package ops

import (
	"context"

	"github.com/ethos-core/ethos-core/pkg/ambient/kinderr"
	"github.com/ethos-core/ethos-core/pkg/gitcli"
)

// SaveSnapshot stashes paths under the cross-version "ethos-core snapshot"
// marker.
func (o *Operations) SaveSnapshot(ctx context.Context, message string, paths []string) error {
	if err := o.Git.SaveSnapshot(ctx, message, paths, false); err != nil {
		return kinderr.Wrap(kinderr.Internal, err)
	}
	return nil
}

// ListSnapshots returns the marker-tagged stashes, newest first.
func (o *Operations) ListSnapshots(ctx context.Context) ([]gitcli.Snapshot, error) {
	snaps, err := o.Git.ListSnapshots(ctx)
	if err != nil {
		return nil, kinderr.Wrap(kinderr.Internal, err)
	}
	return snaps, nil
}

// RestoreSnapshot restores the files touched by the snapshot at commit,
// rescuing any currently-modified overlap into a fresh auto-snapshot first.
func (o *Operations) RestoreSnapshot(ctx context.Context, commit string, currentlyModified []string) error {
	if err := o.Git.RestoreSnapshot(ctx, commit, currentlyModified); err != nil {
		return kinderr.Wrap(kinderr.Internal, err)
	}
	return nil
}

// DeleteSnapshot drops the snapshot at commit.
func (o *Operations) DeleteSnapshot(ctx context.Context, commit string) error {
	if err := o.Git.DeleteSnapshot(ctx, commit); err != nil {
		return kinderr.Wrap(kinderr.Internal, err)
	}
	return nil
}
