package gitcli

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// snapshotMarker is the fixed literal embedded in every snapshot stash's
// subject line so list_snapshots can recognize them later. This exact
// string is a cross-version compatibility contract (spec.md §6) and must
// never change.
const snapshotMarker = "ethos-core snapshot"

// maxSnapshots is the cap enforced by SaveSnapshot: once exceeded, the
// oldest extras are dropped.
const maxSnapshots = 10

// Snapshot is one parsed entry from `git stash list`, restricted to
// marker-tagged stashes.
type Snapshot struct {
	Index   int // the N in stash@{N}
	Subject string
	SHA     string
	Created string // ISO8601
}

// SaveSnapshot stages paths and pushes a marker-tagged stash of them
// (untracked ones included), which removes them from the working tree. With
// keepIndex the paths are then checked out from the new stash and staged
// again, so their content stays in the working tree; without it they stay
// removed. It then trims snapshots beyond maxSnapshots, oldest first.
func (d *Driver) SaveSnapshot(ctx context.Context, message string, paths []string, keepIndex bool) error {
	if len(paths) == 0 {
		return nil
	}
	if err := d.Add(ctx, paths); err != nil {
		return fmt.Errorf("snapshot: staging failed: %w", err)
	}

	subject := fmt.Sprintf("%s: %s", snapshotMarker, message)
	if err := d.Run(ctx, Options{
		Args:                append([]string{"stash", "push", "--include-untracked", "-m", subject, "--"}, paths...),
		ReturnCompleteError: true,
	}); err != nil {
		return fmt.Errorf("snapshot: stash push failed: %w", err)
	}

	if keepIndex {
		// Re-apply the stash's index state without removing it from the
		// stash list: restore just the files into the working tree and
		// stage them again.
		if err := d.CheckoutPaths(ctx, "stash@{0}", paths); err != nil {
			return fmt.Errorf("snapshot: restoring kept index failed: %w", err)
		}
		if err := d.Add(ctx, paths); err != nil {
			return fmt.Errorf("snapshot: re-staging kept index failed: %w", err)
		}
	}

	return d.trimSnapshots(ctx)
}

// ListSnapshots returns marker-tagged stashes, newest first, at most
// maxSnapshots entries (invariant 4, spec.md §8).
func (d *Driver) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	res, err := d.RunAndCollectOutput(ctx, Options{
		Args: []string{"stash", "list", "--format=%gd|%gs|%H|%aI"},
	})
	if err != nil {
		return nil, err
	}
	var out []Snapshot
	for _, line := range res.Stdout {
		parts := strings.SplitN(line, "|", 4)
		if len(parts) != 4 {
			continue
		}
		if !strings.Contains(parts[1], snapshotMarker) {
			continue
		}
		idx := parseStashIndex(parts[0])
		out = append(out, Snapshot{Index: idx, Subject: parts[1], SHA: parts[2], Created: parts[3]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	if len(out) > maxSnapshots {
		out = out[:maxSnapshots]
	}
	return out, nil
}

func (d *Driver) trimSnapshots(ctx context.Context) error {
	snaps, err := d.rawSnapshotList(ctx)
	if err != nil {
		return err
	}
	if len(snaps) <= maxSnapshots {
		return nil
	}
	// Oldest entries have the highest stash@{N} index. Drop from the end.
	extra := snaps[maxSnapshots:]
	for i := len(extra) - 1; i >= 0; i-- {
		s := extra[i]
		if err := d.Run(ctx, Options{Args: []string{"stash", "drop", fmt.Sprintf("stash@{%d}", s.Index)}}); err != nil {
			return fmt.Errorf("snapshot: dropping old snapshot failed: %w", err)
		}
	}
	return nil
}

// rawSnapshotList returns ALL marker-tagged snapshots, unbounded, for
// internal trimming use (ListSnapshots caps at maxSnapshots).
func (d *Driver) rawSnapshotList(ctx context.Context) ([]Snapshot, error) {
	res, err := d.RunAndCollectOutput(ctx, Options{
		Args: []string{"stash", "list", "--format=%gd|%gs|%H|%aI"},
	})
	if err != nil {
		return nil, err
	}
	var out []Snapshot
	for _, line := range res.Stdout {
		parts := strings.SplitN(line, "|", 4)
		if len(parts) != 4 || !strings.Contains(parts[1], snapshotMarker) {
			continue
		}
		out = append(out, Snapshot{Index: parseStashIndex(parts[0]), Subject: parts[1], SHA: parts[2], Created: parts[3]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

func parseStashIndex(ref string) int {
	ref = strings.TrimPrefix(ref, "stash@{")
	ref = strings.TrimSuffix(ref, "}")
	var idx int
	_, _ = fmt.Sscanf(ref, "%d", &idx)
	return idx
}

// SnapshotFiles returns the set of files a snapshot touched.
func (d *Driver) SnapshotFiles(ctx context.Context, commit string) ([]string, error) {
	res, err := d.RunAndCollectOutput(ctx, Options{Args: []string{"stash", "show", "--name-only", commit}})
	if err != nil {
		return nil, err
	}
	return nonEmpty(res.Stdout), nil
}

// RestoreSnapshot restores the files touched by the snapshot at commit. Any
// file currently modified that overlaps the snapshot's file set is first
// snapshotted itself, so the caller's in-progress work isn't silently
// clobbered.
func (d *Driver) RestoreSnapshot(ctx context.Context, commit string, currentlyModified []string) error {
	files, err := d.SnapshotFiles(ctx, commit)
	if err != nil {
		return fmt.Errorf("restore snapshot: listing files failed: %w", err)
	}

	overlap := intersect(files, currentlyModified)
	if len(overlap) > 0 {
		if err := d.SaveSnapshot(ctx, "pre-restore auto-snapshot", overlap, true); err != nil {
			return fmt.Errorf("restore snapshot: rescuing overlapping changes failed: %w", err)
		}
	}

	if err := d.CheckoutPaths(ctx, commit, files); err != nil {
		return fmt.Errorf("restore snapshot: checkout failed: %w", err)
	}
	return d.RestoreStaged(ctx, files)
}

// DeleteSnapshot drops the stash whose commit SHA matches commit.
func (d *Driver) DeleteSnapshot(ctx context.Context, commit string) error {
	snaps, err := d.rawSnapshotList(ctx)
	if err != nil {
		return err
	}
	for _, s := range snaps {
		if s.SHA == commit {
			return d.Run(ctx, Options{Args: []string{"stash", "drop", fmt.Sprintf("stash@{%d}", s.Index)}})
		}
	}
	return fmt.Errorf("no snapshot found for commit %s", commit)
}

func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, x := range b {
		set[x] = struct{}{}
	}
	var out []string
	for _, x := range a {
		if _, ok := set[x]; ok {
			out = append(out, x)
		}
	}
	return out
}
