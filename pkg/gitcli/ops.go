package gitcli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// PullStrategy selects how Pull reconciles divergent history.
type PullStrategy int

const (
	PullMerge PullStrategy = iota
	PullRebase
)

// MergeType selects the merge strategy for Merge.
type MergeType int

const (
	MergeDefault MergeType = iota
	MergeFastForwardOnly
	MergeNoFastForward
)

// StashDirection selects push or pop for Stash.
type StashDirection int

const (
	StashPush StashDirection = iota
	StashPop
)

// HeadCommit returns the full SHA of HEAD.
func (d *Driver) HeadCommit(ctx context.Context) (string, error) {
	res, err := d.RunAndCollectOutput(ctx, Options{Args: []string{"rev-parse", "HEAD"}})
	if err != nil {
		return "", err
	}
	return firstLine(res.Stdout), nil
}

// Fetch runs `git fetch`, optionally pruning stale remote-tracking
// branches.
func (d *Driver) Fetch(ctx context.Context, prune bool) error {
	args := []string{"fetch", "origin"}
	if prune {
		args = append(args, "--prune")
	}
	return d.Run(ctx, Options{Args: args})
}

// Commit creates a commit of the currently staged changes.
func (d *Driver) Commit(ctx context.Context, message string) error {
	return d.Run(ctx, Options{Args: []string{"commit", "-m", message}, ReturnCompleteError: true})
}

// Pull reconciles the current branch with its upstream. If stash is true,
// `--autostash` is appended so a dirty worktree doesn't block the pull.
func (d *Driver) Pull(ctx context.Context, strategy PullStrategy, stash bool) error {
	args := []string{"pull"}
	if strategy == PullRebase {
		args = append(args, "--rebase")
	}
	if stash {
		args = append(args, "--autostash")
	}
	return d.Run(ctx, Options{Args: args, ReturnCompleteError: true})
}

// Push pushes branch to origin.
func (d *Driver) Push(ctx context.Context, branch string) error {
	return d.Run(ctx, Options{Args: []string{"push", "origin", branch}, ReturnCompleteError: true})
}

// PushForce force-pushes branch to origin, used by the Quick-Submit
// worktree rebase step.
func (d *Driver) PushForce(ctx context.Context, branch string) error {
	return d.Run(ctx, Options{Args: []string{"push", "--force", "origin", branch}, ReturnCompleteError: true})
}

// Checkout checks out ref. If create is true, a new branch named ref is
// created first (`checkout -b`).
func (d *Driver) Checkout(ctx context.Context, ref string, create bool) error {
	args := []string{"checkout"}
	if create {
		args = append(args, "-b")
	}
	args = append(args, ref)
	return d.Run(ctx, Options{Args: args, ReturnCompleteError: true})
}

// CheckoutPaths restores the given paths from ref into the working tree
// (`git checkout <ref> -- <paths...>`).
func (d *Driver) CheckoutPaths(ctx context.Context, ref string, paths []string) error {
	args := append([]string{"checkout", ref, "--"}, paths...)
	return d.Run(ctx, Options{Args: args, ReturnCompleteError: true})
}

// Merge merges ref into the current branch using the given strategy.
func (d *Driver) Merge(ctx context.Context, ref string, mt MergeType) error {
	args := []string{"merge"}
	switch mt {
	case MergeFastForwardOnly:
		args = append(args, "--ff-only")
	case MergeNoFastForward:
		args = append(args, "--no-ff")
	}
	args = append(args, ref)
	return d.Run(ctx, Options{Args: args, ReturnCompleteError: true})
}

// Stash pushes or pops the stash. message is only used for StashPush.
func (d *Driver) Stash(ctx context.Context, dir StashDirection, message string) error {
	switch dir {
	case StashPush:
		args := []string{"stash", "push"}
		if message != "" {
			args = append(args, "-m", message)
		}
		return d.Run(ctx, Options{Args: args, ReturnCompleteError: true})
	default:
		return d.Run(ctx, Options{Args: []string{"stash", "pop"}, ReturnCompleteError: true})
	}
}

// DiffFilenames returns the list of file paths that differ across rangeExpr
// (e.g. "HEAD~3...HEAD" or "HEAD...origin/main").
func (d *Driver) DiffFilenames(ctx context.Context, rangeExpr string) ([]string, error) {
	res, err := d.RunAndCollectOutput(ctx, Options{Args: []string{"diff", "--name-only", rangeExpr}})
	if err != nil {
		return nil, err
	}
	return nonEmpty(res.Stdout), nil
}

// ShowFiles returns the list of file paths a commit touched, for the
// "/repo/show" route's commit case (the stash case uses SnapshotFiles,
// since `git show` can't list a stash's working-tree-index diff).
func (d *Driver) ShowFiles(ctx context.Context, commit string) ([]string, error) {
	res, err := d.RunAndCollectOutput(ctx, Options{Args: []string{"show", "--name-only", "--pretty=format:", commit}})
	if err != nil {
		return nil, err
	}
	return nonEmpty(res.Stdout), nil
}

// StatusPorcelain runs `git status --porcelain=v2 --branch --ignored` and
// returns the raw stdout lines for repostatus to parse.
func (d *Driver) StatusPorcelain(ctx context.Context) ([]string, error) {
	res, err := d.RunAndCollectOutput(ctx, Options{Args: []string{"status", "--porcelain=v2", "--branch", "--ignored"}})
	if err != nil {
		return nil, err
	}
	return res.Stdout, nil
}

// LogEntry is one parsed commit from Log.
type LogEntry struct {
	SHA     string
	Author  string
	Date    string
	Subject string
}

// Log returns up to limit commits reachable from ref (empty ref means
// HEAD).
func (d *Driver) Log(ctx context.Context, limit int, ref string) ([]LogEntry, error) {
	args := []string{"log", "--format=%H|%an|%aI|%s"}
	if limit > 0 {
		args = append(args, "-n", strconv.Itoa(limit))
	}
	if ref != "" {
		args = append(args, ref)
	}
	res, err := d.RunAndCollectOutput(ctx, Options{Args: args})
	if err != nil {
		return nil, err
	}
	var entries []LogEntry
	for _, line := range res.Stdout {
		parts := strings.SplitN(line, "|", 4)
		if len(parts) != 4 {
			continue
		}
		entries = append(entries, LogEntry{SHA: parts[0], Author: parts[1], Date: parts[2], Subject: parts[3]})
	}
	return entries, nil
}

// RemoteOriginURL returns the configured remote.origin.url, or an empty
// string if unset.
func (d *Driver) RemoteOriginURL(ctx context.Context) (string, error) {
	res, err := d.RunAndCollectOutput(ctx, Options{
		Args:          []string{"config", "--get", "remote.origin.url"},
		IgnoredErrors: []string{"key does not exist", "No such"},
	})
	if err != nil {
		return "", err
	}
	return firstLine(res.Stdout), nil
}

// Add stages paths in batches of at most 50 (spec.md §4.5: "chunk the file
// list into batches of 50 (CLI argv length safety)").
func (d *Driver) Add(ctx context.Context, paths []string) error {
	return d.batched(ctx, "add", paths)
}

// RestoreStaged unstages paths in batches of at most 50.
func (d *Driver) RestoreStaged(ctx context.Context, paths []string) error {
	return d.batchedWithFlag(ctx, "restore", "--staged", paths)
}

const batchSize = 50

func (d *Driver) batched(ctx context.Context, subcommand string, paths []string) error {
	for _, batch := range chunk(paths, batchSize) {
		args := append([]string{subcommand, "--"}, batch...)
		if err := d.Run(ctx, Options{Args: args, ReturnCompleteError: true}); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) batchedWithFlag(ctx context.Context, subcommand, flag string, paths []string) error {
	for _, batch := range chunk(paths, batchSize) {
		args := append([]string{subcommand, flag, "--"}, batch...)
		if err := d.Run(ctx, Options{Args: args, ReturnCompleteError: true}); err != nil {
			return err
		}
	}
	return nil
}

func chunk(items []string, size int) [][]string {
	if len(items) == 0 {
		return nil
	}
	var out [][]string
	for len(items) > 0 {
		n := size
		if n > len(items) {
			n = len(items)
		}
		out = append(out, items[:n])
		items = items[n:]
	}
	return out
}

func firstLine(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[0])
}

func nonEmpty(lines []string) []string {
	var out []string
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

// CurrentBranch returns the name of the checked-out branch, or an empty
// string if HEAD is detached.
func (d *Driver) CurrentBranch(ctx context.Context) (string, error) {
	res, err := d.RunAndCollectOutput(ctx, Options{Args: []string{"rev-parse", "--abbrev-ref", "HEAD"}})
	if err != nil {
		return "", err
	}
	branch := firstLine(res.Stdout)
	if branch == "HEAD" {
		return "", nil
	}
	return branch, nil
}

// DeleteBranch deletes branch locally, and remotely if remote is true.
func (d *Driver) DeleteBranch(ctx context.Context, branch string, remote bool) error {
	if remote {
		return d.Run(ctx, Options{
			Args:          []string{"push", "origin", "--delete", branch},
			IgnoredErrors: []string{"remote ref does not exist"},
		})
	}
	return d.Run(ctx, Options{
		Args:          []string{"branch", "-D", branch},
		IgnoredErrors: []string{"not found"},
	})
}

// RebaseOnto rebases the current branch onto upstream.
func (d *Driver) RebaseOnto(ctx context.Context, upstream string) error {
	return d.Run(ctx, Options{Args: []string{"rebase", upstream}, ReturnCompleteError: true})
}

// HardReset resets the current branch to ref, discarding local changes.
func (d *Driver) HardReset(ctx context.Context, ref string) error {
	return d.Run(ctx, Options{Args: []string{"reset", "--hard", ref}, ReturnCompleteError: true})
}

// ErrNothingToCommit is a convenience error helper used by callers that need
// to report "nothing to commit" distinctly.
var ErrNothingToCommit = fmt.Errorf("nothing to commit")
