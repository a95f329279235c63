package ops

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/ethos-core/ethos-core/pkg/ambient/kinderr"
	"github.com/ethos-core/ethos-core/pkg/ghub"
	"github.com/ethos-core/ethos-core/pkg/gitcli"
	"github.com/ethos-core/ethos-core/pkg/repostatus"
)

// quickSubmitBranchPrefix marks a branch as one of ours, letting Pull and
// QuickSubmit recognize and clean up after each other.
const quickSubmitBranchPrefix = "f11r"

var nonAlnumRE = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// SubmitRequest is one Quick-Submit call.
type SubmitRequest struct {
	Target  string // base branch the PR targets, usually RepoConfig.TrunkBranch
	Files   []string
	Message string
}

// SubmitResult reports the PR Quick Submit opened.
type SubmitResult struct {
	Branch   string
	PRNumber int
}

// mergeQueuePollInterval is how often waitForMergeable and waitForPRClosed
// poll GitHub while waiting out a transient mergeable_state or an open PR.
var mergeQueuePollInterval = 2 * time.Second

// maxOpenPRPollAttempts bounds step 7's "poll (<=10s) until the branch has
// no open PR" at the configured poll interval.
const maxOpenPRPollAttempts = 5

// QuickSubmit runs the auto-merge Quick-Submit state machine (spec.md
// §4.6): it snapshots the working copy, commits the requested files onto a
// fresh f11r-prefixed branch, opens a pull request, waits for it to clear
// GitHub's merge checks, enqueues it into the merge queue, and releases
// locks once it lands. On failure after the snapshot it best-effort
// restores the working copy to where it started.
func (o *Operations) QuickSubmit(ctx context.Context, req SubmitRequest, status *repostatus.Status) (*SubmitResult, error) {
	if len(req.Files) == 0 {
		return nil, kinderr.New(kinderr.Input, "quick submit: no files requested")
	}
	if err := requireOkStatus(status, req.Files); err != nil {
		return nil, err
	}
	if running, err := o.Engine.IsRunning(); err != nil {
		return nil, kinderr.Wrap(kinderr.Internal, err)
	} else if running {
		return nil, kinderr.New(kinderr.Input, "quick submit refused: the editor is running")
	}

	previousBranch, err := o.Git.CurrentBranch(ctx)
	if err != nil {
		return nil, kinderr.Wrap(kinderr.Internal, err)
	}
	previousWasQuickSubmit := strings.HasPrefix(previousBranch, quickSubmitBranchPrefix)

	snapshotPaths := allChangedPaths(status)
	if len(snapshotPaths) > 0 {
		if err := o.Git.SaveSnapshot(ctx, "pre-submit auto-snapshot", snapshotPaths, true); err != nil {
			return nil, kinderr.Wrap(kinderr.Internal, err)
		}
	}

	abortRestore := func(cause error) error {
		if hardResetErr := o.recoverWorkingCopy(ctx, previousBranch); hardResetErr != nil {
			return kinderr.Wrap(kinderr.Internal, fmt.Errorf("%w (recovery also failed: %v)", cause, hardResetErr))
		}
		return kinderr.Wrap(kinderr.Internal, cause)
	}

	branch := fmt.Sprintf("%s-%s-%s-%d", quickSubmitBranchPrefix, req.Target, sanitizeUser(o.LocalUser), unixSeconds())
	if err := o.Git.Checkout(ctx, branch, true); err != nil {
		return nil, abortRestore(err)
	}
	if previousWasQuickSubmit {
		if err := o.Git.DeleteBranch(ctx, previousBranch, false); err != nil {
			return nil, abortRestore(err)
		}
	}

	preCommitStatus, err := o.Status(ctx, StatusOptions{})
	if err != nil {
		return nil, abortRestore(err)
	}

	if err := o.commitRequestedFiles(ctx, preCommitStatus, req); err != nil {
		return nil, abortRestore(err)
	}
	if err := o.Git.Push(ctx, branch); err != nil {
		return nil, abortRestore(err)
	}
	refreshed, err := o.Status(ctx, StatusOptions{})
	if err != nil {
		return nil, abortRestore(err)
	}

	headBranch := branch
	if previousWasQuickSubmit {
		headBranch, err = o.rebaseThroughWorktree(ctx, branch, req.Target)
		if err != nil {
			return nil, abortRestore(err)
		}
	}

	pr, err := o.GitHub.CreatePullRequest(ctx, ghub.PullRequestSpec{
		Owner:      refreshed.RepoOwner,
		Repo:       refreshed.RepoName,
		HeadBranch: headBranch,
		BaseBranch: req.Target,
		Title:      req.Message,
	})
	if err != nil {
		return nil, abortRestore(err)
	}

	if err := o.waitForMergeable(ctx, refreshed.RepoOwner, refreshed.RepoName, pr.Number); err != nil {
		return nil, abortRestore(err)
	}
	if err := o.GitHub.EnqueueMergeQueue(ctx, refreshed.RepoOwner, refreshed.RepoName, pr.Number); err != nil {
		return nil, abortRestore(err)
	}

	if err := o.waitForPRClosed(ctx, refreshed.RepoOwner, refreshed.RepoName, pr.Number); err != nil {
		// The PR not closing within the poll budget is not itself a
		// failure worth unwinding the submit for: the merge queue is
		// still processing it. Locks simply stay held until a later
		// poll or manual unlock.
		return &SubmitResult{Branch: branch, PRNumber: pr.Number}, nil
	}
	if _, err := o.Unlock(ctx, req.Files, false); err != nil {
		return &SubmitResult{Branch: branch, PRNumber: pr.Number}, err
	}

	return &SubmitResult{Branch: branch, PRNumber: pr.Number}, nil
}

func requireOkStatus(status *repostatus.Status, files []string) error {
	if status == nil {
		return kinderr.New(kinderr.Input, "quick submit: no status available")
	}
	byPath := make(map[string]repostatus.File, len(status.ModifiedFiles)+len(status.UntrackedFiles))
	for _, f := range status.ModifiedFiles {
		byPath[f.Path] = f
	}
	for _, f := range status.UntrackedFiles {
		byPath[f.Path] = f
	}
	for _, path := range files {
		f, ok := byPath[path]
		if !ok {
			return kinderr.New(kinderr.Input, "quick submit: %q is not a known changed file", path)
		}
		if f.SubmitStatus != repostatus.Ok {
			return kinderr.New(kinderr.Input, "quick submit: %q is not submittable (%s)", path, f.SubmitStatus)
		}
	}
	return nil
}

func allChangedPaths(status *repostatus.Status) []string {
	if status == nil {
		return nil
	}
	var out []string
	for _, f := range status.ModifiedFiles {
		out = append(out, f.Path)
	}
	for _, f := range status.UntrackedFiles {
		out = append(out, f.Path)
	}
	return out
}

func (o *Operations) commitRequestedFiles(ctx context.Context, status *repostatus.Status, req SubmitRequest) error {
	if err := stageOnly(ctx, o.Git, status, req.Files); err != nil {
		return err
	}
	if err := o.RepoConfig.CommitMessage.Validate(req.Message); err != nil {
		return err
	}
	return o.Git.Commit(ctx, req.Message)
}

// rebaseThroughWorktree implements step 5: when chaining off another
// Quick-Submit, a dedicated worktree rebases the new branch onto the
// target's remote tip without disturbing the caller's own checkout, so
// parallel Quick-Submits resolve against each other instead of racing.
func (o *Operations) rebaseThroughWorktree(ctx context.Context, branch, target string) (string, error) {
	repoDir := o.Git.Dir()
	wtDir := filepath.Join(filepath.Dir(repoDir), "."+filepath.Base(repoDir)+"-wt")
	wtBranch := branch + "-wt"

	if _, err := os.Stat(wtDir); err != nil {
		if !os.IsNotExist(err) {
			return "", err
		}
		if err := o.Git.AddWorktree(ctx, wtDir, branch, false); err != nil {
			return "", err
		}
	} else {
		if err := o.Git.RemoveWorktree(ctx, wtDir); err != nil {
			return "", err
		}
		if err := o.Git.AddWorktree(ctx, wtDir, branch, false); err != nil {
			return "", err
		}
	}

	wt := gitcli.New(wtDir, nil).WithSkipSmudge()
	if err := wt.DeleteBranch(ctx, wtBranch, false); err != nil {
		return "", err
	}
	if err := wt.Checkout(ctx, wtBranch, true); err != nil {
		return "", err
	}
	if err := wt.Fetch(ctx, false); err != nil {
		return "", err
	}
	if err := wt.RebaseOnto(ctx, "origin/"+target); err != nil {
		return "", err
	}
	if err := wt.PushForce(ctx, wtBranch); err != nil {
		return "", err
	}
	return wtBranch, nil
}

func (o *Operations) waitForMergeable(ctx context.Context, owner, repo string, number int) error {
	for {
		state, err := o.GitHub.MergeableStateOf(ctx, owner, repo, number)
		if err != nil {
			return err
		}
		if state == ghub.MergeableDirty {
			return fmt.Errorf("pull request %d has merge conflicts", number)
		}
		if !state.IsTransient() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(mergeQueuePollInterval):
		}
	}
}

func (o *Operations) waitForPRClosed(ctx context.Context, owner, repo string, number int) error {
	for attempt := 0; attempt < maxOpenPRPollAttempts; attempt++ {
		open, err := o.GitHub.IsOpen(ctx, owner, repo, number)
		if err != nil {
			return err
		}
		if !open {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(mergeQueuePollInterval):
		}
	}
	return fmt.Errorf("pull request %d still open after poll budget", number)
}

func (o *Operations) recoverWorkingCopy(ctx context.Context, previousBranch string) error {
	if previousBranch == "" {
		return nil
	}
	if running, err := o.Engine.IsRunning(); err != nil || running {
		return fmt.Errorf("cannot recover working copy while the editor is running")
	}
	if err := o.Git.Checkout(ctx, previousBranch, false); err != nil {
		return err
	}
	if err := o.Git.HardReset(ctx, previousBranch); err != nil {
		return err
	}
	snaps, err := o.Git.ListSnapshots(ctx)
	if err != nil || len(snaps) == 0 {
		return err
	}
	return o.Git.RestoreSnapshot(ctx, snaps[0].SHA, nil)
}

func sanitizeUser(user string) string {
	return strings.ToLower(nonAlnumRE.ReplaceAllString(user, "-"))
}

func unixSeconds() int64 {
	return time.Now().Unix()
}
