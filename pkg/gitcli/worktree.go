package gitcli

import (
	"context"
	"regexp"
	"strings"
)

// Worktree is one parsed entry from `git worktree list --porcelain`.
type Worktree struct {
	Directory string
	SHA       string
	Branch    string // empty if detached
}

var (
	worktreeDirRE    = regexp.MustCompile(`^worktree (.+)$`)
	worktreeHeadRE   = regexp.MustCompile(`^HEAD ([0-9a-f]+)$`)
	worktreeBranchRE = regexp.MustCompile(`^branch (.+)$`)
)

// ListWorktrees parses `git worktree list --porcelain` into records.
func (d *Driver) ListWorktrees(ctx context.Context) ([]Worktree, error) {
	res, err := d.RunAndCollectOutput(ctx, Options{Args: []string{"worktree", "list", "--porcelain"}})
	if err != nil {
		return nil, err
	}

	var out []Worktree
	var cur *Worktree
	flush := func() {
		if cur != nil {
			out = append(out, *cur)
			cur = nil
		}
	}
	for _, line := range res.Stdout {
		switch {
		case worktreeDirRE.MatchString(line):
			flush()
			m := worktreeDirRE.FindStringSubmatch(line)
			cur = &Worktree{Directory: m[1]}
		case worktreeHeadRE.MatchString(line):
			if cur != nil {
				cur.SHA = worktreeHeadRE.FindStringSubmatch(line)[1]
			}
		case worktreeBranchRE.MatchString(line):
			if cur != nil {
				ref := worktreeBranchRE.FindStringSubmatch(line)[1]
				cur.Branch = strings.TrimPrefix(ref, "refs/heads/")
			}
		case line == "detached":
			// branch stays empty
		}
	}
	flush()
	return out, nil
}

// AddWorktree creates a new worktree at dir checked out to branch (creating
// the branch if create is true).
func (d *Driver) AddWorktree(ctx context.Context, dir, branch string, create bool) error {
	args := []string{"worktree", "add"}
	if create {
		args = append(args, "-B", branch, dir)
	} else {
		args = append(args, dir, branch)
	}
	return d.Run(ctx, Options{Args: args, ReturnCompleteError: true})
}

// RemoveWorktree removes the worktree at dir.
func (d *Driver) RemoveWorktree(ctx context.Context, dir string) error {
	return d.Run(ctx, Options{
		Args:          []string{"worktree", "remove", "--force", dir},
		IgnoredErrors: []string{"is not a working tree"},
	})
}
