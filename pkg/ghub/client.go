// Package ghub wraps the GitHub code-host calls the Quick-Submit state
// machine needs: pull request creation and editing, milestone lookup,
// mergeable_state polling, and merge-queue enqueue. It is adapted from the
// teacher's go-github-based pull-request provider, generalized from a
// single CreatePullRequest call into the fuller submit workflow.
package ghub

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v32/github"
)

// Client is the subset of GitHub operations Quick Submit needs.
type Client struct {
	gh *github.Client
}

// New wraps an authenticated *github.Client (see cmd/ethos-core-daemon's
// run for how its oauth2 token source is built).
func New(gh *github.Client) *Client {
	return &Client{gh: gh}
}

// PullRequestSpec describes the PR Quick Submit opens.
type PullRequestSpec struct {
	Owner       string
	Repo        string
	HeadBranch  string
	BaseBranch  string
	Title       string
	Description string
	Labels      []string
	Assignees   []string
	Milestone   string
}

// PullRequest is the subset of GitHub's PR fields Quick Submit tracks.
type PullRequest struct {
	Number int
}

// CreatePullRequest opens a PR and, if any of Labels/Assignees/Milestone are
// set, PATCHes the underlying issue to apply them in a second call (mirrors
// the GitHub API's own split between PR creation and issue metadata).
func (c *Client) CreatePullRequest(ctx context.Context, spec PullRequestSpec) (*PullRequest, error) {
	var body *string
	if spec.Description != "" {
		body = github.String(spec.Description)
	}

	pr, _, err := c.gh.PullRequests.Create(ctx, spec.Owner, spec.Repo, &github.NewPullRequest{
		Head:  github.String(spec.HeadBranch),
		Base:  github.String(spec.BaseBranch),
		Title: github.String(spec.Title),
		Body:  body,
	})
	if err != nil {
		return nil, fmt.Errorf("ghub: creating pull request: %w", err)
	}

	var milestoneID *int
	if spec.Milestone != "" {
		milestoneID, err = c.milestoneID(ctx, spec.Owner, spec.Repo, spec.Milestone)
		if err != nil {
			return nil, err
		}
	}
	var assignees *[]string
	if len(spec.Assignees) != 0 {
		assignees = &spec.Assignees
	}
	var labels *[]string
	if len(spec.Labels) != 0 {
		labels = &spec.Labels
	}

	if milestoneID != nil || assignees != nil || labels != nil {
		if _, _, err := c.gh.Issues.Edit(ctx, spec.Owner, spec.Repo, pr.GetNumber(), &github.IssueRequest{
			Milestone: milestoneID,
			Assignees: assignees,
			Labels:    labels,
		}); err != nil {
			return nil, fmt.Errorf("ghub: editing pull request metadata: %w", err)
		}
	}

	return &PullRequest{Number: pr.GetNumber()}, nil
}

func (c *Client) milestoneID(ctx context.Context, owner, repo, name string) (*int, error) {
	milestones, _, err := c.gh.Issues.ListMilestones(ctx, owner, repo, &github.MilestoneListOptions{State: "all"})
	if err != nil {
		return nil, fmt.Errorf("ghub: listing milestones: %w", err)
	}
	for _, m := range milestones {
		if m.GetTitle() != name {
			continue
		}
		if m.Number == nil {
			return nil, fmt.Errorf("ghub: milestone %q has no number", name)
		}
		return m.Number, nil
	}
	return nil, fmt.Errorf("ghub: no milestone named %q", name)
}

// MergeableState mirrors GitHub's pull_request.mergeable_state values
// (spec.md §4.6: "poll until its mergeable_state leaves the transient
// values Blocked|Behind|Unknown; fail on Dirty").
type MergeableState string

const (
	MergeableBlocked MergeableState = "blocked"
	MergeableBehind  MergeableState = "behind"
	MergeableUnknown MergeableState = "unknown"
	MergeableDirty   MergeableState = "dirty"
	MergeableClean   MergeableState = "clean"
)

// IsTransient reports whether s is one of the states that should be polled
// through rather than treated as a final result.
func (s MergeableState) IsTransient() bool {
	switch s {
	case MergeableBlocked, MergeableBehind, MergeableUnknown:
		return true
	default:
		return false
	}
}

// MergeableStateOf fetches the current mergeable_state for pr.
func (c *Client) MergeableStateOf(ctx context.Context, owner, repo string, number int) (MergeableState, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return "", fmt.Errorf("ghub: fetching pull request %d: %w", number, err)
	}
	return MergeableState(pr.GetMergeableState()), nil
}

// IsOpen reports whether pr is still open.
func (c *Client) IsOpen(ctx context.Context, owner, repo string, number int) (bool, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return false, fmt.Errorf("ghub: fetching pull request %d: %w", number, err)
	}
	return pr.GetState() == "open", nil
}

// EnqueueMergeQueue enqueues pr into the repo's GitHub merge queue. The
// go-github v32 client predates first-class merge-queue support, so this
// uses the client's raw Do() escape hatch against GitHub's REST endpoint
// directly, the same way the rest of this package builds requests through
// *github.Client but for an API surface the typed client doesn't cover.
func (c *Client) EnqueueMergeQueue(ctx context.Context, owner, repo string, number int) error {
	path := fmt.Sprintf("repos/%s/%s/merge-queue-entries", owner, repo)
	req, err := c.gh.NewRequest(http.MethodPost, path, map[string]int{"pull_request_number": number})
	if err != nil {
		return fmt.Errorf("ghub: building merge-queue request: %w", err)
	}
	if _, err := c.gh.Do(ctx, req, nil); err != nil {
		return fmt.Errorf("ghub: enqueueing pull request %d into merge queue: %w", number, err)
	}
	return nil
}
