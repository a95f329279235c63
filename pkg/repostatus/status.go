// Package repostatus is the status computer (component C5): it produces a
// RepoStatus by joining `git status`, ahead/behind counts, remote HEAD, LFS
// locks, upstream-modified file diffs, and conflict detection.
package repostatus

import "github.com/ethos-core/ethos-core/pkg/gitcli"

// FileState is the working-tree state of one file.
type FileState int

const (
	Unknown FileState = iota
	Added
	Modified
	Deleted
	Unmerged
)

func (s FileState) String() string {
	switch s {
	case Added:
		return "Added"
	case Modified:
		return "Modified"
	case Deleted:
		return "Deleted"
	case Unmerged:
		return "Unmerged"
	default:
		return "Unknown"
	}
}

// SubmitStatus is what a file needs before it can be included in a submit.
type SubmitStatus int

const (
	Ok SubmitStatus = iota
	CheckoutRequired
	CheckedOutByOtherUser
	SubmitUnmerged
	Conflicted
)

func (s SubmitStatus) String() string {
	switch s {
	case CheckoutRequired:
		return "CheckoutRequired"
	case CheckedOutByOtherUser:
		return "CheckedOutByOtherUser"
	case SubmitUnmerged:
		return "Unmerged"
	case Conflicted:
		return "Conflicted"
	default:
		return "Ok"
	}
}

// File is one entry in Status.ModifiedFiles or Status.UntrackedFiles.
type File struct {
	Path         string
	DisplayName  string
	State        FileState
	IsStaged     bool
	LockedBy     string
	SubmitStatus SubmitStatus
}

// Status is the central read model, produced fresh by every Status task and
// stored wholesale in appstate.State.
type Status struct {
	Branch       string
	RemoteBranch string
	DetachedHead bool

	CommitHead       string
	CommitHeadOrigin string
	CommitsAhead     int
	CommitsBehind    int

	CommitsAheadOfTrunk  int
	CommitsBehindTrunk   int

	RepoOwner string
	RepoName  string

	ModifiedFiles  []File
	UntrackedFiles []File

	LockUser    string
	LocksOurs   []gitcli.Lock
	LocksTheirs []gitcli.Lock

	ModifiedUpstream []string
	Conflicts        []string
	ConflictUpstream bool

	DLLCommitLocal   string
	DLLCommitRemote  string
	OriginHasNewDlls bool
}

// HasStagedChanges reports whether any file in ModifiedFiles is staged.
// Invariant 1 of spec.md §3: HasStagedChanges() <=> exists f: f.IsStaged.
func (s *Status) HasStagedChanges() bool {
	for _, f := range s.ModifiedFiles {
		if f.IsStaged {
			return true
		}
	}
	return false
}

// displayName renders a UI-friendly name for path: just the base name.
func displayName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
