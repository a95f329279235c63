package repostatus

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/ethos-core/ethos-core/pkg/gitcli"
	"github.com/ethos-core/ethos-core/pkg/lockcache"
)

// GitDriver is the subset of *gitcli.Driver the status computer needs, kept
// as an interface so tests can substitute a fake.
type GitDriver interface {
	Fetch(ctx context.Context, prune bool) error
	StatusPorcelain(ctx context.Context) ([]string, error)
	DiffFilenames(ctx context.Context, rangeExpr string) ([]string, error)
	Log(ctx context.Context, limit int, ref string) ([]gitcli.LogEntry, error)
	RemoteOriginURL(ctx context.Context) (string, error)
}

// LockVerifier is the subset of *lockcache.Cache the status computer reads
// from after a reconcile.
type LockVerifier interface {
	Populate(ctx context.Context, localUser string) error
	Snapshot() (ours, theirs []lockcache.Entry)
}

// AssetClassifier decides whether a path requires an LFS lock to submit.
// This is the "engine collaborator" named out-of-scope by spec.md §1;
// Status depends only on this narrow interface.
type AssetClassifier interface {
	IsLockable(path string) bool
}

// ArtifactResolver resolves which of a list of candidate SHAs (most recent
// first) is the newest one with a published build, used for the
// dll_commit_local/remote computation (spec.md §4.3 step 10).
type ArtifactResolver interface {
	NewestBuildSHA(ctx context.Context, candidatesMostRecentFirst []string) (sha string, found bool, err error)
}

// Options configures one Compute call.
type Options struct {
	LocalUser       string
	TrunkBranch     string
	SkipFetch       bool
	SkipDllCheck    bool
	Classifier      AssetClassifier
	ArtifactResolve ArtifactResolver // nil disables step 10 entirely
	Previous        *Status          // carried-forward DLL pointers
}

// Compute runs the full status pipeline (spec.md §4.3, steps 1-11).
func Compute(ctx context.Context, git GitDriver, locks LockVerifier, opts Options) (*Status, error) {
	if !opts.SkipFetch {
		if err := git.Fetch(ctx, false); err != nil {
			return nil, fmt.Errorf("status: fetch failed: %w", err)
		}
	}

	// Step 1: run git status and lock verification concurrently.
	var (
		wg          sync.WaitGroup
		statusLines []string
		statusErr   error
		lockErr     error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		statusLines, statusErr = git.StatusPorcelain(ctx)
	}()
	go func() {
		defer wg.Done()
		lockErr = locks.Populate(ctx, opts.LocalUser)
	}()
	wg.Wait()
	if statusErr != nil {
		return nil, fmt.Errorf("status: git status failed: %w", statusErr)
	}
	if lockErr != nil {
		return nil, fmt.Errorf("status: lock verify failed: %w", lockErr)
	}

	st := &Status{}

	// Step 2: carry forward expensive-to-recompute fields.
	if opts.Previous != nil {
		st.DLLCommitLocal = opts.Previous.DLLCommitLocal
		st.DLLCommitRemote = opts.Previous.DLLCommitRemote
		st.OriginHasNewDlls = opts.Previous.OriginHasNewDlls
	}

	// Step 3: parse porcelain output.
	parsePorcelain(statusLines, st)

	// Step 4: if ahead, compute committed-but-not-pushed file set.
	var committedLocally []string
	if st.CommitsAhead > 0 {
		var err error
		committedLocally, err = git.DiffFilenames(ctx, fmt.Sprintf("HEAD~%d...HEAD", st.CommitsAhead))
		if err != nil {
			return nil, fmt.Errorf("status: diffing committed-ahead files failed: %w", err)
		}
	}

	// Step 5: install locks.
	ours, theirs := locks.Snapshot()
	for _, e := range ours {
		st.LocksOurs = append(st.LocksOurs, e.Lock)
	}
	for _, e := range theirs {
		st.LocksTheirs = append(st.LocksTheirs, e.Lock)
	}
	st.LockUser = opts.LocalUser

	// Step 6: resolve origin HEAD and owner/name.
	if entries, err := git.Log(ctx, 1, "FETCH_HEAD"); err == nil && len(entries) > 0 {
		st.CommitHeadOrigin = entries[0].SHA
	}
	if url, err := git.RemoteOriginURL(ctx); err == nil {
		st.RepoOwner, st.RepoName = parseRemoteURL(url)
	}

	// Step 7: upstream-modified files relative to trunk (not upstream).
	trunk := opts.TrunkBranch
	if trunk == "" {
		trunk = "main"
	}
	modifiedUpstream, err := git.DiffFilenames(ctx, fmt.Sprintf("HEAD...%s", trunk))
	if err != nil {
		return nil, fmt.Errorf("status: diffing against trunk failed: %w", err)
	}
	if isQuickSubmitBranch(st.Branch) {
		authored, err := authoredByLocalUserFiles(ctx, git, opts.LocalUser, trunk, st.Branch)
		if err == nil {
			modifiedUpstream = subtract(modifiedUpstream, authored)
		}
	}
	st.ModifiedUpstream = modifiedUpstream

	// Step 8: conflicts.
	currentlyModifiedAndUntracked := allPaths(st.ModifiedFiles, st.UntrackedFiles)
	localChanged := union(committedLocally, currentlyModifiedAndUntracked)
	st.Conflicts = intersect(st.ModifiedUpstream, localChanged)
	st.ConflictUpstream = len(st.Conflicts) > 0

	// Step 9: per-file submit status.
	conflictSet := toSet(st.Conflicts)
	lockedByPath := make(map[string]gitcli.Lock, len(st.LocksTheirs))
	for _, l := range st.LocksTheirs {
		lockedByPath[l.Path] = l
	}
	ourLockedPaths := toSet(pathsOf(st.LocksOurs))

	assignSubmitStatus := func(f *File) {
		switch {
		case f.State == Unmerged:
			f.SubmitStatus = SubmitUnmerged
		case conflictSet[f.Path]:
			f.SubmitStatus = Conflicted
		case opts.Classifier != nil && opts.Classifier.IsLockable(f.Path):
			if l, ok := lockedByPath[f.Path]; ok {
				f.SubmitStatus = CheckedOutByOtherUser
				f.LockedBy = l.OwnerLogin()
			} else if ourLockedPaths[f.Path] {
				f.LockedBy = opts.LocalUser
				f.SubmitStatus = Ok
			} else {
				f.SubmitStatus = CheckoutRequired
			}
		default:
			f.SubmitStatus = Ok
		}
	}
	for i := range st.ModifiedFiles {
		assignSubmitStatus(&st.ModifiedFiles[i])
	}
	for i := range st.UntrackedFiles {
		assignSubmitStatus(&st.UntrackedFiles[i])
	}

	// Step 10: optional DLL/engine-build resolution.
	if !opts.SkipDllCheck && opts.ArtifactResolve != nil {
		if err := resolveDllPointers(ctx, git, opts, st); err != nil {
			// Best-effort: a failure here shouldn't fail the whole status.
			st.OriginHasNewDlls = false
		}
	}

	return st, nil
}

func resolveDllPointers(ctx context.Context, git GitDriver, opts Options, st *Status) error {
	trunk := opts.TrunkBranch
	if trunk == "" {
		trunk = "main"
	}
	localLog, err := git.Log(ctx, 50, trunk)
	if err != nil {
		return err
	}
	remoteLog, err := git.Log(ctx, 50, "origin/"+trunk)
	if err != nil {
		return err
	}
	localSHAs := shasOf(localLog)
	remoteSHAs := shasOf(remoteLog)

	if sha, found, err := opts.ArtifactResolve.NewestBuildSHA(ctx, localSHAs); err == nil && found {
		st.DLLCommitLocal = sha
	}
	if sha, found, err := opts.ArtifactResolve.NewestBuildSHA(ctx, remoteSHAs); err == nil && found {
		st.DLLCommitRemote = sha
	}
	st.OriginHasNewDlls = st.DLLCommitRemote != "" && st.DLLCommitRemote != st.DLLCommitLocal
	return nil
}

func shasOf(entries []gitcli.LogEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.SHA
	}
	return out
}

var (
	branchOidRE      = regexp.MustCompile(`^# branch\.oid (.+)$`)
	branchHeadRE     = regexp.MustCompile(`^# branch\.head (.+)$`)
	branchUpstreamRE = regexp.MustCompile(`^# branch\.upstream (.+)$`)
	branchAbRE       = regexp.MustCompile(`^# branch\.ab \+(\d+) -(\d+)$`)
)

func parsePorcelain(lines []string, st *Status) {
	for _, line := range lines {
		switch {
		case branchHeadRE.MatchString(line):
			head := branchHeadRE.FindStringSubmatch(line)[1]
			if head == "(detached)" {
				st.DetachedHead = true
				st.Branch = ""
			} else {
				st.Branch = head
			}
		case branchUpstreamRE.MatchString(line):
			st.RemoteBranch = branchUpstreamRE.FindStringSubmatch(line)[1]
		case branchAbRE.MatchString(line):
			m := branchAbRE.FindStringSubmatch(line)
			st.CommitsAhead, _ = strconv.Atoi(m[1])
			st.CommitsBehind, _ = strconv.Atoi(m[2])
		case branchOidRE.MatchString(line):
			oid := branchOidRE.FindStringSubmatch(line)[1]
			if oid != "(initial)" {
				st.CommitHead = oid
			}
		case strings.HasPrefix(line, "? "):
			path := strings.TrimPrefix(line, "? ")
			st.UntrackedFiles = append(st.UntrackedFiles, File{
				Path: path, DisplayName: displayName(path), State: Added, IsStaged: false,
			})
		case strings.HasPrefix(line, "1 "), strings.HasPrefix(line, "2 "):
			f, ok := parseOrdinaryEntry(line)
			if ok {
				st.ModifiedFiles = append(st.ModifiedFiles, f)
			}
		case strings.HasPrefix(line, "u "):
			f, ok := parseUnmergedEntry(line)
			if ok {
				st.ModifiedFiles = append(st.ModifiedFiles, f)
			}
		}
	}
}

func parseOrdinaryEntry(line string) (File, bool) {
	fields := strings.SplitN(line, " ", 9)
	if len(fields) < 9 {
		return File{}, false
	}
	xy := fields[1]
	if len(xy) != 2 {
		return File{}, false
	}
	x, y := xy[0], xy[1]
	path := fields[8]
	if idx := strings.Index(path, "\t"); idx >= 0 {
		path = path[:idx]
	}
	return File{
		Path:        path,
		DisplayName: displayName(path),
		State:       deriveState(x, y),
		IsStaged:    x != '.',
	}, true
}

func parseUnmergedEntry(line string) (File, bool) {
	fields := strings.SplitN(line, " ", 11)
	if len(fields) < 11 {
		return File{}, false
	}
	path := fields[10]
	return File{Path: path, DisplayName: displayName(path), State: Unmerged, IsStaged: false}, true
}

func deriveState(x, y byte) FileState {
	code := y
	if code == '.' {
		code = x
	}
	switch code {
	case 'M', 'R', 'C':
		return Modified
	case 'A':
		return Added
	case 'D':
		return Deleted
	case 'U':
		return Unmerged
	default:
		return Unknown
	}
}

// parseRemoteURL splits a remote.origin.url on '/' and returns fields 4 and
// 5 (1-indexed), stripping a trailing ".git" from the repo name. A URL with
// fewer than five slash-segments yields empty owner/name rather than
// panicking (spec.md §8 boundary case).
func parseRemoteURL(url string) (owner, name string) {
	parts := strings.Split(url, "/")
	if len(parts) < 5 {
		return "", ""
	}
	owner = parts[3]
	name = strings.TrimSuffix(parts[4], ".git")
	return owner, name
}

func isQuickSubmitBranch(branch string) bool {
	return strings.HasPrefix(branch, "f11r")
}

// authoredByLocalUserFiles returns the set of files touched only by commits
// the local user authored between trunk and head. This is intentionally
// best-effort (spec.md §9): it does not handle co-authors or email/login
// mismatches, matching the known smell flagged in the original system.
func authoredByLocalUserFiles(ctx context.Context, git GitDriver, localUser, trunk, head string) ([]string, error) {
	entries, err := git.Log(ctx, 0, fmt.Sprintf("%s..%s", trunk, head))
	if err != nil {
		return nil, err
	}
	var authoredRefs []string
	for _, e := range entries {
		if e.Author == localUser {
			authoredRefs = append(authoredRefs, e.SHA)
		}
	}
	var files []string
	for _, sha := range authoredRefs {
		fs, err := git.DiffFilenames(ctx, fmt.Sprintf("%s~1...%s", sha, sha))
		if err != nil {
			continue
		}
		files = append(files, fs...)
	}
	return files, nil
}

func allPaths(groups ...[]File) []string {
	var out []string
	for _, g := range groups {
		for _, f := range g {
			out = append(out, f.Path)
		}
	}
	return out
}

func pathsOf(locks []gitcli.Lock) []string {
	out := make([]string, len(locks))
	for i, l := range locks {
		out[i] = l.Path
	}
	return out
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, i := range items {
		set[i] = true
	}
	return set
}

func union(a, b []string) []string {
	set := toSet(a)
	for _, x := range b {
		set[x] = true
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

func intersect(a, b []string) []string {
	set := toSet(b)
	var out []string
	for _, x := range a {
		if set[x] {
			out = append(out, x)
		}
	}
	return out
}

func subtract(a, b []string) []string {
	set := toSet(b)
	var out []string
	for _, x := range a {
		if !set[x] {
			out = append(out, x)
		}
	}
	return out
}
