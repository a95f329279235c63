package repostatus

import (
	"context"
	"testing"

	"github.com/ethos-core/ethos-core/pkg/gitcli"
	"github.com/ethos-core/ethos-core/pkg/lockcache"
	"github.com/stretchr/testify/require"
)

type fakeGit struct {
	statusLines []string
	diffs       map[string][]string
	logs        map[string][]gitcli.LogEntry
	remoteURL   string
	fetchErr    error
}

func (f *fakeGit) Fetch(ctx context.Context, prune bool) error { return f.fetchErr }

func (f *fakeGit) StatusPorcelain(ctx context.Context) ([]string, error) {
	return f.statusLines, nil
}

func (f *fakeGit) DiffFilenames(ctx context.Context, rangeExpr string) ([]string, error) {
	return f.diffs[rangeExpr], nil
}

func (f *fakeGit) Log(ctx context.Context, limit int, ref string) ([]gitcli.LogEntry, error) {
	return f.logs[ref], nil
}

func (f *fakeGit) RemoteOriginURL(ctx context.Context) (string, error) {
	return f.remoteURL, nil
}

type fakeLocks struct {
	ours, theirs []lockcache.Entry
}

func (f *fakeLocks) Populate(ctx context.Context, localUser string) error { return nil }

func (f *fakeLocks) Snapshot() (ours, theirs []lockcache.Entry) {
	return f.ours, f.theirs
}

func TestCompute_ParsesBranchHeaderAndFiles(t *testing.T) {
	git := &fakeGit{
		statusLines: []string{
			"# branch.oid abc123",
			"# branch.head feature/x",
			"# branch.upstream origin/feature/x",
			"# branch.ab +2 -1",
			"1 M. N... 100644 100644 100644 abc def src/a.go",
			"? new.txt",
		},
		diffs: map[string][]string{
			"HEAD~2...HEAD":  {"src/a.go"},
			"HEAD...main":    {},
		},
		logs: map[string][]gitcli.LogEntry{
			"FETCH_HEAD": {{SHA: "deadbeef"}},
		},
		remoteURL: "git@github.com:Acme/Game.git",
	}
	locks := &fakeLocks{}

	st, err := Compute(context.Background(), git, locks, Options{LocalUser: "me", TrunkBranch: "main"})
	require.NoError(t, err)
	require.Equal(t, "feature/x", st.Branch)
	require.Equal(t, "origin/feature/x", st.RemoteBranch)
	require.Equal(t, 2, st.CommitsAhead)
	require.Equal(t, 1, st.CommitsBehind)
	require.Len(t, st.ModifiedFiles, 1)
	require.True(t, st.ModifiedFiles[0].IsStaged)
	require.Len(t, st.UntrackedFiles, 1)
	require.Equal(t, "new.txt", st.UntrackedFiles[0].Path)
	require.Equal(t, "deadbeef", st.CommitHeadOrigin)
}

func TestParseRemoteURL_SSHStyle(t *testing.T) {
	owner, name := parseRemoteURL("git@github.com:Acme/Game.git")
	// ssh-scp-style URLs do not split into 5 parts on '/'; boundary case
	// yields empty owner/name rather than panicking.
	require.Equal(t, "", owner)
	require.Equal(t, "", name)
}

func TestParseRemoteURL_HTTPSStyle(t *testing.T) {
	owner, name := parseRemoteURL("https://github.com/Acme/Game.git")
	require.Equal(t, "Acme", owner)
	require.Equal(t, "Game", name)
}

func TestCompute_ConflictDetection(t *testing.T) {
	git := &fakeGit{
		statusLines: []string{
			"# branch.oid abc123",
			"# branch.head feature/x",
			"# branch.upstream origin/feature/x",
			"# branch.ab +0 -0",
			"1 M. N... 100644 100644 100644 abc def shared.txt",
		},
		diffs: map[string][]string{
			"HEAD...main": {"shared.txt", "other.txt"},
		},
		logs:      map[string][]gitcli.LogEntry{},
		remoteURL: "",
	}
	locks := &fakeLocks{}

	st, err := Compute(context.Background(), git, locks, Options{LocalUser: "me", TrunkBranch: "main"})
	require.NoError(t, err)
	require.True(t, st.ConflictUpstream)
	require.Contains(t, st.Conflicts, "shared.txt")
	require.NotContains(t, st.Conflicts, "other.txt")
}
