package gitcli

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	run("init", "-b", "main")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "Test User")
	return dir
}

func TestRunAndCollectOutput_Basic(t *testing.T) {
	dir := initRepo(t)
	d := New(dir, NopSink{})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hi"), 0o644))
	require.NoError(t, d.Add(context.Background(), []string{"a.txt"}))
	require.NoError(t, d.Commit(context.Background(), "initial"))

	head, err := d.HeadCommit(context.Background())
	require.NoError(t, err)
	require.Len(t, head, 40)
}

func TestRun_FailureClassification_AllIgnored(t *testing.T) {
	dir := initRepo(t)
	d := New(dir, NopSink{})

	// Deleting a branch that doesn't exist fails with a stderr line we can
	// match against an allow-list token.
	err := d.Run(context.Background(), Options{
		Args:          []string{"branch", "-D", "does-not-exist"},
		IgnoredErrors: []string{"not found"},
	})
	require.NoError(t, err)
}

func TestRun_FailureClassification_NotIgnored(t *testing.T) {
	dir := initRepo(t)
	d := New(dir, NopSink{})

	err := d.Run(context.Background(), Options{
		Args:          []string{"branch", "-D", "does-not-exist"},
		IgnoredErrors: []string{"some other token that will never match"},
	})
	require.Error(t, err)
	require.Equal(t, genericFailureMessage, err.Error())
}

func TestRun_ReturnCompleteError(t *testing.T) {
	dir := initRepo(t)
	d := New(dir, NopSink{})

	err := d.Run(context.Background(), Options{
		Args:                []string{"branch", "-D", "does-not-exist"},
		ReturnCompleteError: true,
	})
	require.Error(t, err)
	require.NotEqual(t, genericFailureMessage, err.Error())
}

func TestChanSink_DropsOldestWhenFull(t *testing.T) {
	sink := make(ChanSink, 1)
	sink.Send(LogLine{Text: "first"})
	sink.Send(LogLine{Text: "second"})

	got := <-sink
	require.Equal(t, "second", got.Text)
}

func TestBatching_ChunksAt50(t *testing.T) {
	paths := make([]string, 120)
	for i := range paths {
		paths[i] = "f"
	}
	chunks := chunk(paths, batchSize)
	require.Len(t, chunks, 3)
	require.Len(t, chunks[0], 50)
	require.Len(t, chunks[1], 50)
	require.Len(t, chunks[2], 20)
}
