package gitcli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveSnapshot_ListSnapshots_RoundTrip(t *testing.T) {
	dir := initRepo(t)
	d := New(dir, NopSink{})
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.txt"), []byte("x"), 0o644))
	require.NoError(t, d.Add(ctx, []string{"base.txt"}))
	require.NoError(t, d.Commit(ctx, "base"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("changed"), 0o644))
	require.NoError(t, d.SaveSnapshot(ctx, "my snapshot", []string{"a.txt"}, false))

	snaps, err := d.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	require.Contains(t, snaps[0].Subject, snapshotMarker)

	files, err := d.SnapshotFiles(ctx, snaps[0].SHA)
	require.NoError(t, err)
	require.Equal(t, []string{"a.txt"}, files)
}

// S7: creating 12 snapshots in sequence leaves exactly 10, newest first.
func TestSaveSnapshot_CapsAtTen(t *testing.T) {
	dir := initRepo(t)
	d := New(dir, NopSink{})
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.txt"), []byte("x"), 0o644))
	require.NoError(t, d.Add(ctx, []string{"base.txt"}))
	require.NoError(t, d.Commit(ctx, "base"))

	for i := 0; i < 12; i++ {
		fname := fmt.Sprintf("f%d.txt", i)
		require.NoError(t, os.WriteFile(filepath.Join(dir, fname), []byte("x"), 0o644))
		require.NoError(t, d.SaveSnapshot(ctx, fmt.Sprintf("snap %d", i), []string{fname}, false))
	}

	snaps, err := d.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, maxSnapshots)
}
