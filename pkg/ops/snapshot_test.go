package ops

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnapshotLifecycle(t *testing.T) {
	dir := repoWithRemote(t)
	o := newOperations(dir)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("changed"), 0o644))

	require.NoError(t, o.SaveSnapshot(ctx, "wip", []string{"README.md"}))

	snaps, err := o.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 1)

	require.NoError(t, o.DeleteSnapshot(ctx, snaps[0].SHA))

	snaps, err = o.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Empty(t, snaps)
}
