package ops

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingLockBatch struct {
	calls       [][]string
	unlockCalls [][]string
	notFound    bool
}

func (r *recordingLockBatch) BatchLock(paths []string, unlock bool) error {
	if r.notFound {
		return ErrLockEndpointNotFound
	}
	if unlock {
		r.unlockCalls = append(r.unlockCalls, paths)
	} else {
		r.calls = append(r.calls, paths)
	}
	return nil
}

func TestLock_UsesBatchEndpointWhenAvailable(t *testing.T) {
	dir := repoWithRemote(t)
	o := newOperations(dir)
	batch := &recordingLockBatch{}
	o.LockBatch = batch

	path := filepath.Join(dir, "asset.bin")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	locked, err := o.Lock(context.Background(), []string{"asset.bin"})
	require.NoError(t, err)
	require.Equal(t, []string{"asset.bin"}, locked)
	require.Len(t, batch.calls, 1)
	require.Equal(t, []string{"asset.bin"}, batch.calls[0])
}

func TestLock_ExpandsDirectoryToContainedFiles(t *testing.T) {
	dir := repoWithRemote(t)
	o := newOperations(dir)
	batch := &recordingLockBatch{}
	o.LockBatch = batch

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets", "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "a.uasset"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "sub", "b.uasset"), []byte("x"), 0o644))

	locked, err := o.Lock(context.Background(), []string{"assets"})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"assets/a.uasset", "assets/sub/b.uasset"}, locked)
	require.Len(t, batch.calls, 1)
	require.ElementsMatch(t, []string{"assets/a.uasset", "assets/sub/b.uasset"}, batch.calls[0])
}

func TestLock_FallsBackToCliOn404(t *testing.T) {
	dir := repoWithRemote(t)
	o := newOperations(dir)
	o.LockBatch = &recordingLockBatch{notFound: true}

	err := o.batchOrFallback(context.Background(), []string{"asset.bin"}, false)
	// Falls through to `git lfs lock`, which fails here because git-lfs
	// isn't initialized in this fixture; the point under test is that the
	// 404 path reaches the CLI fallback rather than surfacing
	// ErrLockEndpointNotFound itself.
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrLockEndpointNotFound))
}

func TestClearReadOnly_SetReadOnly_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	require.NoError(t, setReadOnly(path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0), info.Mode()&0o222)

	require.NoError(t, clearReadOnly(path))
	info, err = os.Stat(path)
	require.NoError(t, err)
	require.NotEqual(t, os.FileMode(0), info.Mode()&0o200)
}

func TestClearReadOnly_MissingFileIsNotError(t *testing.T) {
	require.NoError(t, clearReadOnly(filepath.Join(t.TempDir(), "missing.txt")))
}
