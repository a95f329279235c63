package ops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCopyTree_CopiesFilesAndSkipsIndexCache(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(src, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "nested", "b.txt"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, longtailIndexCacheName), []byte("stale"), 0o644))

	require.NoError(t, copyTree(src, dst))

	data, err := os.ReadFile(filepath.Join(dst, "a.txt"))
	require.NoError(t, err)
	require.Equal(t, "a", string(data))

	data, err = os.ReadFile(filepath.Join(dst, "nested", "b.txt"))
	require.NoError(t, err)
	require.Equal(t, "b", string(data))

	_, err = os.Stat(filepath.Join(dst, longtailIndexCacheName))
	require.True(t, os.IsNotExist(err))
}

func TestClearStagingDir_RecreatesEmpty(t *testing.T) {
	dir := t.TempDir()
	staging := filepath.Join(dir, "staging")
	require.NoError(t, os.MkdirAll(staging, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staging, "leftover.txt"), []byte("x"), 0o644))

	require.NoError(t, clearStagingDir(staging))

	entries, err := os.ReadDir(staging)
	require.NoError(t, err)
	require.Empty(t, entries)
}
