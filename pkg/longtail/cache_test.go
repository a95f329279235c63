package longtail

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeChunk(t *testing.T, dir, name string, size int, mtime time.Time) {
	t.Helper()
	path := filepath.Join(dir, "chunks", name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestEvictToCapacity_RemovesOldestFirst(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeChunk(t, dir, "a", 1024*1024, now.Add(-3*time.Hour))
	writeChunk(t, dir, "b", 1024*1024, now.Add(-2*time.Hour))
	writeChunk(t, dir, "c", 1024*1024, now.Add(-1*time.Hour))

	require.NoError(t, EvictToCapacity(dir, 2))

	_, errA := os.Stat(filepath.Join(dir, "chunks", "a"))
	require.True(t, os.IsNotExist(errA), "oldest chunk should have been evicted")
	_, errB := os.Stat(filepath.Join(dir, "chunks", "b"))
	require.NoError(t, errB)
	_, errC := os.Stat(filepath.Join(dir, "chunks", "c"))
	require.NoError(t, errC)
}

func TestEvictToCapacity_NoopWhenUnderCap(t *testing.T) {
	dir := t.TempDir()
	writeChunk(t, dir, "a", 1024, time.Now())
	require.NoError(t, EvictToCapacity(dir, 5))
	_, err := os.Stat(filepath.Join(dir, "chunks", "a"))
	require.NoError(t, err)
}

func TestEvictToCapacity_MissingCacheDirIsNotAnError(t *testing.T) {
	require.NoError(t, EvictToCapacity(t.TempDir(), 5))
}

func TestClearCache_RemovesChunksSubtree(t *testing.T) {
	dir := t.TempDir()
	writeChunk(t, dir, "a", 10, time.Now())
	require.NoError(t, ClearCache(dir))
	_, err := os.Stat(filepath.Join(dir, "chunks"))
	require.True(t, os.IsNotExist(err))
}
