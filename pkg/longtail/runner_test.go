package longtail

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocate_FindsExecutableInUserDataDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, binaryName())
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))

	r, err := Locate(context.Background(), dir, t.TempDir())
	require.NoError(t, err)
	require.Equal(t, path, r.ExecutablePath)
}

func TestLocate_FallsBackThroughCandidatesInOrder(t *testing.T) {
	userDataDir := t.TempDir()
	appDir := t.TempDir()
	appPath := filepath.Join(appDir, binaryName())
	require.NoError(t, os.WriteFile(appPath, []byte("#!/bin/sh\n"), 0o755))

	r, err := Locate(context.Background(), userDataDir, appDir)
	require.NoError(t, err)
	require.Equal(t, appPath, r.ExecutablePath)
}

func TestLocate_ErrorsWhenNotFoundAnywhere(t *testing.T) {
	_, err := Locate(context.Background(), t.TempDir(), t.TempDir())
	require.Error(t, err)
}
