package ops

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInstallHooks_WritesExecutableTemplates(t *testing.T) {
	dir := repoWithRemote(t)
	o := newOperations(dir)
	o.RepoConfig.GitHooksPath = filepath.Join(dir, ".git", "hooks")

	require.NoError(t, o.InstallHooks(context.Background()))

	info, err := os.Stat(filepath.Join(o.RepoConfig.GitHooksPath, "pre-push"))
	require.NoError(t, err)
	require.NotZero(t, info.Mode()&0o100)
}
