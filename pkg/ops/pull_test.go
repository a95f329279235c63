package ops

import (
	"context"
	"testing"

	"github.com/ethos-core/ethos-core/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestHasDirtyEntries(t *testing.T) {
	require.True(t, hasDirtyEntries([]string{"1 .M N... 100644 100644 100644 abc abc a.txt"}))
	require.True(t, hasDirtyEntries([]string{"? b.txt"}))
	require.False(t, hasDirtyEntries([]string{"# branch.oid abc123"}))
	require.False(t, hasDirtyEntries(nil))
}

func TestPull_RefusesWhenEngineRunning(t *testing.T) {
	dir := repoWithRemote(t)
	o := newOperations(dir)
	o.Engine = testutil.FakeEngineChecker{Running: true}

	_, err := o.Pull(context.Background(), PullDeps{})
	require.Error(t, err)
}

func TestPull_NoOpWhenUpToDate(t *testing.T) {
	dir := repoWithRemote(t)
	o := newOperations(dir)

	result, err := o.Pull(context.Background(), PullDeps{})
	require.NoError(t, err)
	require.False(t, result.Rebased)
	require.Empty(t, result.QuickSubmitBranchDeleted)
}
