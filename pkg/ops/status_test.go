package ops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatus_ReturnsBranchForFreshRepo(t *testing.T) {
	dir := repoWithRemote(t)
	o := newOperations(dir)

	status, err := o.Status(context.Background(), StatusOptions{SkipFetch: true})
	require.NoError(t, err)
	require.Equal(t, "main", status.Branch)
	require.False(t, status.DetachedHead)
}
