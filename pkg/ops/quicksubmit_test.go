package ops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethos-core/ethos-core/pkg/repostatus"
)

func TestSanitizeUser_LowercasesAndReplacesPunctuation(t *testing.T) {
	require.Equal(t, "jane-doe", sanitizeUser("Jane.Doe"))
	require.Equal(t, "a-b-c", sanitizeUser("a_b@c"))
}

func TestRequireOkStatus_RejectsUnknownFile(t *testing.T) {
	status := &repostatus.Status{}
	err := requireOkStatus(status, []string{"missing.txt"})
	require.Error(t, err)
}

func TestRequireOkStatus_RejectsNonOkFile(t *testing.T) {
	status := &repostatus.Status{
		ModifiedFiles: []repostatus.File{{Path: "a.txt", SubmitStatus: repostatus.Conflicted}},
	}
	err := requireOkStatus(status, []string{"a.txt"})
	require.Error(t, err)
}

func TestRequireOkStatus_AcceptsOkFiles(t *testing.T) {
	status := &repostatus.Status{
		ModifiedFiles:  []repostatus.File{{Path: "a.txt", SubmitStatus: repostatus.Ok}},
		UntrackedFiles: []repostatus.File{{Path: "b.txt", SubmitStatus: repostatus.Ok}},
	}
	require.NoError(t, requireOkStatus(status, []string{"a.txt", "b.txt"}))
}

func TestAllChangedPaths_CombinesBothLists(t *testing.T) {
	status := &repostatus.Status{
		ModifiedFiles:  []repostatus.File{{Path: "a.txt"}},
		UntrackedFiles: []repostatus.File{{Path: "b.txt"}},
	}
	require.ElementsMatch(t, []string{"a.txt", "b.txt"}, allChangedPaths(status))
}

func TestQuickSubmit_RejectsEmptyRequest(t *testing.T) {
	dir := repoWithRemote(t)
	o := newOperations(dir)
	_, err := o.QuickSubmit(context.Background(), SubmitRequest{Target: "main"}, &repostatus.Status{})
	require.Error(t, err)
}
