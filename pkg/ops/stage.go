package ops

import (
	"context"

	"github.com/ethos-core/ethos-core/pkg/gitcli"
	"github.com/ethos-core/ethos-core/pkg/repostatus"
)

// stageOnly adds requestedFiles to the index and restores (unstages) any
// other file status already reports as staged, so a commit built from this
// index contains exactly the files the caller asked for, regardless of
// what else happened to be staged beforehand.
func stageOnly(ctx context.Context, git *gitcli.Driver, status *repostatus.Status, requestedFiles []string) error {
	requested := make(map[string]bool, len(requestedFiles))
	for _, f := range requestedFiles {
		requested[f] = true
	}

	var toUnstage []string
	for _, f := range status.ModifiedFiles {
		if f.IsStaged && !requested[f.Path] {
			toUnstage = append(toUnstage, f.Path)
		}
	}

	if err := git.Add(ctx, requestedFiles); err != nil {
		return err
	}
	if len(toUnstage) > 0 {
		if err := git.RestoreStaged(ctx, toUnstage); err != nil {
			return err
		}
	}
	return nil
}
