package ops

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ethos-core/ethos-core/pkg/ambient/kinderr"
)

// Revert discards local changes to the given paths: untracked paths are
// deleted from disk, tracked-modified paths are restored from branch, and
// an unlock is issued for everything affected.
func (o *Operations) Revert(ctx context.Context, branch string, untrackedPaths, modifiedPaths []string) error {
	for _, p := range untrackedPaths {
		if err := os.Remove(filepath.Join(o.Git.Dir(), p)); err != nil && !os.IsNotExist(err) {
			return kinderr.Wrap(kinderr.Internal, err)
		}
	}

	if len(modifiedPaths) > 0 {
		if err := o.Git.CheckoutPaths(ctx, branch, modifiedPaths); err != nil {
			return kinderr.Wrap(kinderr.Internal, err)
		}
	}

	affected := append(append([]string{}, untrackedPaths...), modifiedPaths...)
	if len(affected) > 0 {
		if _, err := o.Unlock(ctx, affected, false); err != nil {
			return err
		}
	}
	return nil
}
