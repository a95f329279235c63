package ops

import "context"

// Add stages paths (batched internally by the git driver).
func (o *Operations) Add(ctx context.Context, paths []string) error {
	return o.Git.Add(ctx, paths)
}

// Restore unstages paths (batched internally by the git driver).
func (o *Operations) Restore(ctx context.Context, paths []string) error {
	return o.Git.RestoreStaged(ctx, paths)
}
