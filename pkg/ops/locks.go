package ops

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/ethos-core/ethos-core/pkg/ambient/kinderr"
)

// ErrLockEndpointNotFound signals the LFS-batch HTTP endpoint returned 404,
// used by LockBatchClient implementations to trigger the CLI fallback.
var ErrLockEndpointNotFound = errors.New("ops: lock batch endpoint not found")

// LockResponse names the repo-relative paths a Lock or Unlock call actually
// affected, after directory expansion and the unlocked/ours filtering.
type LockResponse struct {
	Locked []string `json:"locked"`
}

// Lock acquires LFS locks for paths: directory arguments are expanded to
// their contained files (worktree walk) and only files that are currently
// unlocked are attempted. It tries the HTTP batch endpoint first and falls
// back to the per-path CLI on a 404. On success the OS read-only flag is
// cleared. It returns the paths actually locked.
func (o *Operations) Lock(ctx context.Context, paths []string) ([]string, error) {
	if err := o.Locks.Populate(ctx, o.LocalUser); err != nil {
		return nil, kinderr.Wrap(kinderr.Internal, err)
	}

	expanded, err := o.expandPaths(paths)
	if err != nil {
		return nil, kinderr.Wrap(kinderr.Internal, err)
	}

	var toLock []string
	for _, p := range expanded {
		if _, locked := o.Locks.Get(p); !locked {
			toLock = append(toLock, p)
		}
	}
	if len(toLock) == 0 {
		return nil, nil
	}

	if err := o.batchOrFallback(ctx, toLock, false); err != nil {
		return nil, err
	}

	for _, p := range toLock {
		if err := clearReadOnly(filepath.Join(o.Git.Dir(), p)); err != nil {
			return nil, kinderr.Wrap(kinderr.Internal, err)
		}
	}

	if err := o.Locks.Populate(ctx, o.LocalUser); err != nil {
		return nil, kinderr.Wrap(kinderr.Internal, err)
	}
	return toLock, nil
}

// Unlock releases LFS locks for paths we hold: directory arguments are
// expanded to their contained files (worktree walk) and only files locked
// by us are attempted unless force is true. On success the OS read-only
// flag is set. It returns the paths actually unlocked.
func (o *Operations) Unlock(ctx context.Context, paths []string, force bool) ([]string, error) {
	if err := o.Locks.Populate(ctx, o.LocalUser); err != nil {
		return nil, kinderr.Wrap(kinderr.Internal, err)
	}

	expanded, err := o.expandPaths(paths)
	if err != nil {
		return nil, kinderr.Wrap(kinderr.Internal, err)
	}

	var toUnlock []string
	for _, p := range expanded {
		entry, locked := o.Locks.Get(p)
		if !locked {
			continue
		}
		if entry.Ours || force {
			toUnlock = append(toUnlock, p)
		}
	}
	if len(toUnlock) == 0 {
		return nil, nil
	}

	if err := o.batchOrFallback(ctx, toUnlock, true); err != nil {
		return nil, err
	}

	for _, p := range toUnlock {
		if err := setReadOnly(filepath.Join(o.Git.Dir(), p)); err != nil {
			return nil, kinderr.Wrap(kinderr.Internal, err)
		}
	}

	if err := o.Locks.Populate(ctx, o.LocalUser); err != nil {
		return nil, kinderr.Wrap(kinderr.Internal, err)
	}
	return toUnlock, nil
}

// expandPaths walks any path that names a directory in the worktree and
// replaces it with its contained files, repo-relative and slash-separated
// like the rest of the lock paths. Plain file paths pass through unchanged.
func (o *Operations) expandPaths(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		abs := filepath.Join(o.Git.Dir(), p)
		info, err := os.Stat(abs)
		if err != nil {
			if os.IsNotExist(err) {
				out = append(out, p)
				continue
			}
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}

		werr := filepath.Walk(abs, func(walkPath string, walkInfo os.FileInfo, werr error) error {
			if werr != nil {
				return werr
			}
			if walkInfo.IsDir() {
				if filepath.Base(walkPath) == ".git" {
					return filepath.SkipDir
				}
				return nil
			}
			rel, rerr := filepath.Rel(o.Git.Dir(), walkPath)
			if rerr != nil {
				return rerr
			}
			out = append(out, filepath.ToSlash(rel))
			return nil
		})
		if werr != nil {
			return nil, werr
		}
	}
	return out, nil
}

func (o *Operations) batchOrFallback(ctx context.Context, paths []string, unlock bool) error {
	if o.LockBatch != nil {
		err := o.LockBatch.BatchLock(paths, unlock)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrLockEndpointNotFound) {
			return kinderr.Wrap(kinderr.Internal, err)
		}
	}
	if unlock {
		return kinderr.Wrap(kinderr.Internal, o.Git.Unlock(ctx, paths, false))
	}
	return kinderr.Wrap(kinderr.Internal, o.Git.Lock(ctx, paths))
}

func clearReadOnly(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return os.Chmod(path, info.Mode()|0o200)
}

func setReadOnly(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return os.Chmod(path, info.Mode()&^0o222)
}
