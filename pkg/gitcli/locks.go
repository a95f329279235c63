package gitcli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Lock is one entry returned by `git lfs locks --verify`.
type Lock struct {
	ID       string `json:"id"`
	Path     string `json:"path"`
	Owner    lockOwner `json:"owner"`
	LockedAt string `json:"locked_at"`
}

type lockOwner struct {
	Name string `json:"name"`
}

// OwnerLogin returns the owner's login, or empty if unset.
func (l Lock) OwnerLogin() string { return l.Owner.Name }

// LockVerifyResult is the parsed response of `git lfs locks --verify --json`.
type LockVerifyResult struct {
	Ours   []Lock `json:"ours"`
	Theirs []Lock `json:"theirs"`
}

// lockCacheCorruptionMarker is the substring spec.md §4.1 says identifies a
// corrupted LFS lock-cache file. Widening this to "any parse error from the
// verify output" was considered (spec.md §9 flags it as a reasonable
// widening) but is not done here: the narrow match is kept so a genuine
// auth/network failure from `git lfs locks --verify` is never mistaken for
// cache corruption and silently "fixed" by deleting unrelated state.
const lockCacheCorruptionMarker = "lockcache.db"

// VerifyLocks runs `git lfs locks --verify --json`. If it fails with an
// error mentioning the corrupted lock-cache file, that file is deleted and
// the command retried exactly once (spec.md §4.1, §7).
func (d *Driver) VerifyLocks(ctx context.Context) (*LockVerifyResult, error) {
	res, err := d.RunAndCollectOutput(ctx, Options{
		Args:                []string{"lfs", "locks", "--verify", "--json"},
		ReturnCompleteError: true,
	})
	if err != nil {
		if strings.Contains(err.Error(), lockCacheCorruptionMarker) {
			if rmErr := d.deleteLockCacheFile(); rmErr != nil {
				return nil, fmt.Errorf("verify locks: corrupt cache delete failed: %w (original error: %v)", rmErr, err)
			}
			res, err = d.RunAndCollectOutput(ctx, Options{
				Args:                []string{"lfs", "locks", "--verify", "--json"},
				ReturnCompleteError: true,
			})
			if err != nil {
				return nil, fmt.Errorf("verify locks: retry after cache delete failed: %w", err)
			}
		} else {
			return nil, err
		}
	}

	var parsed LockVerifyResult
	if jerr := json.Unmarshal([]byte(strings.Join(res.Stdout, "\n")), &parsed); jerr != nil {
		return nil, fmt.Errorf("verify locks: decoding json failed: %w", jerr)
	}
	return &parsed, nil
}

func (d *Driver) deleteLockCacheFile() error {
	path := filepath.Join(d.dir, ".git", "lfs", "lockcache.db")
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Lock acquires LFS locks for paths via the CLI fallback (used when the
// batch HTTP endpoint in pkg/ops returns 404).
func (d *Driver) Lock(ctx context.Context, paths []string) error {
	for _, p := range paths {
		if err := d.Run(ctx, Options{Args: []string{"lfs", "lock", p}, ReturnCompleteError: true}); err != nil {
			return err
		}
	}
	return nil
}

// Unlock releases LFS locks for paths via the CLI fallback. If force is
// true, locks held by other users are also released (`--force`).
func (d *Driver) Unlock(ctx context.Context, paths []string, force bool) error {
	for _, p := range paths {
		args := []string{"lfs", "unlock", p}
		if force {
			args = append(args, "--force")
		}
		if err := d.Run(ctx, Options{Args: args, ReturnCompleteError: true}); err != nil {
			return err
		}
	}
	return nil
}
