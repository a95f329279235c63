// Package testutil provides fake implementations of the small interfaces
// pkg/server and pkg/ops depend on (lockcache.Verifier, ops.EngineRunningChecker,
// repostatus.AssetClassifier), so integration-style tests can exercise the
// HTTP surface without a real `git lfs` lock service or engine process to
// poll.
package testutil

import (
	"context"

	"github.com/ethos-core/ethos-core/pkg/gitcli"
)

// FakeLockVerifier is a lockcache.Verifier that returns a fixed, settable
// result instead of shelling out to `git lfs locks --verify`.
type FakeLockVerifier struct {
	Result *gitcli.LockVerifyResult
	Err    error
}

// VerifyLocks returns the configured Result/Err, defaulting to an empty,
// error-free result when neither is set.
func (f FakeLockVerifier) VerifyLocks(ctx context.Context) (*gitcli.LockVerifyResult, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Result != nil {
		return f.Result, nil
	}
	return &gitcli.LockVerifyResult{}, nil
}

// FakeClassifier is a repostatus.AssetClassifier that reports every path as
// not lockable unless explicitly listed.
type FakeClassifier struct {
	Lockable map[string]bool
}

// IsLockable reports whether path was marked lockable.
func (f FakeClassifier) IsLockable(path string) bool {
	return f.Lockable[path]
}

// FakeEngineChecker is an ops.EngineRunningChecker with a fixed answer.
type FakeEngineChecker struct {
	Running bool
	Err     error
}

// IsRunning returns the configured Running/Err.
func (f FakeEngineChecker) IsRunning() (bool, error) {
	return f.Running, f.Err
}
