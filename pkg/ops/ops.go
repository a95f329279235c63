// Package ops is the operations layer (component C7): cohesive units of
// work scheduled onto the task worker (pkg/taskqueue). Each operation is
// constructed with exactly the collaborator handles it needs and exposes a
// single method that the HTTP surface wraps in a one- or multi-task
// sequence.
package ops

import (
	"github.com/ethos-core/ethos-core/pkg/ambient/config"
	"github.com/ethos-core/ethos-core/pkg/artifact"
	"github.com/ethos-core/ethos-core/pkg/ghub"
	"github.com/ethos-core/ethos-core/pkg/gitcli"
	"github.com/ethos-core/ethos-core/pkg/lockcache"
	"github.com/ethos-core/ethos-core/pkg/longtail"
	"github.com/ethos-core/ethos-core/pkg/repostatus"
)

// EngineRunningChecker answers whether the external editor/engine process
// is believed to be running against this working copy. The real check
// (process enumeration, IPC ping) is engine-/project-specific integration
// and explicitly out of scope; this is the narrow interface the core
// depends on.
type EngineRunningChecker interface {
	IsRunning() (bool, error)
}

// LockBatchClient is the optional HTTP LFS-batch lock endpoint Lock/Unlock
// try before falling back to the CLI. A nil client skips straight to the
// CLI fallback.
type LockBatchClient interface {
	BatchLock(paths []string, unlock bool) error
}

// Operations bundles the collaborator handles every operation needs. One
// instance is constructed per repo and reused across task sequences.
type Operations struct {
	Git        *gitcli.Driver
	Locks      *lockcache.Cache
	Store      *artifact.Store
	Longtail   *longtail.Runner
	GitHub     *ghub.Client
	Classifier repostatus.AssetClassifier
	Engine     EngineRunningChecker
	LockBatch  LockBatchClient
	RepoConfig *config.RepoConfig
	LocalUser  string
}
