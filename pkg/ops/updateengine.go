package ops

import (
	"context"

	"github.com/ethos-core/ethos-core/pkg/ambient/kinderr"
	"github.com/ethos-core/ethos-core/pkg/artifact"
	"github.com/ethos-core/ethos-core/pkg/gitcli"
	"github.com/ethos-core/ethos-core/pkg/longtail"
)

// EngineRegistry manages the OS-level association between an engine install
// GUID and its directory, used on Windows so the shell/editor launcher can
// find an engine version it didn't itself install. Implementations:
// engineregistry.Windows (golang.org/x/sys/windows/registry) and
// engineregistry.Nop elsewhere.
type EngineRegistry interface {
	// Associate records that guid points at dir, pruning any existing
	// key that already points at dir under a different GUID.
	Associate(guid, dir string) error
}

// EngineAssociation is an already-resolved engine version to install:
// parsing the .uproject file to discover it is project-specific
// integration and out of scope here, so callers resolve it upstream.
type EngineAssociation struct {
	GUID string
	SHA  string
}

// UpdateEngineOptions selects how to materialize an engine version.
type UpdateEngineOptions struct {
	Association EngineAssociation

	// Prebuilt mode: fetch an archive via Longtail.
	Prebuilt    bool
	Owner, Repo string
	Kind        artifact.Kind
	Platform    artifact.Platform
	Config      artifact.BuildConfig
	StagingDir  string
	InstallDir  string
	CacheDir    string
	CacheCapMiB int64

	// Source mode: check out the engine repo at Association.SHA.
	EngineRepoDir string
}

// UpdateEngine materializes the engine version named by opts.Association,
// either by downloading a prebuilt archive (Prebuilt) or by checking out
// the engine source repo at the pinned commit, then records the
// GUID-to-directory association in the engine registry.
func (o *Operations) UpdateEngine(ctx context.Context, opts UpdateEngineOptions, registry EngineRegistry, sink gitcli.Sink) error {
	var installDir string

	if opts.Prebuilt {
		entry, err := o.Store.GetByShortSHA(ctx, opts.Owner, opts.Repo, opts.Kind, opts.Platform, opts.Config, opts.Association.SHA)
		if err != nil {
			return kinderr.Wrap(kinderr.Input, err)
		}
		fetchOpts := longtail.FetchOptions{
			ArchiveURLs: []string{entry.Key},
			TargetDir:   opts.StagingDir,
			CacheDir:    opts.CacheDir,
			CacheCapMiB: opts.CacheCapMiB,
		}
		if err := o.Longtail.Fetch(ctx, fetchOpts, sink); err != nil {
			return kinderr.Wrap(kinderr.Internal, err)
		}
		if err := copyTree(opts.StagingDir, opts.InstallDir); err != nil {
			return kinderr.Wrap(kinderr.Internal, err)
		}
		installDir = opts.InstallDir
	} else {
		engineGit := gitcli.New(opts.EngineRepoDir, sink)
		if err := engineGit.Checkout(ctx, opts.Association.SHA, false); err != nil {
			return kinderr.Wrap(kinderr.Internal, err)
		}
		installDir = opts.EngineRepoDir
	}

	if registry != nil {
		if err := registry.Associate(opts.Association.GUID, installDir); err != nil {
			return kinderr.Wrap(kinderr.Internal, err)
		}
	}
	return nil
}
