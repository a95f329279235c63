package ops

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ethos-core/ethos-core/pkg/ambient/kinderr"
	"github.com/ethos-core/ethos-core/pkg/artifact"
	"github.com/ethos-core/ethos-core/pkg/gitcli"
	"github.com/ethos-core/ethos-core/pkg/longtail"
)

// DownloadDllsOptions selects which prebuilt editor-DLL archive to fetch.
type DownloadDllsOptions struct {
	Owner, Repo string
	Kind        artifact.Kind
	Platform    artifact.Platform
	Config      artifact.BuildConfig
	ShortSHA    string
	StagingDir  string
	WorkingDir  string
	CacheDir    string
	CacheCapMiB int64
}

// longtailIndexCacheName is the per-directory index cache Longtail leaves
// behind; it must be deleted before a fresh fetch into the same staging
// directory or Longtail will trust stale data. DownloadDlls deletes it from
// the staging directory after copying, and copyTree never copies it.
const longtailIndexCacheName = ".longtail.index.cache.lvi"

// DownloadDlls resolves shortSHA to a published archive and fetches it via
// Longtail into StagingDir, then copies the result into WorkingDir. On
// failure it clears the staging directory and retries once; if that also
// fails it clears the chunk cache and retries a final time.
func (o *Operations) DownloadDlls(ctx context.Context, opts DownloadDllsOptions, sink gitcli.Sink) error {
	entry, err := o.Store.GetByShortSHA(ctx, opts.Owner, opts.Repo, opts.Kind, opts.Platform, opts.Config, opts.ShortSHA)
	if err != nil {
		return kinderr.Wrap(kinderr.Input, err)
	}

	fetchOpts := longtail.FetchOptions{
		ArchiveURLs: []string{entry.Key},
		TargetDir:   opts.StagingDir,
		CacheDir:    opts.CacheDir,
		CacheCapMiB: opts.CacheCapMiB,
	}

	attempt := func() error { return o.Longtail.Fetch(ctx, fetchOpts, sink) }

	if err := attempt(); err != nil {
		if rmErr := clearStagingDir(opts.StagingDir); rmErr != nil {
			return kinderr.Wrap(kinderr.Internal, rmErr)
		}
		if err := attempt(); err != nil {
			if opts.CacheDir != "" {
				if rmErr := longtail.ClearCache(opts.CacheDir); rmErr != nil {
					return kinderr.Wrap(kinderr.Internal, rmErr)
				}
			}
			if err := attempt(); err != nil {
				return kinderr.Wrap(kinderr.Internal, err)
			}
		}
	}

	if err := copyTree(opts.StagingDir, opts.WorkingDir); err != nil {
		return kinderr.Wrap(kinderr.Internal, err)
	}
	if err := os.Remove(filepath.Join(opts.StagingDir, longtailIndexCacheName)); err != nil && !os.IsNotExist(err) {
		return kinderr.Wrap(kinderr.Internal, err)
	}

	return nil
}

func clearStagingDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

func copyTree(srcDir, dstDir string) error {
	return filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if filepath.Base(path) == longtailIndexCacheName {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(dstDir, rel)
		if info.IsDir() {
			return os.MkdirAll(dst, 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(dst, data, info.Mode())
	})
}
