package artifact

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// FSProvider is a Provider backed by a local directory tree, used for tests
// and the daemon's offline/dev "--artifacts-dir" mode. It is grounded on the
// same afero.Fs root-plus-relative-path idiom the filesystem object storage
// uses, narrowed from a full object model down to flat key listing.
type FSProvider struct {
	fs   afero.Fs
	root string
}

// NewFSProvider constructs a FSProvider rooted at dir.
func NewFSProvider(dir string) *FSProvider {
	return &FSProvider{fs: afero.NewOsFs(), root: dir}
}

func (p *FSProvider) List(ctx context.Context, prefix string) ([]Entry, error) {
	var entries []Entry
	err := afero.Walk(p.fs, p.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, rerr := filepath.Rel(p.root, path)
		if rerr != nil {
			return rerr
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		entries = append(entries, Entry{Key: key, LastModified: info.ModTime()})
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return entries, nil
}

func (p *FSProvider) Get(ctx context.Context, prefix, shortSHA string) (Entry, error) {
	entries, err := p.List(ctx, prefix)
	if err != nil {
		return Entry{}, err
	}
	var match *Entry
	for i := range entries {
		commit := parseCommit(entries[i].Key)
		if commit != "" && strings.HasPrefix(commit, shortSHA) {
			if match != nil {
				return Entry{}, ErrAmbiguous
			}
			m := entries[i]
			match = &m
		}
	}
	if match == nil {
		return Entry{}, ErrNotFound
	}
	return *match, nil
}
