package ops

import (
	"context"
	"embed"
	"os"
	"path/filepath"

	"github.com/ethos-core/ethos-core/pkg/ambient/kinderr"
)

//go:embed hooks/templates/*
var hookTemplates embed.FS

const hookTemplatesDir = "hooks/templates"

// InstallHooks writes every embedded hook template into RepoConfig's
// GitHooksPath, overwriting whatever is already there, and sets the
// executable bit on Unix (a no-op on Windows, where git ignores it).
func (o *Operations) InstallHooks(ctx context.Context) error {
	entries, err := hookTemplates.ReadDir(hookTemplatesDir)
	if err != nil {
		return kinderr.Wrap(kinderr.Internal, err)
	}

	if err := os.MkdirAll(o.RepoConfig.GitHooksPath, 0o755); err != nil {
		return kinderr.Wrap(kinderr.Internal, err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := hookTemplates.ReadFile(filepath.Join(hookTemplatesDir, e.Name()))
		if err != nil {
			return kinderr.Wrap(kinderr.Internal, err)
		}
		dst := filepath.Join(o.RepoConfig.GitHooksPath, e.Name())
		if err := os.WriteFile(dst, data, 0o755); err != nil {
			return kinderr.Wrap(kinderr.Internal, err)
		}
	}
	return nil
}
