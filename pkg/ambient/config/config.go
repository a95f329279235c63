// Package config loads the daemon's two YAML configuration files: the
// app-wide config under the OS config dir, and the per-repo config at the
// working-copy root. Secrets are never read from either file (spec.md §6);
// they arrive separately as a credential.Handle.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// AppConfig is the daemon-wide configuration, one YAML file per
// installation under $XDG_CONFIG_HOME/ethos-core/config.yaml (or the
// platform equivalent).
type AppConfig struct {
	HTTPAddr string `yaml:"httpAddr"`

	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`

	LongtailCacheDir    string `yaml:"longtailCacheDir"`
	LongtailCacheCapMiB int64  `yaml:"longtailCacheCapMiB"`
	EngineCacheCapMiB   int64  `yaml:"engineCacheCapMiB"`

	ObjectStoreBucket   string `yaml:"objectStoreBucket"`
	ObjectStoreRegion   string `yaml:"objectStoreRegion"`
	ObjectStoreEndpoint string `yaml:"objectStoreEndpoint"`

	GitHubAPIBaseURL string `yaml:"githubApiBaseUrl"`

	K8sServersEndpoint string `yaml:"k8sServersEndpoint"`

	HealthProbeTimeoutSeconds int `yaml:"healthProbeTimeoutSeconds"`
}

func (c *AppConfig) setDefaults() {
	if c.HTTPAddr == "" {
		c.HTTPAddr = "127.0.0.1:8787"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.LongtailCacheCapMiB == 0 {
		c.LongtailCacheCapMiB = 5 * 1024 // 5 GiB
	}
	if c.EngineCacheCapMiB == 0 {
		c.EngineCacheCapMiB = 50 * 1024 // 50 GiB
	}
	if c.HealthProbeTimeoutSeconds == 0 {
		c.HealthProbeTimeoutSeconds = 3
	}
}

// LoadAppConfig reads and defaults the app config from path. A missing file
// is not an error; it yields the zero value with defaults applied, matching
// a first-run experience.
func LoadAppConfig(path string) (*AppConfig, error) {
	cfg := &AppConfig{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.setDefaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("reading app config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing app config %q: %w", path, err)
	}
	cfg.setDefaults()
	return cfg, nil
}

// CommitMessagePolicy enforces the per-repo rule for acceptable commit
// messages, e.g. requiring a minimum length or a ticket-reference prefix.
type CommitMessagePolicy struct {
	MinLength int    `yaml:"minLength"`
	Pattern   string `yaml:"pattern"`

	compiled *regexp.Regexp
}

// Validate checks msg against the policy. An empty policy accepts
// everything.
func (p *CommitMessagePolicy) Validate(msg string) error {
	if p.MinLength > 0 && len(msg) < p.MinLength {
		return fmt.Errorf("commit message must be at least %d characters", p.MinLength)
	}
	if p.Pattern != "" {
		if p.compiled == nil {
			re, err := regexp.Compile(p.Pattern)
			if err != nil {
				return fmt.Errorf("invalid commit message pattern %q: %w", p.Pattern, err)
			}
			p.compiled = re
		}
		if !p.compiled.MatchString(msg) {
			return fmt.Errorf("commit message does not match required pattern %q", p.Pattern)
		}
	}
	return nil
}

// RepoConfig is the per-repo-root YAML file, conventionally
// ".ethos-core.yaml" at the working-copy root.
type RepoConfig struct {
	UprojectPath  string               `yaml:"uprojectPath"`
	TrunkBranch   string               `yaml:"trunkBranch"`
	GitHooksPath  string               `yaml:"gitHooksPath"`
	CommitMessage CommitMessagePolicy  `yaml:"commitMessage"`
}

func (c *RepoConfig) setDefaults() {
	if c.TrunkBranch == "" {
		c.TrunkBranch = "main"
	}
	if c.GitHooksPath == "" {
		c.GitHooksPath = ".git/hooks"
	}
}

// LoadRepoConfig reads the per-repo config from <repoRoot>/.ethos-core.yaml.
func LoadRepoConfig(repoRoot string) (*RepoConfig, error) {
	path := filepath.Join(repoRoot, ".ethos-core.yaml")
	cfg := &RepoConfig{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.setDefaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("reading repo config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing repo config %q: %w", path, err)
	}
	cfg.setDefaults()
	return cfg, nil
}
