// Command ethos-core-daemon is the local developer daemon: it loads the
// installation and per-repo config, wires every collaborator package
// together, and serves the HTTP surface until interrupted.
package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ethos-core/ethos-core/pkg/ambient/config"
	"github.com/ethos-core/ethos-core/pkg/ambient/credential"
	"github.com/ethos-core/ethos-core/pkg/ambient/logging"
	"github.com/ethos-core/ethos-core/pkg/appstate"
	"github.com/ethos-core/ethos-core/pkg/artifact"
	"github.com/ethos-core/ethos-core/pkg/ghub"
	"github.com/ethos-core/ethos-core/pkg/gitcli"
	"github.com/ethos-core/ethos-core/pkg/k8sservers"
	"github.com/ethos-core/ethos-core/pkg/longtail"
	"github.com/ethos-core/ethos-core/pkg/ops"
	"github.com/ethos-core/ethos-core/pkg/ops/enginecheck"
	"github.com/ethos-core/ethos-core/pkg/repostatus"
	"github.com/ethos-core/ethos-core/pkg/server"
	"github.com/ethos-core/ethos-core/pkg/version"
	"github.com/google/go-github/v32/github"
	"github.com/spf13/pflag"
	"golang.org/x/oauth2"
	ctrlclient "sigs.k8s.io/controller-runtime/pkg/client"
	ctrlconfig "sigs.k8s.io/controller-runtime/pkg/client/config"
)

var (
	repoDirFlag      = pflag.String("repo-dir", ".", "Working copy root this daemon fronts")
	appConfigFlag    = pflag.String("config", defaultAppConfigPath(), "Path to the app-wide config YAML")
	userDataDirFlag  = pflag.String("user-data-dir", defaultUserDataDir(), "Directory for downloaded Longtail binaries and caches")
	artifactsDirFlag = pflag.String("artifacts-dir", "", "Use a local directory instead of the object store (offline/dev mode)")
	versionFlag      = pflag.Bool("version", false, "Show version information and exit")
)

func defaultAppConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "ethos-core.yaml"
	}
	return filepath.Join(dir, "ethos-core", "config.yaml")
}

func defaultUserDataDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".ethos-core-cache"
	}
	return filepath.Join(dir, "ethos-core")
}

func main() {
	pflag.Parse()

	if *versionFlag {
		fmt.Printf("ethos-core-daemon version: %#v\n", version.Get())
		os.Exit(0)
	}

	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	repoDir, err := filepath.Abs(*repoDirFlag)
	if err != nil {
		return fmt.Errorf("resolving --repo-dir: %w", err)
	}

	appCfg, err := config.LoadAppConfig(*appConfigFlag)
	if err != nil {
		return fmt.Errorf("loading app config: %w", err)
	}
	repoCfg, err := config.LoadRepoConfig(repoDir)
	if err != nil {
		return fmt.Errorf("loading repo config: %w", err)
	}

	log := logging.New(logging.Options{Level: appCfg.LogLevel, Format: appCfg.LogFormat})
	sink := logging.GitSink{Sink: log.WithField("component", "gitcli")}

	git := gitcli.New(repoDir, sink)

	store, err := newArtifactStore(ctx, appCfg)
	if err != nil {
		return fmt.Errorf("constructing artifact store: %w", err)
	}

	appDir := repoDir
	if exe, err := os.Executable(); err == nil {
		appDir = filepath.Dir(exe)
	}
	longtailRunner, err := longtail.Locate(ctx, *userDataDirFlag, appDir)
	if err != nil {
		log.WithError(err).Warn("daemon: no local Longtail binary found; builds/DLL sync will fail until one is bootstrapped")
	}

	var ghClient *ghub.Client
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		tc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
		gh := github.NewClient(tc)
		if appCfg.GitHubAPIBaseURL != "" {
			base, err := url.Parse(appCfg.GitHubAPIBaseURL)
			if err != nil {
				return fmt.Errorf("parsing githubApiBaseUrl: %w", err)
			}
			gh.BaseURL = base
		}
		ghClient = ghub.New(gh)
	} else {
		log.Warn("daemon: GITHUB_TOKEN not set; Quick Submit's PR creation will fail")
	}

	k8sClient, err := newK8sServersClient(appCfg)
	if err != nil {
		log.WithError(err).Warn("daemon: Kubernetes game-server backend unavailable; /servers routes will 404")
		k8sClient = nil
	}

	o := &ops.Operations{
		Git:        git,
		Store:      store,
		Longtail:   longtailRunner,
		GitHub:     ghClient,
		Classifier: repostatus.NewExtensionClassifier(),
		Engine:     enginecheck.New(),
		RepoConfig: repoCfg,
		LocalUser:  localUserName(),
	}

	state := appstate.New(appCfg, repoCfg, git, o.LocalUser)
	defer state.Close()
	o.Locks = state.Locks

	if token := os.Getenv("ETHOS_CORE_OBJECT_STORE_TOKEN"); token != "" {
		state.SetCredential(credential.Static{Handle: credential.Handle{Token: token}}.Current())
	}

	srv := server.New(o, state, k8sClient)
	srv.HealthProbeTimeout = time.Duration(appCfg.HealthProbeTimeoutSeconds) * time.Second
	// DLLSync stays nil: the per-project engine/platform/config selection it
	// needs has no home in AppConfig yet, and a half-filled
	// DownloadDllsOptions would silently no-op every field it omits. Wire it
	// once that project-level configuration surface exists.

	log.WithField("addr", appCfg.HTTPAddr).Info("daemon: listening")
	return srv.Serve(ctx, appCfg.HTTPAddr)
}

func newArtifactStore(ctx context.Context, appCfg *config.AppConfig) (*artifact.Store, error) {
	if *artifactsDirFlag != "" {
		return artifact.NewStore(artifact.NewFSProvider(*artifactsDirFlag)), nil
	}
	if appCfg.ObjectStoreBucket == "" {
		return artifact.NewStore(artifact.NewFSProvider(os.TempDir())), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(appCfg.ObjectStoreRegion))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if appCfg.ObjectStoreEndpoint != "" {
			o.BaseEndpoint = &appCfg.ObjectStoreEndpoint
		}
	})
	return artifact.NewStore(artifact.NewS3Provider(s3Client, appCfg.ObjectStoreBucket)), nil
}

func newK8sServersClient(appCfg *config.AppConfig) (*k8sservers.Client, error) {
	if appCfg.K8sServersEndpoint == "" {
		return nil, fmt.Errorf("k8sServersEndpoint not configured")
	}
	cfg, err := ctrlconfig.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("resolving kubeconfig: %w", err)
	}
	c, err := ctrlclient.New(cfg, ctrlclient.Options{Scheme: k8sservers.NewScheme()})
	if err != nil {
		return nil, fmt.Errorf("constructing controller-runtime client: %w", err)
	}
	return k8sservers.NewClient(c, "default"), nil
}

func localUserName() string {
	if u := os.Getenv("ETHOS_CORE_USER"); u != "" {
		return u
	}
	if h, err := os.Hostname(); err == nil {
		return h
	}
	return "unknown"
}
