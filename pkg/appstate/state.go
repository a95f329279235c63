// Package appstate is the shared daemon state (component C8): it owns the
// config, the most recent repo status, the lock cache, stored credentials,
// the artifact store handle, the GitHub client handle, and the background
// loops that keep them current. Every field is guarded by its own
// sync.RWMutex rather than one global lock, so a slow status read never
// blocks a credential refresh.
package appstate

import (
	"context"
	"sync"
	"time"

	"github.com/ethos-core/ethos-core/pkg/ambient/config"
	"github.com/ethos-core/ethos-core/pkg/ambient/credential"
	"github.com/ethos-core/ethos-core/pkg/artifact"
	"github.com/ethos-core/ethos-core/pkg/ghub"
	"github.com/ethos-core/ethos-core/pkg/lockcache"
	"github.com/ethos-core/ethos-core/pkg/repostatus"
	"github.com/ethos-core/ethos-core/pkg/taskqueue"
	log "github.com/sirupsen/logrus"
)

// ReconcileInterval is how often the lock cache is reconciled against the
// remote LFS lock service in the background (spec.md §4.2: "30s reconcile
// loop").
const ReconcileInterval = 30 * time.Second

// State is the single shared instance handed to the HTTP surface and every
// operation. Its background loops (lock-cache reconcile ticker, task
// worker) are started by New and torn down by Close — neither is ever a
// detached goroutine with no owner.
type State struct {
	configMu sync.RWMutex
	cfg      *config.AppConfig
	repoCfg  *config.RepoConfig

	statusMu sync.RWMutex
	status   *repostatus.Status

	credMu sync.RWMutex
	cred   credential.Handle

	storeMu sync.RWMutex
	store   *artifact.Store

	githubMu sync.RWMutex
	github   *ghub.Client

	Locks *lockcache.Cache
	Queue *taskqueue.Queue

	localUser string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New constructs a State bound to cfg, repoCfg and verifier, and starts its
// owned background loops. The returned State must be closed with Close.
func New(cfg *config.AppConfig, repoCfg *config.RepoConfig, verifier lockcache.Verifier, localUser string) *State {
	ctx, cancel := context.WithCancel(context.Background())
	s := &State{
		cfg:       cfg,
		repoCfg:   repoCfg,
		Locks:     lockcache.New(verifier),
		Queue:     taskqueue.New(),
		localUser: localUser,
		cancel:    cancel,
	}

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.Queue.Run(ctx)
	}()
	go func() {
		defer s.wg.Done()
		s.runLockReconcileLoop(ctx)
	}()

	return s
}

// Close cancels both owned background loops and waits for them to exit.
func (s *State) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *State) runLockReconcileLoop(ctx context.Context) {
	ticker := time.NewTicker(ReconcileInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Locks.Populate(ctx, s.localUser); err != nil {
				log.WithError(err).Warn("appstate: background lock reconcile failed")
			}
		}
	}
}

// Config returns the current config.
func (s *State) Config() *config.AppConfig {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.cfg
}

// SetConfig replaces the current config, e.g. after a file-watch reload.
func (s *State) SetConfig(cfg *config.AppConfig) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.cfg = cfg
}

// RepoConfig returns the current per-repo config.
func (s *State) RepoConfig() *config.RepoConfig {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.repoCfg
}

// SetRepoConfig replaces the current per-repo config.
func (s *State) SetRepoConfig(cfg *config.RepoConfig) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.repoCfg = cfg
}

// Status returns the most recently computed repo status, or nil if none has
// been computed yet.
func (s *State) Status() *repostatus.Status {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}

// SetStatus records the result of the most recent status computation.
func (s *State) SetStatus(status *repostatus.Status) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status = status
}

// Credential returns the currently stored credential handle.
func (s *State) Credential() credential.Handle {
	s.credMu.RLock()
	defer s.credMu.RUnlock()
	return s.cred
}

// SetCredential replaces the stored credential handle.
func (s *State) SetCredential(h credential.Handle) {
	s.credMu.Lock()
	defer s.credMu.Unlock()
	s.cred = h
}

// LocalUser returns the configured local user login used to distinguish
// "ours" locks and authored commits.
func (s *State) LocalUser() string {
	return s.localUser
}

// Store returns the current artifact store handle, or nil before the first
// credential-dependent construction.
func (s *State) Store() *artifact.Store {
	s.storeMu.RLock()
	defer s.storeMu.RUnlock()
	return s.store
}

// SetStore replaces the artifact store handle, e.g. after a credential
// refresh rebuilds the underlying S3 client.
func (s *State) SetStore(store *artifact.Store) {
	s.storeMu.Lock()
	defer s.storeMu.Unlock()
	s.store = store
}

// GitHub returns the current GitHub client handle, or nil before the first
// credential-dependent construction.
func (s *State) GitHub() *ghub.Client {
	s.githubMu.RLock()
	defer s.githubMu.RUnlock()
	return s.github
}

// SetGitHub replaces the GitHub client handle.
func (s *State) SetGitHub(c *ghub.Client) {
	s.githubMu.Lock()
	defer s.githubMu.Unlock()
	s.github = c
}
