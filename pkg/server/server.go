// Package server is the HTTP surface (component C9): a localhost-only JSON
// API in front of pkg/ops, built on Echo v3 exactly as cmd/common.NewEcho
// and cmd/common.StartEcho do (same bring-up, same signal-driven graceful
// shutdown), generalized to also tear down appstate.State's owned
// background loops before returning.
package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/ethos-core/ethos-core/pkg/ambient/kinderr"
	"github.com/ethos-core/ethos-core/pkg/appstate"
	"github.com/ethos-core/ethos-core/pkg/artifact"
	"github.com/ethos-core/ethos-core/pkg/gitcli"
	"github.com/ethos-core/ethos-core/pkg/k8sservers"
	"github.com/ethos-core/ethos-core/pkg/ops"
	"github.com/labstack/echo"
	log "github.com/sirupsen/logrus"
)

// Server wires the Operations engine, the shared daemon state, and the
// Kubernetes game-server collaborator into a routable Echo instance.
type Server struct {
	Ops         *ops.Operations
	State       *appstate.State
	K8s         *k8sservers.Client
	DLLResolver *artifact.Resolver

	// OpenPRNumbers backs Pull's refusal to delete a Quick-Submit branch
	// with an in-flight PR. Nil disables that check (no GitHub wired).
	OpenPRNumbers func(ctx context.Context, branch string) ([]int, error)

	// HealthProbeTimeout bounds /healthz's git-reachability check
	// (spec.md §5 and the ambient addition in SPEC_FULL.md §6).
	HealthProbeTimeout time.Duration

	// DLLSync, if set, is run after a successful Pull that leaves
	// status.OriginHasNewDlls set (spec.md §4.5: "if the uproject file's
	// engine pointer changed, invokes DownloadDlls and UpdateEngine"). A
	// nil DLLSync skips the hook entirely, matching an installation with
	// no custom-engine/editor-DLL tracking configured.
	DLLSync *DLLSyncConfig

	echo *echo.Echo
}

// DLLSyncConfig carries the fixed per-installation parameters DownloadDlls
// and UpdateEngine need beyond the commit SHA a fresh status supplies.
type DLLSyncConfig struct {
	DownloadDlls ops.DownloadDllsOptions
	UpdateEngine ops.UpdateEngineOptions
	Registry     ops.EngineRegistry
	Sink         gitcli.Sink
}

// New constructs a Server and registers every route. The returned Server's
// Echo instance has e.Debug left at its zero value (false): this is a
// daemon, not the sample apps, so stack traces never leak to the UI.
func New(o *ops.Operations, state *appstate.State, k8s *k8sservers.Client) *Server {
	s := &Server{
		Ops:                o,
		State:              state,
		K8s:                k8s,
		HealthProbeTimeout: 3 * time.Second,
		echo:               echo.New(),
	}
	s.echo.HTTPErrorHandler = s.handleError
	registerRoutes(s.echo, s)
	return s
}

// handleError maps an operation's kinderr.Kind onto the status codes
// spec.md §7 requires, rendering the error's message as the plain body.
func (s *Server) handleError(err error, c echo.Context) {
	if httpErr, ok := err.(*echo.HTTPError); ok {
		body := httpErr.Message
		if msg, ok := body.(string); ok {
			_ = c.String(httpErr.Code, msg)
			return
		}
		_ = c.JSON(httpErr.Code, body)
		return
	}

	status := http.StatusInternalServerError
	switch kinderr.KindOf(err) {
	case kinderr.Input:
		status = http.StatusBadRequest
	case kinderr.Unauthorized:
		status = http.StatusUnauthorized
	case kinderr.PullConflict:
		status = http.StatusConflict
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	if err2 := c.String(status, err.Error()); err2 != nil {
		log.WithError(err2).Warn("server: writing error response failed")
	}
}

// Serve starts the HTTP listener on addr and blocks until ctx is cancelled
// or the process receives os.Interrupt, then gracefully shuts the listener
// down and closes State's owned background loops, mirroring
// cmd/common.StartEcho's shape.
func (s *Server) Serve(ctx context.Context, addr string) error {
	go func() {
		if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("server: listener stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)

	select {
	case <-ctx.Done():
	case <-quit:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	defer s.State.Close()

	return s.echo.Shutdown(shutdownCtx)
}
