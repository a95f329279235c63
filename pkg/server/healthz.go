package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo"
)

type healthzResponse struct {
	GitOk            bool `json:"gitOk"`
	WorkerQueueDepth int  `json:"workerQueueDepth"`
}

// handleHealthz serves GET /healthz, read directly rather than through the
// task worker so a stuck sequence never blocks the health probe (SPEC_FULL
// §6: "Read-only endpoints ... served directly from the HTTP layer").
func (s *Server) handleHealthz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), s.HealthProbeTimeout)
	defer cancel()

	_, err := s.Ops.Git.CurrentBranch(ctx)
	resp := healthzResponse{
		GitOk:            err == nil,
		WorkerQueueDepth: s.State.Queue.Depth(),
	}
	return c.JSON(http.StatusOK, resp)
}
