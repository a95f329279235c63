package server

import (
	"net/http"

	"github.com/ethos-core/ethos-core/pkg/ambient/kinderr"
	"github.com/ethos-core/ethos-core/pkg/ops"
	"github.com/ethos-core/ethos-core/pkg/repostatus"
	"github.com/labstack/echo"
)

// handleSnapshotsList serves GET /repo/snapshots.
func (s *Server) handleSnapshotsList(c echo.Context) error {
	snaps, err := s.Ops.ListSnapshots(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snaps)
}

// handleSnapshotsDelete serves DELETE /repo/snapshots?commit=.
func (s *Server) handleSnapshotsDelete(c echo.Context) error {
	commit := c.QueryParam("commit")
	if commit == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "commit is required")
	}
	if err := s.Ops.DeleteSnapshot(c.Request().Context(), commit); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

type snapshotSaveRequest struct {
	Message string   `json:"message"`
	Files   []string `json:"files"`
}

// handleSnapshotsSave serves POST /repo/snapshots/save.
func (s *Server) handleSnapshotsSave(c echo.Context) error {
	var req snapshotSaveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.Files) == 0 {
		return kinderr.New(kinderr.Input, "snapshot save: no files given")
	}
	if err := s.Ops.SaveSnapshot(c.Request().Context(), req.Message, req.Files); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

type snapshotRestoreRequest struct {
	Commit string `json:"commit"`
}

// handleSnapshotsRestore serves POST /repo/snapshots/restore.
func (s *Server) handleSnapshotsRestore(c echo.Context) error {
	var req snapshotRestoreRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()

	status, err := s.Ops.Status(ctx, ops.StatusOptions{})
	if err != nil {
		return err
	}
	if err := s.Ops.RestoreSnapshot(ctx, req.Commit, currentlyModifiedPaths(status)); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// currentlyModifiedPaths lists every path status reports as modified, so
// RestoreSnapshot can rescue any overlap with the snapshot being restored.
func currentlyModifiedPaths(status *repostatus.Status) []string {
	out := make([]string, 0, len(status.ModifiedFiles))
	for _, f := range status.ModifiedFiles {
		out = append(out, f.Path)
	}
	return out
}
