package server

import (
	"net/http"

	"github.com/ethos-core/ethos-core/pkg/ambient/kinderr"
	"github.com/ethos-core/ethos-core/pkg/artifact"
	"github.com/labstack/echo"
)

// handleBuildsList serves GET /builds?project&kind&platform&config&limit.
// project is "<owner>/<repo>", matching the object-store key schema's
// <org-lowercased>-<repo-lowercased> segment before lowercasing.
func (s *Server) handleBuildsList(c echo.Context) error {
	ctx := c.Request().Context()

	owner, repo, err := splitProject(c.QueryParam("project"))
	if err != nil {
		return err
	}
	kind, err := artifact.ParseKind(c.QueryParam("kind"))
	if err != nil {
		return kinderr.Wrap(kinderr.Input, err)
	}
	platform, err := artifact.ParsePlatform(c.QueryParam("platform"))
	if err != nil {
		return kinderr.Wrap(kinderr.Input, err)
	}
	cfg, err := artifact.ParseBuildConfig(c.QueryParam("config"))
	if err != nil {
		return kinderr.Wrap(kinderr.Input, err)
	}

	entries, err := s.Ops.Store.List(ctx, owner, repo, kind, platform, cfg)
	if err != nil {
		return kinderr.Wrap(kinderr.Internal, err)
	}

	limit := queryInt(c, "limit", 0)
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return c.JSON(http.StatusOK, entries)
}

func splitProject(project string) (owner, repo string, err error) {
	for i := 0; i < len(project); i++ {
		if project[i] == '/' {
			return project[:i], project[i+1:], nil
		}
	}
	return "", "", echo.NewHTTPError(http.StatusBadRequest, "project must be \"<owner>/<repo>\"")
}
