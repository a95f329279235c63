package server

import (
	"net/http"

	"github.com/ethos-core/ethos-core/pkg/ambient/kinderr"
	"github.com/ethos-core/ethos-core/pkg/k8sservers"
	"github.com/labstack/echo"
)

// handleServersList serves GET /servers.
func (s *Server) handleServersList(c echo.Context) error {
	if s.K8s == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no Kubernetes collaborator configured")
	}
	list, err := s.K8s.List(c.Request().Context())
	if err != nil {
		return kinderr.Wrap(kinderr.Internal, err)
	}
	return c.JSON(http.StatusOK, list)
}

// handleServerGet serves GET /servers/:name.
func (s *Server) handleServerGet(c echo.Context) error {
	if s.K8s == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no Kubernetes collaborator configured")
	}
	gs, err := s.K8s.Get(c.Request().Context(), c.Param("name"))
	if err != nil {
		return kinderr.Wrap(kinderr.Internal, err)
	}
	return c.JSON(http.StatusOK, gs)
}

type serverCreateRequest struct {
	Project     string `json:"project"`
	BuildConfig string `json:"buildConfig"`
	Platform    string `json:"platform"`
	Map         string `json:"map"`
}

// handleServerCreate serves POST /servers/:name.
func (s *Server) handleServerCreate(c echo.Context) error {
	if s.K8s == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no Kubernetes collaborator configured")
	}
	var req serverCreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	gs, err := s.K8s.Create(c.Request().Context(), c.Param("name"), k8sservers.GameServerSpec{
		Project:     req.Project,
		BuildConfig: req.BuildConfig,
		Platform:    req.Platform,
		Map:         req.Map,
	})
	if err != nil {
		return kinderr.Wrap(kinderr.Internal, err)
	}
	return c.JSON(http.StatusCreated, gs)
}

// handleServerDelete serves DELETE /servers/:name.
func (s *Server) handleServerDelete(c echo.Context) error {
	if s.K8s == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no Kubernetes collaborator configured")
	}
	if err := s.K8s.Delete(c.Request().Context(), c.Param("name")); err != nil {
		return kinderr.Wrap(kinderr.Internal, err)
	}
	return c.NoContent(http.StatusOK)
}
