package server

import "github.com/labstack/echo"

// registerRoutes binds every route spec.md §6 names:
//
//	Route                                       Method     Semantics
//	/repo/status                                GET        fresh RepoStatus
//	/repo/log                                   GET        up to limit commits
//	/repo/push                                  POST       Add/Restore/Status/(Pull)/Commit/Push/Status
//	/repo/gh/submit                              POST       Quick-Submit
//	/repo/revert                                POST       Revert + Unlock
//	/repo/pull                                   POST       Pull, 409 on conflict
//	/repo/locks/lock, /repo/locks/unlock         POST       lock / unlock
//	/repo/snapshots                              GET/DELETE list / delete snapshots
//	/repo/snapshots/save, /repo/snapshots/restore POST      snapshot ops
//	/repo/show                                   GET        files touched by a commit or stash
//	/builds                                      GET        artifacts via the provider
//	/servers, /servers/{name}                    CRUD       pass-through to the k8s collaborator
//	/healthz                                     GET        {gitOk, workerQueueDepth}
func registerRoutes(e *echo.Echo, s *Server) {
	e.GET("/healthz", s.handleHealthz)

	e.GET("/repo/status", s.handleRepoStatus)
	e.GET("/repo/log", s.handleRepoLog)
	e.GET("/repo/show", s.handleRepoShow)
	e.POST("/repo/push", s.handleRepoPush)
	e.POST("/repo/gh/submit", s.handleRepoSubmit)
	e.POST("/repo/revert", s.handleRepoRevert)
	e.POST("/repo/pull", s.handleRepoPull)

	e.POST("/repo/locks/lock", s.handleLocksLock)
	e.POST("/repo/locks/unlock", s.handleLocksUnlock)

	e.GET("/repo/snapshots", s.handleSnapshotsList)
	e.DELETE("/repo/snapshots", s.handleSnapshotsDelete)
	e.POST("/repo/snapshots/save", s.handleSnapshotsSave)
	e.POST("/repo/snapshots/restore", s.handleSnapshotsRestore)

	e.GET("/builds", s.handleBuildsList)

	e.GET("/servers", s.handleServersList)
	e.GET("/servers/:name", s.handleServerGet)
	e.POST("/servers/:name", s.handleServerCreate)
	e.DELETE("/servers/:name", s.handleServerDelete)
}
