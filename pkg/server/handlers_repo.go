package server

import (
	"net/http"
	"strconv"

	"github.com/ethos-core/ethos-core/pkg/ambient/kinderr"
	"github.com/ethos-core/ethos-core/pkg/ops"
	"github.com/ethos-core/ethos-core/pkg/repostatus"
	"github.com/labstack/echo"
)

func queryBool(c echo.Context, name string) bool {
	v, _ := strconv.ParseBool(c.QueryParam(name))
	return v
}

func queryInt(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// handleRepoStatus serves GET /repo/status?skipFetch&skipDllCheck.
func (s *Server) handleRepoStatus(c echo.Context) error {
	ctx := c.Request().Context()
	opts := ops.StatusOptions{
		SkipFetch:    queryBool(c, "skipFetch"),
		SkipDllCheck: queryBool(c, "skipDllCheck"),
		Previous:     s.State.Status(),
	}
	// s.DLLResolver is a typed *artifact.Resolver; assigning it to the
	// interface field unconditionally would make a nil resolver compare
	// non-nil there, so only wire it in when one actually exists.
	if s.DLLResolver != nil {
		opts.ArtifactResolve = s.DLLResolver
	}
	status, err := s.Ops.Status(ctx, opts)
	if err != nil {
		return err
	}
	s.State.SetStatus(status)
	return c.JSON(http.StatusOK, status)
}

// handleRepoLog serves GET /repo/log?limit&use_remote.
func (s *Server) handleRepoLog(c echo.Context) error {
	ctx := c.Request().Context()
	limit := queryInt(c, "limit", 50)
	ref := "HEAD"
	if queryBool(c, "use_remote") {
		ref = "@{upstream}"
	}
	entries, err := s.Ops.Git.Log(ctx, limit, ref)
	if err != nil {
		return kinderr.Wrap(kinderr.Internal, err)
	}
	return c.JSON(http.StatusOK, entries)
}

// handleRepoShow serves GET /repo/show?commit=&stash=.
func (s *Server) handleRepoShow(c echo.Context) error {
	ctx := c.Request().Context()
	if stash := c.QueryParam("stash"); stash != "" {
		files, err := s.Ops.Git.SnapshotFiles(ctx, stash)
		if err != nil {
			return kinderr.Wrap(kinderr.Internal, err)
		}
		return c.JSON(http.StatusOK, files)
	}
	commit := c.QueryParam("commit")
	if commit == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "commit or stash is required")
	}
	files, err := s.Ops.Git.ShowFiles(ctx, commit)
	if err != nil {
		return kinderr.Wrap(kinderr.Internal, err)
	}
	return c.JSON(http.StatusOK, files)
}

type pushRequest struct {
	CommitMessage string   `json:"commitMessage"`
	Files         []string `json:"files"`
}

// handleRepoPush serves POST /repo/push.
func (s *Server) handleRepoPush(c echo.Context) error {
	var req pushRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()

	preStatus := s.State.Status()
	if preStatus == nil {
		var err error
		preStatus, err = s.Ops.Status(ctx, ops.StatusOptions{})
		if err != nil {
			return err
		}
	}

	result, err := s.Ops.CommitAndPush(ctx, ops.CommitAndPushRequest{
		Message: req.CommitMessage,
		Files:   req.Files,
	}, preStatus, ops.PullDeps{OpenPRNumbers: s.OpenPRNumbers})
	if err != nil {
		return err
	}
	s.State.SetStatus(result.Status)
	return c.JSON(http.StatusOK, result)
}

type submitRequest struct {
	CommitMessage string   `json:"commitMessage"`
	Files         []string `json:"files"`
}

// handleRepoSubmit serves POST /repo/gh/submit.
func (s *Server) handleRepoSubmit(c echo.Context) error {
	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()

	status := s.State.Status()
	if status == nil {
		var err error
		status, err = s.Ops.Status(ctx, ops.StatusOptions{})
		if err != nil {
			return err
		}
	}

	result, err := s.Ops.QuickSubmit(ctx, ops.SubmitRequest{
		Target:  s.Ops.RepoConfig.TrunkBranch,
		Files:   req.Files,
		Message: req.CommitMessage,
	}, status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

type revertRequest struct {
	Files           []string `json:"files"`
	SkipEngineCheck bool     `json:"skipEngineCheck"`
	TakeSnapshot    bool     `json:"takeSnapshot"`
}

// handleRepoRevert serves POST /repo/revert.
func (s *Server) handleRepoRevert(c echo.Context) error {
	var req revertRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()

	if !req.SkipEngineCheck {
		if running, err := s.Ops.Engine.IsRunning(); err != nil {
			return kinderr.Wrap(kinderr.Internal, err)
		} else if running {
			return kinderr.New(kinderr.Input, "revert refused: the editor is running")
		}
	}

	status, err := s.Ops.Status(ctx, ops.StatusOptions{})
	if err != nil {
		return err
	}

	if req.TakeSnapshot {
		if err := s.Ops.SaveSnapshot(ctx, "pre-revert auto-snapshot", req.Files); err != nil {
			return err
		}
	}

	untracked, modified := splitByTrack(status, req.Files)
	branch, err := s.Ops.Git.CurrentBranch(ctx)
	if err != nil {
		return kinderr.Wrap(kinderr.Internal, err)
	}
	if err := s.Ops.Revert(ctx, branch, untracked, modified); err != nil {
		return err
	}

	fresh, err := s.Ops.Status(ctx, ops.StatusOptions{Previous: status})
	if err != nil {
		return err
	}
	s.State.SetStatus(fresh)
	return c.JSON(http.StatusOK, fresh)
}

// splitByTrack partitions files into the untracked and tracked-modified
// subsets Operations.Revert needs, using the most recent status to
// classify each path.
func splitByTrack(status *repostatus.Status, files []string) (untracked, modified []string) {
	isUntracked := make(map[string]bool, len(status.UntrackedFiles))
	for _, f := range status.UntrackedFiles {
		isUntracked[f.Path] = true
	}
	for _, p := range files {
		if isUntracked[p] {
			untracked = append(untracked, p)
		} else {
			modified = append(modified, p)
		}
	}
	return untracked, modified
}

// handleRepoPull serves POST /repo/pull.
func (s *Server) handleRepoPull(c echo.Context) error {
	ctx := c.Request().Context()
	result, err := s.Ops.Pull(ctx, ops.PullDeps{OpenPRNumbers: s.OpenPRNumbers})
	if err != nil {
		return err
	}
	s.syncDllsAfterPull(ctx)
	return c.JSON(http.StatusOK, result)
}

type lockRequest struct {
	Paths []string `json:"paths"`
	Force bool     `json:"force"`
}

// handleLocksLock serves POST /repo/locks/lock.
func (s *Server) handleLocksLock(c echo.Context) error {
	var req lockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	locked, err := s.Ops.Lock(c.Request().Context(), req.Paths)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ops.LockResponse{Locked: locked})
}

// handleLocksUnlock serves POST /repo/locks/unlock.
func (s *Server) handleLocksUnlock(c echo.Context) error {
	var req lockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	unlocked, err := s.Ops.Unlock(c.Request().Context(), req.Paths, req.Force)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ops.LockResponse{Locked: unlocked})
}
