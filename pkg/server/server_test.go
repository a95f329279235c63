package server

import (
	"net/http"
	"net/http/httptest"
	"os/exec"
	"strings"
	"testing"

	"github.com/ethos-core/ethos-core/internal/testutil"
	"github.com/ethos-core/ethos-core/pkg/ambient/config"
	"github.com/ethos-core/ethos-core/pkg/ambient/kinderr"
	"github.com/ethos-core/ethos-core/pkg/appstate"
	"github.com/ethos-core/ethos-core/pkg/gitcli"
	"github.com/ethos-core/ethos-core/pkg/lockcache"
	"github.com/ethos-core/ethos-core/pkg/ops"
	"github.com/stretchr/testify/require"
)

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}

// repoWithRemote builds a local clone with a pushed initial commit on
// "main", mirroring gitcli's own real-git-fixture test style.
func repoWithRemote(t *testing.T) string {
	t.Helper()
	remote := t.TempDir()
	runGit(t, remote, "init", "--bare", "-b", "main")

	src := t.TempDir()
	runGit(t, src, "clone", remote, ".")
	runGit(t, src, "config", "user.email", "dev@example.com")
	runGit(t, src, "config", "user.name", "dev")
	runGit(t, src, "commit", "--allow-empty", "-m", "initial")
	runGit(t, src, "push", "origin", "main")

	return src
}

func newTestServer(t *testing.T, dir string) *Server {
	o := &ops.Operations{
		Git:        gitcli.New(dir, nil),
		Locks:      lockcache.New(testutil.FakeLockVerifier{}),
		Classifier: testutil.FakeClassifier{},
		Engine:     testutil.FakeEngineChecker{},
		RepoConfig: &config.RepoConfig{TrunkBranch: "main"},
		LocalUser:  "test-user",
	}
	state := appstate.New(&config.AppConfig{}, o.RepoConfig, testutil.FakeLockVerifier{}, "test-user")
	t.Cleanup(state.Close)
	return New(o, state, nil)
}

func TestHealthz_ReportsGitOkAndQueueDepth(t *testing.T) {
	s := newTestServer(t, repoWithRemote(t))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"gitOk":true`)
}

func TestRepoStatus_ReturnsCurrentBranch(t *testing.T) {
	s := newTestServer(t, repoWithRemote(t))

	req := httptest.NewRequest(http.MethodGet, "/repo/status?skipFetch=true", nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"Branch":"main"`)
}

func TestRepoSnapshotsSave_RejectsEmptyFiles(t *testing.T) {
	s := newTestServer(t, repoWithRemote(t))

	req := httptest.NewRequest(http.MethodPost, "/repo/snapshots/save", strings.NewReader(`{"message":"x","files":[]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBuildsList_RejectsMalformedProject(t *testing.T) {
	s := newTestServer(t, repoWithRemote(t))

	req := httptest.NewRequest(http.MethodGet, "/builds?project=not-a-project&kind=client&platform=win64&config=shipping", nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServersList_404sWithoutK8sConfigured(t *testing.T) {
	s := newTestServer(t, repoWithRemote(t))

	req := httptest.NewRequest(http.MethodGet, "/servers", nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleError_MapsPullConflictTo409(t *testing.T) {
	s := newTestServer(t, repoWithRemote(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	s.handleError(kinderr.New(kinderr.PullConflict, "conflict"), c)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleError_MapsInputTo400(t *testing.T) {
	s := newTestServer(t, repoWithRemote(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	s.handleError(kinderr.New(kinderr.Input, "bad input"), c)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
