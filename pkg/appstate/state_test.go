package appstate

import (
	"context"
	"testing"
	"time"

	"github.com/ethos-core/ethos-core/pkg/ambient/config"
	"github.com/ethos-core/ethos-core/pkg/ambient/credential"
	"github.com/ethos-core/ethos-core/pkg/gitcli"
	"github.com/ethos-core/ethos-core/pkg/repostatus"
	"github.com/ethos-core/ethos-core/pkg/taskqueue"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct{}

func (stubVerifier) VerifyLocks(ctx context.Context) (*gitcli.LockVerifyResult, error) {
	return &gitcli.LockVerifyResult{}, nil
}

func TestState_SetAndGetStatusCredentialConfig(t *testing.T) {
	s := New(&config.AppConfig{}, &config.RepoConfig{}, stubVerifier{}, "me")
	defer s.Close()

	require.Equal(t, "me", s.LocalUser())
	require.Nil(t, s.Status())

	st := &repostatus.Status{Branch: "main"}
	s.SetStatus(st)
	require.Same(t, st, s.Status())

	s.SetCredential(credential.Handle{Token: "t"})
	require.Equal(t, "t", s.Credential().Token)

	s.SetRepoConfig(&config.RepoConfig{GitHooksPath: ".git/hooks"})
	require.Equal(t, ".git/hooks", s.RepoConfig().GitHooksPath)

	require.Nil(t, s.Store())
	require.Nil(t, s.GitHub())
}

func TestState_QueueRunsSubmittedSequences(t *testing.T) {
	s := New(&config.AppConfig{}, &config.RepoConfig{}, stubVerifier{}, "me")
	defer s.Close()

	done := make(chan error, 1)
	ran := false
	require.NoError(t, s.Queue.Submit(context.Background(), &taskqueue.Sequence{
		Done: done,
		Tasks: []taskqueue.Task{{Name: "x", Run: func(ctx context.Context) error {
			ran = true
			return nil
		}}},
	}))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("sequence never completed")
	}
	require.True(t, ran)
}

func TestState_CloseStopsOwnedGoroutines(t *testing.T) {
	s := New(&config.AppConfig{}, &config.RepoConfig{}, stubVerifier{}, "me")
	s.Close()

	// Close cancels both owned loops and waits for them to exit; reaching
	// this point shows it returned instead of hanging, and the State is
	// still safe to touch afterwards.
	require.NotPanics(t, func() {
		_ = s.Queue
	})
}
