package server

import (
	"context"

	"github.com/ethos-core/ethos-core/pkg/ops"
	log "github.com/sirupsen/logrus"
)

// syncDllsAfterPull implements the tail end of spec.md §4.5's Pull
// description: once a pull leaves origin with newer DLLs/engine than what's
// checked out, fetch and install them. This is best-effort — a failure here
// is logged, not surfaced as a Pull failure, since the pull itself already
// succeeded.
func (s *Server) syncDllsAfterPull(ctx context.Context) {
	if s.DLLSync == nil {
		return
	}
	status, err := s.Ops.Status(ctx, ops.StatusOptions{SkipFetch: true})
	if err != nil {
		log.WithError(err).Warn("server: post-pull status refresh failed")
		return
	}
	if !status.OriginHasNewDlls || status.DLLCommitRemote == "" {
		return
	}

	dllOpts := s.DLLSync.DownloadDlls
	dllOpts.ShortSHA = status.DLLCommitRemote
	if err := s.Ops.DownloadDlls(ctx, dllOpts, s.DLLSync.Sink); err != nil {
		log.WithError(err).Warn("server: post-pull DownloadDlls failed")
		return
	}

	engineOpts := s.DLLSync.UpdateEngine
	engineOpts.Association.SHA = status.DLLCommitRemote
	if err := s.Ops.UpdateEngine(ctx, engineOpts, s.DLLSync.Registry, s.DLLSync.Sink); err != nil {
		log.WithError(err).Warn("server: post-pull UpdateEngine failed")
	}
}
