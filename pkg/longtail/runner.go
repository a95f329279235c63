// Package longtail is the Longtail runner (component C4): it locates or
// bootstraps the `longtail` content-addressed archive tool, drives it as a
// child process to fetch an archive into a target directory, and manages a
// size-capped on-disk chunk cache.
//
// It reuses pkg/gitcli's line-streaming child-process idiom rather than
// reimplementing it: the same LogLine/Sink/ChanSink types carry Longtail's
// progress output to the UI.
package longtail

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/ethos-core/ethos-core/pkg/ambient/credential"
	"github.com/ethos-core/ethos-core/pkg/gitcli"
)

// Runner locates/bootstraps the longtail executable and drives archive
// fetches through it.
type Runner struct {
	// ExecutablePath is the resolved path to the longtail binary, set by
	// Locate or Bootstrap.
	ExecutablePath string
}

// Locate searches, in order, a caller-supplied user-data directory, the
// directory containing the running executable, and $PATH, returning the
// first longtail binary found.
func Locate(ctx context.Context, userDataDir, appDir string) (*Runner, error) {
	name := binaryName()
	candidates := []string{
		filepath.Join(userDataDir, name),
		filepath.Join(appDir, name),
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return &Runner{ExecutablePath: c}, nil
		}
	}
	if p, err := exec.LookPath(name); err == nil {
		return &Runner{ExecutablePath: p}, nil
	}
	return nil, fmt.Errorf("longtail: executable not found in %q, %q or PATH", candidates[0], candidates[1])
}

func binaryName() string {
	if isWindows() {
		return "longtail.exe"
	}
	return "longtail"
}

// FetchOptions configures one archive fetch.
type FetchOptions struct {
	// ArchiveURLs is the main archive URL plus any optional extras (e.g. a
	// symbols archive).
	ArchiveURLs []string
	TargetDir   string
	// CacheDir is optional; an empty string disables the on-disk chunk
	// cache entirely.
	CacheDir     string
	CacheCapMiB  int64
	Credential   credential.Handle
}

// Fetch runs longtail to download ArchiveURLs into TargetDir. Stdout is
// split on '\r' (longtail uses bare carriage returns for its progress bar)
// and forwarded to sink as progress lines; stderr lines accumulate and, on
// a non-zero exit, are joined into the returned error.
func (r *Runner) Fetch(ctx context.Context, opts FetchOptions, sink gitcli.Sink) error {
	if sink == nil {
		sink = gitcli.NopSink{}
	}
	if err := os.MkdirAll(opts.TargetDir, 0o755); err != nil {
		return fmt.Errorf("longtail: creating target dir: %w", err)
	}

	args := []string{"get", "--target-path", opts.TargetDir}
	for _, u := range opts.ArchiveURLs {
		args = append(args, "--source-path", u)
	}
	if opts.CacheDir != "" {
		args = append(args, "--cache-path", opts.CacheDir)
	}

	cmd := exec.CommandContext(ctx, r.ExecutablePath, args...)
	cmd.Env = append(os.Environ(), fmt.Sprintf("LONGTAIL_AUTH_TOKEN=%s", opts.Credential.Token))
	hideWindowAttrs(cmd)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("longtail: opening stdout pipe: %w", err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("longtail: opening stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("longtail: starting: %w", err)
	}

	done := make(chan struct{}, 2)
	var stderrLines []string

	go func() {
		defer func() { done <- struct{}{} }()
		scanCarriageReturnSeparated(stdoutPipe, func(line string) {
			sink.Send(gitcli.LogLine{Stream: gitcli.StreamStdout, Text: line})
		})
	}()
	go func() {
		defer func() { done <- struct{}{} }()
		scanLinesLF(stderrPipe, func(line string) {
			sink.Send(gitcli.LogLine{Stream: gitcli.StreamStderr, Text: line})
			stderrLines = append(stderrLines, line)
		})
	}()
	<-done
	<-done

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("longtail: fetch failed: %s", joinLines(stderrLines))
	}
	if opts.CacheDir != "" && opts.CacheCapMiB > 0 {
		return EvictToCapacity(opts.CacheDir, opts.CacheCapMiB)
	}
	return nil
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}
