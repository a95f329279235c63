// Package enginecheck provides the default ops.EngineRunningChecker: actual
// editor/engine process detection is project-specific integration and out
// of scope (spec.md §1), so this is a narrow, honest stand-in rather than a
// fabricated IPC probe.
package enginecheck

// AlwaysStopped is an EngineRunningChecker that never reports the engine as
// running, for installations with no editor-IPC integration configured.
// Revert's "refuse while the editor is running" guard is a no-op with this
// checker; callers that need the guard set revertRequest.SkipEngineCheck
// false and wire a real checker instead.
type AlwaysStopped struct{}

// New constructs the default checker.
func New() AlwaysStopped { return AlwaysStopped{} }

func (AlwaysStopped) IsRunning() (bool, error) { return false, nil }
