//go:build !windows

package engineregistry

// Nop is the non-Windows EngineRegistry: there is no shell integration to
// update, so Associate is a no-op.
type Nop struct{}

// New constructs the no-op EngineRegistry.
func New() *Nop { return &Nop{} }

// Associate does nothing on non-Windows platforms.
func (n *Nop) Associate(guid, dir string) error { return nil }
