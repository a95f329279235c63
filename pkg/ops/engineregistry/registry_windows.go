//go:build windows

// Package engineregistry implements ops.EngineRegistry, recording which
// directory a locally-built or downloaded engine GUID resolves to so the
// shell/editor launcher can find engine versions it didn't itself install.
package engineregistry

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

const keyPath = `SOFTWARE\Epic Games\Unreal Engine\Builds`

// Windows is the registry-backed EngineRegistry.
type Windows struct{}

// New constructs the Windows registry-backed EngineRegistry.
func New() *Windows { return &Windows{} }

// Associate writes guid => dir under keyPath, first removing any existing
// value that already points at dir under a different name.
func (w *Windows) Associate(guid, dir string) error {
	k, existing, err := registry.CreateKey(registry.CURRENT_USER, keyPath, registry.ALL_ACCESS)
	if err != nil {
		return fmt.Errorf("engineregistry: opening %s: %w", keyPath, err)
	}
	defer k.Close()
	_ = existing

	names, err := k.ReadValueNames(-1)
	if err != nil {
		return fmt.Errorf("engineregistry: listing values: %w", err)
	}
	for _, name := range names {
		if name == guid {
			continue
		}
		v, _, err := k.GetStringValue(name)
		if err == nil && v == dir {
			if err := k.DeleteValue(name); err != nil {
				return fmt.Errorf("engineregistry: pruning stale key %s: %w", name, err)
			}
		}
	}

	if err := k.SetStringValue(guid, dir); err != nil {
		return fmt.Errorf("engineregistry: writing %s: %w", guid, err)
	}
	return nil
}
