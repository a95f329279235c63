// Package artifact is the artifact provider & storage component (C3): given
// a (project, kind, platform, build-config) tuple it resolves a path prefix
// and lists/picks objects in an object store, and exposes one entry by
// short-SHA prefix.
package artifact

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Kind is a closed enumeration of the artifact kinds the schema supports.
type Kind string

const (
	KindClient         Kind = "client"
	KindClientSymbols  Kind = "client-symbols"
	KindEditor         Kind = "editor"
	KindEditorSymbols  Kind = "editor-symbols"
	KindEngine         Kind = "engine"
	KindEngineSymbols  Kind = "engine-symbols"
)

// ParseKind validates s against the closed set of kinds, failing loudly on
// an unknown input rather than accepting it silently.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindClient, KindClientSymbols, KindEditor, KindEditorSymbols, KindEngine, KindEngineSymbols:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("artifact: unknown kind %q", s)
	}
}

// BuildConfig is a closed enumeration of build configurations.
type BuildConfig string

const (
	ConfigDebug       BuildConfig = "debug"
	ConfigDebugGame   BuildConfig = "debug-game"
	ConfigDevelopment BuildConfig = "development"
	ConfigShipping    BuildConfig = "shipping"
	ConfigTest        BuildConfig = "test"
)

// ParseBuildConfig validates s against the closed set of build configs.
func ParseBuildConfig(s string) (BuildConfig, error) {
	switch BuildConfig(s) {
	case ConfigDebug, ConfigDebugGame, ConfigDevelopment, ConfigShipping, ConfigTest:
		return BuildConfig(s), nil
	default:
		return "", fmt.Errorf("artifact: unknown build config %q", s)
	}
}

// Platform is a closed enumeration of target platforms.
type Platform string

const (
	PlatformWin64      Platform = "win64"
	PlatformMac        Platform = "mac"
	PlatformIOS        Platform = "ios"
	PlatformAndroid    Platform = "android"
	PlatformLinux      Platform = "linux"
	PlatformLinuxArm64 Platform = "linux-arm64"
)

// ParsePlatform validates s against the closed set of platforms.
func ParsePlatform(s string) (Platform, error) {
	switch Platform(s) {
	case PlatformWin64, PlatformMac, PlatformIOS, PlatformAndroid, PlatformLinux, PlatformLinuxArm64:
		return Platform(s), nil
	default:
		return "", fmt.Errorf("artifact: unknown platform %q", s)
	}
}

// Entry is one object in the store.
type Entry struct {
	Key          string
	DisplayName  string
	LastModified time.Time
	Commit       string // empty if the key's filename has no parseable commit suffix
}

var commitSuffixRE = regexp.MustCompile(`([0-9a-fA-F]{40}|[0-9a-fA-F]{8})\.[^.]+$`)

// parseCommit extracts the commit suffix (8 or 40 hex characters directly
// before the extension) from a key, per the versioned schema.
func parseCommit(key string) string {
	base := key
	if idx := strings.LastIndex(key, "/"); idx >= 0 {
		base = key[idx+1:]
	}
	m := commitSuffixRE.FindStringSubmatch(base)
	if m == nil {
		return ""
	}
	return m[1]
}

func displayName(key string) string {
	if idx := strings.LastIndex(key, "/"); idx >= 0 {
		return key[idx+1:]
	}
	return key
}
