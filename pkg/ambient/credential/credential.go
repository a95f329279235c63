// Package credential defines the expiry-bearing credential handle the core
// consumes but never produces. Acquisition (device-code OIDC/SSO, keyring
// storage) is out of scope per spec.md §1; the host process injects a
// Handle and refreshes it out-of-band.
package credential

import "time"

// Handle is an opaque bearer credential with a known expiry, used to
// authenticate to the object store, Longtail's archive endpoints, and
// (separately, for code-host calls) GitHub.
type Handle struct {
	Token     string
	ExpiresAt time.Time
}

// Expired reports whether the handle is no longer usable as of now.
func (h Handle) Expired(now time.Time) bool {
	if h.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(h.ExpiresAt)
}

// Source is implemented by whatever owns the refresh logic for a Handle:
// Current returns the latest value and Refresh obtains a new one. pkg/appstate
// does not hold a Source; it stores only the current Handle behind a
// reader/writer lock (State.Credential / State.SetCredential), and no code in
// this module calls Refresh.
type Source interface {
	Current() Handle
	Refresh() (Handle, error)
}

// Static is a Source that never refreshes, useful for tests and for
// deployments where the handle is provided once at startup and rotated by
// restarting the daemon.
type Static struct {
	Handle Handle
}

func (s Static) Current() Handle         { return s.Handle }
func (s Static) Refresh() (Handle, error) { return s.Handle, nil }
