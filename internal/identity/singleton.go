package identity

import (
	"errors"
	"sync"
)

// The provider client is process-wide: constructed exactly once at startup
// and injected everywhere else. The sync.Once here replaces the scattered
// "is it already initialized" branching that ad hoc lazy init invites.
var (
	defaultOnce     sync.Once
	defaultProvider Provider
)

// ErrAlreadyInitialized is returned when Init is called twice.
var ErrAlreadyInitialized = errors.New("identity provider already initialized")

// Init installs the process-wide provider. The first call wins; subsequent
// calls report ErrAlreadyInitialized so misconfigured wiring fails loudly.
func Init(p Provider) error {
	var installed bool
	defaultOnce.Do(func() {
		defaultProvider = p
		installed = true
	})
	if !installed {
		return ErrAlreadyInitialized
	}
	return nil
}

// Default returns the process-wide provider. Panics if Init has not run;
// that is a wiring bug, not a runtime condition.
func Default() Provider {
	if defaultProvider == nil {
		panic("identity: Init not called")
	}
	return defaultProvider
}
