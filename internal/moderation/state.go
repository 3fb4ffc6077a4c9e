// Package moderation holds the process-wide moderation state: whether link
// deletion is enabled and which domains are whitelisted.
package moderation

import (
	"sync/atomic"

	"github.com/edgard/linkguard/internal/filter"
)

// State is safe for concurrent use. The enabled flag resets on restart;
// the whitelist never changes after construction.
type State struct {
	enabled   atomic.Bool
	whitelist *filter.Whitelist
}

// Snapshot is a point-in-time view of the state.
type Snapshot struct {
	Enabled bool
	Domains []string
}

// NewState creates the moderation state.
func NewState(enabled bool, whitelist *filter.Whitelist) *State {
	s := &State{whitelist: whitelist}
	s.enabled.Store(enabled)
	return s
}

// Enabled reports whether link deletion is active.
func (s *State) Enabled() bool {
	return s.enabled.Load()
}

// Toggle flips the flag and returns the new value.
func (s *State) Toggle() bool {
	for {
		old := s.enabled.Load()
		if s.enabled.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Status returns a snapshot of the flag and the sorted whitelist.
func (s *State) Status() Snapshot {
	return Snapshot{
		Enabled: s.enabled.Load(),
		Domains: s.whitelist.Domains(),
	}
}

// Config returns the filter configuration for a single decision.
func (s *State) Config() filter.Config {
	return filter.Config{
		Enabled:   s.enabled.Load(),
		Whitelist: s.whitelist,
	}
}
