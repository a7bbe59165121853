// Package watcher implements the new-item notification engine: a background
// poller that compares repository counts against recorded baselines and emits
// an event per new issue, pull request or commit, plus the controller that
// toggles it on and off.
package watcher

import (
	"sync"

	"github.com/Nehorai4/git-project/internal/domain"
)

// PollState holds the baseline counts. It has a single writer, the running
// poller, and any number of readers.
type PollState struct {
	mu     sync.RWMutex
	counts domain.Counts
}

func NewPollState(initial domain.Counts) *PollState {
	s := &PollState{}
	s.Update(initial)
	return s
}

// Snapshot returns the whole triple as of a single point in time.
func (s *PollState) Snapshot() domain.Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts
}

// Update replaces all three counters at once. Negative values are stored as zero.
func (s *PollState) Update(c domain.Counts) {
	c.Issues = max(c.Issues, 0)
	c.PullRequests = max(c.PullRequests, 0)
	c.Commits = max(c.Commits, 0)

	s.mu.Lock()
	s.counts = c
	s.mu.Unlock()
}
