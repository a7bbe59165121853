package domain

import (
	"fmt"
	"time"
)

// EventKind identifies what a notification Event is about.
type EventKind int

const (
	NewIssue EventKind = iota
	NewPullRequest
	NewCommit
)

func (k EventKind) String() string {
	switch k {
	case NewIssue:
		return "new_issue"
	case NewPullRequest:
		return "new_pull_request"
	case NewCommit:
		return "new_commit"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// MarshalText lets EventKind serialize as its name in JSON payloads.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event is a single "new item" notification produced by the poller.
// Exactly one of Issue, PullRequest or Commit is set, matching Kind.
type Event struct {
	Kind        EventKind    `json:"kind"`
	Repository  string       `json:"repository,omitempty"`
	Issue       *Issue       `json:"issue,omitempty"`
	PullRequest *PullRequest `json:"pull_request,omitempty"`
	Commit      *Commit      `json:"commit,omitempty"`
	ObservedAt  time.Time    `json:"observed_at"`
}

// Summary renders the event as a single human-readable line.
func (e Event) Summary() string {
	switch {
	case e.Kind == NewIssue && e.Issue != nil:
		return fmt.Sprintf("New issue: #%d - %s", e.Issue.Number, e.Issue.Title)
	case e.Kind == NewPullRequest && e.PullRequest != nil:
		return fmt.Sprintf("New pull request: #%d - %s", e.PullRequest.Number, e.PullRequest.Title)
	case e.Kind == NewCommit && e.Commit != nil:
		return fmt.Sprintf("New commit: %s - %s (by %s)", e.Commit.ShortHash, e.Commit.Message, e.Commit.Author)
	default:
		return fmt.Sprintf("%s: (no details)", e.Kind)
	}
}

// Counts is the triple of baseline counters tracked between poll cycles.
type Counts struct {
	Issues       int `json:"issues"`
	PullRequests int `json:"pull_requests"`
	Commits      int `json:"commits"`
}

// PollerStatus is whether new-item notifications are currently enabled.
type PollerStatus int

const (
	Disabled PollerStatus = iota
	Enabled
)

func (s PollerStatus) String() string {
	if s == Enabled {
		return "enabled"
	}
	return "disabled"
}

// PollerReport is a point-in-time view of the poller for status displays.
type PollerReport struct {
	Status        PollerStatus  `json:"status"`
	Baseline      Counts        `json:"baseline"`
	Cycles        uint64        `json:"cycles"`
	FailedCycles  uint64        `json:"failed_cycles"`
	EventsEmitted uint64        `json:"events_emitted"`
	LastError     string        `json:"last_error,omitempty"`
	LatencyMedian time.Duration `json:"latency_median"`
	LatencyP95    time.Duration `json:"latency_p95"`
}
