package watcher

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Nehorai4/git-project/internal/domain"
	"github.com/Nehorai4/git-project/internal/gateway"
	"github.com/Nehorai4/git-project/internal/sink"
)

const (
	DefaultInterval     = 30 * time.Second
	DefaultFetchTimeout = 15 * time.Second
)

// Config controls the poll cadence.
type Config struct {
	// Repository is copied into every emitted event.
	Repository string
	// Interval is the pause between the end of one cycle and the start of the next.
	Interval time.Duration
	// FetchTimeout bounds each remote call. Zero means no timeout.
	FetchTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.FetchTimeout < 0 {
		c.FetchTimeout = 0
	}
	return c
}

// poller runs poll cycles until its stop channel is closed. One poller
// instance belongs to exactly one enable session of a Controller.
type poller struct {
	client  gateway.RepositoryClient
	state   *PollState
	sink    sink.Sink
	logger  *log.Logger
	metrics *cycleMetrics
	cfg     Config
	now     func() time.Time
}

// resourceCheck is one of the three per-cycle checks.
type resourceCheck struct {
	name     string
	baseline *int
	count    func(ctx context.Context) (int, error)
	// fetch returns one event per item for the newest limit items.
	fetch func(ctx context.Context, limit int) ([]domain.Event, error)
}

// run is the poller loop. The stop channel is checked before every cycle and
// also interrupts the sleep between cycles; a cycle already in flight is
// allowed to finish.
func (p *poller) run(ctx context.Context, stop <-chan struct{}) {
	p.logger.Printf("Poller started for %s (every %s)", p.cfg.Repository, p.cfg.Interval)
	defer p.logger.Printf("Poller stopped for %s", p.cfg.Repository)

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		default:
		}

		// Errors are contained in the cycle and never end the loop.
		_ = p.cycle(ctx)

		timer := time.NewTimer(p.cfg.Interval)
		select {
		case <-stop:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// cycle checks issues, pull requests and commits in that order. The first
// failing check aborts the rest of the cycle; checks that completed before
// it keep their advanced baselines.
func (p *poller) cycle(ctx context.Context) (err error) {
	start := time.Now()
	next := p.state.Snapshot()
	emitted := 0

	defer func() {
		if r := recover(); r != nil {
			err = &domain.APIError{Kind: domain.ErrUnexpected, Err: fmt.Errorf("panic in poll cycle: %v", r)}
		}
		p.state.Update(next)
		p.metrics.record(time.Since(start), emitted, err)
		if err != nil {
			p.logger.Printf("Poll cycle failed: %v", err)
		}
	}()

	for _, rc := range p.checks(&next) {
		n, err := p.check(ctx, rc)
		emitted += n
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *poller) checks(next *domain.Counts) []resourceCheck {
	return []resourceCheck{
		{
			name:     "issues",
			baseline: &next.Issues,
			count:    p.client.CountOpenIssues,
			fetch: func(ctx context.Context, limit int) ([]domain.Event, error) {
				issues, err := p.client.FetchRecentOpenIssues(ctx, limit)
				if err != nil {
					return nil, err
				}
				events := make([]domain.Event, 0, len(issues))
				for i := range issues {
					events = append(events, domain.Event{Kind: domain.NewIssue, Issue: &issues[i]})
				}
				return events, nil
			},
		},
		{
			name:     "pull requests",
			baseline: &next.PullRequests,
			count:    p.client.CountOpenPullRequests,
			fetch: func(ctx context.Context, limit int) ([]domain.Event, error) {
				prs, err := p.client.FetchRecentOpenPullRequests(ctx, limit)
				if err != nil {
					return nil, err
				}
				events := make([]domain.Event, 0, len(prs))
				for i := range prs {
					events = append(events, domain.Event{Kind: domain.NewPullRequest, PullRequest: &prs[i]})
				}
				return events, nil
			},
		},
		{
			name:     "commits",
			baseline: &next.Commits,
			count:    p.client.CountCommits,
			fetch: func(ctx context.Context, limit int) ([]domain.Event, error) {
				commits, err := p.client.FetchRecentCommits(ctx, limit)
				if err != nil {
					return nil, err
				}
				events := make([]domain.Event, 0, len(commits))
				for i := range commits {
					events = append(events, domain.Event{Kind: domain.NewCommit, Commit: &commits[i]})
				}
				return events, nil
			},
		},
	}
}

// check compares the live count of one resource with its baseline and emits
// an event for each of the newest (current - baseline) items.
//
// NOTE: new items are detected by count, not by identity. The delta is taken
// from the head of the current list, so items closed and created between two
// cycles can be under- or over-reported. Tracking the highest seen item
// number would be exact.
func (p *poller) check(ctx context.Context, rc resourceCheck) (int, error) {
	var current int
	err := p.withTimeout(ctx, func(ctx context.Context) error {
		var err error
		current, err = rc.count(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to check %s: %w", rc.name, err)
	}

	previous := *rc.baseline
	// The baseline follows the observed count even if the delta fetch below
	// fails, and also when items were closed and the count went down.
	*rc.baseline = current
	if current <= previous {
		return 0, nil
	}

	delta := current - previous
	var events []domain.Event
	err = p.withTimeout(ctx, func(ctx context.Context) error {
		var err error
		events, err = rc.fetch(ctx, delta)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to fetch %d new %s: %w", delta, rc.name, err)
	}

	p.logger.Printf("Detected %d new %s in %s", delta, rc.name, p.cfg.Repository)
	observedAt := p.now()
	for _, e := range events {
		e.Repository = p.cfg.Repository
		e.ObservedAt = observedAt
		if err := p.sink.Emit(ctx, e); err != nil {
			p.logger.Printf("Failed to deliver notification %q: %v", e.Summary(), err)
		}
	}
	return len(events), nil
}

func (p *poller) withTimeout(ctx context.Context, fn func(ctx context.Context) error) error {
	if p.cfg.FetchTimeout <= 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, p.cfg.FetchTimeout)
	defer cancel()
	return fn(ctx)
}
