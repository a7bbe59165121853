package watcher

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Nehorai4/git-project/internal/domain"
	"github.com/Nehorai4/git-project/internal/gateway"
	"github.com/Nehorai4/git-project/internal/sink"
)

// Controller turns new-item notifications on and off and owns the single
// poller goroutine that produces them.
//
// Enable waits for the previous poller to exit before starting a new one, so
// at most one poller runs at any time. Disable only signals the poller; a cycle
// that is already running finishes, but no new cycle starts.
type Controller struct {
	// opMu serializes Enable calls, which may block on the network.
	opMu sync.Mutex

	mu     sync.Mutex
	status domain.PollerStatus
	stop   chan struct{}
	done   chan struct{}

	state   *PollState
	metrics *cycleMetrics
	sink    sink.Sink
	logger  *log.Logger
	cfg     Config
}

func NewController(cfg Config, s sink.Sink, logger *log.Logger) *Controller {
	return &Controller{
		status:  domain.Disabled,
		state:   NewPollState(domain.Counts{}),
		metrics: &cycleMetrics{},
		sink:    s,
		logger:  logger,
		cfg:     cfg.withDefaults(),
	}
}

// Enable captures the current counts as the baseline and starts the poller.
// ctx bounds the baseline snapshot and is also the parent of the poller's
// lifetime: cancelling it stops the poller the same way Disable does.
// Calling Enable while enabled does nothing.
func (c *Controller) Enable(ctx context.Context, client gateway.RepositoryClient) (domain.PollerStatus, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	if c.status == domain.Enabled {
		c.mu.Unlock()
		return domain.Enabled, nil
	}
	prev := c.done
	c.mu.Unlock()

	if prev != nil {
		select {
		case <-prev:
		case <-ctx.Done():
			return domain.Disabled, fmt.Errorf("previous poller is still running: %w", ctx.Err())
		}
	}

	baseline, err := c.snapshot(ctx, client)
	if err != nil {
		return domain.Disabled, fmt.Errorf("failed to capture baseline counts: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Update(baseline)
	c.metrics.reset()
	stop := make(chan struct{})
	done := make(chan struct{})
	c.stop, c.done = stop, done
	c.status = domain.Enabled

	p := &poller{
		client:  client,
		state:   c.state,
		sink:    c.sink,
		logger:  c.logger,
		metrics: c.metrics,
		cfg:     c.cfg,
		now:     time.Now,
	}
	go func() {
		defer close(done)
		defer func() {
			// The poller can also end through ctx; reflect that in the status.
			c.mu.Lock()
			if c.done == done {
				c.status = domain.Disabled
			}
			c.mu.Unlock()
		}()
		p.run(ctx, stop)
	}()

	c.logger.Printf("Notifications enabled for %s (baseline: %d issues, %d pull requests, %d commits)",
		c.cfg.Repository, baseline.Issues, baseline.PullRequests, baseline.Commits)
	return domain.Enabled, nil
}

// Disable signals the poller to stop and returns without waiting for it.
func (c *Controller) Disable() domain.PollerStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != domain.Enabled {
		return domain.Disabled
	}
	c.status = domain.Disabled
	close(c.stop)
	c.logger.Printf("Notifications disabled for %s", c.cfg.Repository)
	return domain.Disabled
}

// Toggle flips the status and returns the resulting one.
func (c *Controller) Toggle(ctx context.Context, client gateway.RepositoryClient) (domain.PollerStatus, error) {
	if c.Status() == domain.Enabled {
		return c.Disable(), nil
	}
	return c.Enable(ctx, client)
}

func (c *Controller) Status() domain.PollerStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Wait blocks until the most recently started poller has exited.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Baseline returns the counts the next cycle will compare against.
func (c *Controller) Baseline() domain.Counts {
	return c.state.Snapshot()
}

// Report summarizes the current or most recent enable session.
func (c *Controller) Report() domain.PollerReport {
	m := c.metrics.summary()
	return domain.PollerReport{
		Status:        c.Status(),
		Baseline:      c.state.Snapshot(),
		Cycles:        m.cycles,
		FailedCycles:  m.failed,
		EventsEmitted: m.events,
		LastError:     m.lastErr,
		LatencyMedian: m.median,
		LatencyP95:    m.p95,
	}
}

// snapshot reads the three live counts concurrently.
func (c *Controller) snapshot(ctx context.Context, client gateway.RepositoryClient) (domain.Counts, error) {
	if c.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.FetchTimeout)
		defer cancel()
	}

	var counts domain.Counts
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		counts.Issues, err = client.CountOpenIssues(egCtx)
		return err
	})
	eg.Go(func() error {
		var err error
		counts.PullRequests, err = client.CountOpenPullRequests(egCtx)
		return err
	})
	eg.Go(func() error {
		var err error
		counts.Commits, err = client.CountCommits(egCtx)
		return err
	})
	if err := eg.Wait(); err != nil {
		return domain.Counts{}, err
	}
	return counts, nil
}
