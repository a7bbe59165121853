package watcher

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Nehorai4/git-project/internal/domain"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func newTestController(interval time.Duration, s *recordingSink) *Controller {
	return NewController(Config{
		Repository:   "octo/repo",
		Interval:     interval,
		FetchTimeout: time.Second,
	}, s, log.New(io.Discard, "", 0))
}

func stopAndWait(t *testing.T, c *Controller) {
	t.Helper()
	c.Disable()
	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	require.NoError(t, c.Wait(ctx))
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestController_EnableCapturesBaseline(t *testing.T) {
	live := domain.Counts{Issues: 5, PullRequests: 2, Commits: 100}
	client := newFakeClient(live)
	s := &recordingSink{}
	c := newTestController(tick, s)
	defer stopAndWait(t, c)

	status, err := c.Enable(context.Background(), client)

	require.NoError(t, err)
	assert.Equal(t, domain.Enabled, status)
	assert.Equal(t, domain.Enabled, c.Status())
	assert.Equal(t, live, c.Baseline())

	// Pre-existing items must never be reported.
	assert.Eventually(t, func() bool { return c.Report().Cycles >= 3 }, waitFor, tick)
	assert.Empty(t, s.Events())
}

func TestController_EnableThenImmediateDisable(t *testing.T) {
	live := domain.Counts{Issues: 5, PullRequests: 2, Commits: 100}
	client := newFakeClient(live)
	s := &recordingSink{}
	c := newTestController(time.Hour, s)

	_, err := c.Enable(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, domain.Disabled, c.Disable())
	stopAndWait(t, c)

	assert.Empty(t, s.Events())
	assert.Equal(t, live, c.Baseline())
	assert.Equal(t, domain.Disabled, c.Status())
}

func TestController_ReportsNewItems(t *testing.T) {
	client := newFakeClient(domain.Counts{Issues: 5, PullRequests: 2, Commits: 100})
	s := &recordingSink{}
	c := newTestController(tick, s)
	defer stopAndWait(t, c)

	_, err := c.Enable(context.Background(), client)
	require.NoError(t, err)
	client.set(domain.Counts{Issues: 7, PullRequests: 2, Commits: 100})

	require.Eventually(t, func() bool { return len(s.Events()) == 2 }, waitFor, tick)
	for _, e := range s.Events() {
		assert.Equal(t, domain.NewIssue, e.Kind)
	}
	assert.Eventually(t, func() bool {
		return c.Baseline() == domain.Counts{Issues: 7, PullRequests: 2, Commits: 100}
	}, waitFor, tick)
}

func TestController_DisableWhileSleeping(t *testing.T) {
	client := newFakeClient(domain.Counts{Issues: 1, PullRequests: 1, Commits: 1})
	s := &recordingSink{}
	c := newTestController(time.Hour, s)

	_, err := c.Enable(context.Background(), client)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return c.Report().Cycles == 1 }, waitFor, tick)

	// The poller is now in its hour-long sleep; disabling must end it promptly.
	stopAndWait(t, c)
	frozen := c.Baseline()
	client.set(domain.Counts{Issues: 9, PullRequests: 9, Commits: 9})
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, uint64(1), c.Report().Cycles)
	assert.Equal(t, frozen, c.Baseline())
	assert.Empty(t, s.Events())
}

func TestController_EnableIsIdempotent(t *testing.T) {
	client := newFakeClient(domain.Counts{})
	c := newTestController(time.Hour, &recordingSink{})
	defer stopAndWait(t, c)

	_, err := c.Enable(context.Background(), client)
	require.NoError(t, err)
	c.mu.Lock()
	firstDone := c.done
	c.mu.Unlock()

	status, err := c.Enable(context.Background(), client)

	require.NoError(t, err)
	assert.Equal(t, domain.Enabled, status)
	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Equal(t, firstDone, c.done, "a second poller must not be started")
}

func TestController_ReenableJoinsPreviousPoller(t *testing.T) {
	client := newFakeClient(domain.Counts{Issues: 3})
	c := newTestController(time.Hour, &recordingSink{})
	defer stopAndWait(t, c)

	_, err := c.Enable(context.Background(), client)
	require.NoError(t, err)
	c.mu.Lock()
	firstDone := c.done
	c.mu.Unlock()
	c.Disable()

	client.set(domain.Counts{Issues: 4})
	status, err := c.Enable(context.Background(), client)

	require.NoError(t, err)
	assert.Equal(t, domain.Enabled, status)
	assert.True(t, isClosed(firstDone), "previous poller must have exited before a new one starts")
	assert.Equal(t, domain.Counts{Issues: 4}, c.Baseline(), "re-enable takes a fresh baseline")
}

func TestController_Toggle(t *testing.T) {
	client := newFakeClient(domain.Counts{})
	c := newTestController(time.Hour, &recordingSink{})

	status, err := c.Toggle(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, domain.Enabled, status)

	status, err = c.Toggle(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, domain.Disabled, status)

	stopAndWait(t, c)
}

func TestController_CycleErrorsDoNotStopPolling(t *testing.T) {
	client := newFakeClient(domain.Counts{Issues: 1, PullRequests: 1, Commits: 1})
	s := &recordingSink{}
	c := newTestController(tick, s)
	defer stopAndWait(t, c)

	_, err := c.Enable(context.Background(), client)
	require.NoError(t, err)
	client.failNext(3, connectivityErr())
	client.set(domain.Counts{Issues: 1, PullRequests: 1, Commits: 2})

	require.Eventually(t, func() bool { return len(s.Events()) == 1 }, waitFor, tick)
	report := c.Report()
	assert.Equal(t, domain.Enabled, report.Status)
	assert.Equal(t, uint64(3), report.FailedCycles)
	assert.Contains(t, report.LastError, "connectivity error")
	assert.Equal(t, domain.NewCommit, s.Events()[0].Kind)
}

func TestController_EnableFailsWhenSnapshotFails(t *testing.T) {
	client := new(mockClient)
	client.On("CountOpenIssues", mock.Anything).Return(1, nil).Maybe()
	client.On("CountOpenPullRequests", mock.Anything).Return(1, nil).Maybe()
	client.On("CountCommits", mock.Anything).Return(0, connectivityErr())
	c := newTestController(time.Hour, &recordingSink{})

	status, err := c.Enable(context.Background(), client)

	assert.ErrorIs(t, err, domain.ErrConnectivity)
	assert.Equal(t, domain.Disabled, status)
	assert.Equal(t, domain.Disabled, c.Status())
	assert.NoError(t, c.Wait(context.Background()), "no poller was started")
}

func TestController_ContextCancelStopsPoller(t *testing.T) {
	client := newFakeClient(domain.Counts{})
	c := newTestController(time.Hour, &recordingSink{})
	ctx, cancel := context.WithCancel(context.Background())

	_, err := c.Enable(ctx, client)
	require.NoError(t, err)
	cancel()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), waitFor)
	defer waitCancel()
	require.NoError(t, c.Wait(waitCtx))
	assert.Equal(t, domain.Disabled, c.Status())
}

func TestController_ReportLatency(t *testing.T) {
	client := newFakeClient(domain.Counts{})
	c := newTestController(tick, &recordingSink{})
	defer stopAndWait(t, c)

	assert.Equal(t, domain.PollerReport{Status: domain.Disabled}, c.Report())

	_, err := c.Enable(context.Background(), client)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return c.Report().Cycles >= 2 }, waitFor, tick)

	report := c.Report()
	assert.GreaterOrEqual(t, report.LatencyP95, report.LatencyMedian)
	assert.Zero(t, report.FailedCycles)
}
