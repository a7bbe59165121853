package watcher

import (
	"context"
	"fmt"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/Nehorai4/git-project/internal/domain"
)

// mockClient is a mock implementation of the gateway.RepositoryClient interface.
type mockClient struct {
	mock.Mock
}

func (m *mockClient) CountOpenIssues(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockClient) CountClosedIssues(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockClient) CountOpenPullRequests(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockClient) CountClosedPullRequests(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockClient) CountCommits(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockClient) FetchRecentOpenIssues(ctx context.Context, limit int) ([]domain.Issue, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Issue), args.Error(1)
}

func (m *mockClient) FetchRecentOpenPullRequests(ctx context.Context, limit int) ([]domain.PullRequest, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PullRequest), args.Error(1)
}

func (m *mockClient) FetchRecentCommits(ctx context.Context, limit int) ([]domain.Commit, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Commit), args.Error(1)
}

// fakeClient is a thread-safe in-memory repository whose counts tests can
// change while a poller is running.
type fakeClient struct {
	mu       sync.Mutex
	counts   domain.Counts
	failures int // number of upcoming CountCommits calls that fail
	failErr  error
}

func newFakeClient(c domain.Counts) *fakeClient {
	return &fakeClient{counts: c}
}

func (f *fakeClient) set(c domain.Counts) {
	f.mu.Lock()
	f.counts = c
	f.mu.Unlock()
}

func (f *fakeClient) failNext(n int, err error) {
	f.mu.Lock()
	f.failures, f.failErr = n, err
	f.mu.Unlock()
}

func (f *fakeClient) CountOpenIssues(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts.Issues, nil
}

func (f *fakeClient) CountClosedIssues(context.Context) (int, error) { return 0, nil }

func (f *fakeClient) CountOpenPullRequests(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts.PullRequests, nil
}

func (f *fakeClient) CountClosedPullRequests(context.Context) (int, error) { return 0, nil }

func (f *fakeClient) CountCommits(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return 0, f.failErr
	}
	return f.counts.Commits, nil
}

func (f *fakeClient) FetchRecentOpenIssues(_ context.Context, limit int) ([]domain.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var issues []domain.Issue
	for n := f.counts.Issues; n > 0 && len(issues) < limit; n-- {
		issues = append(issues, domain.Issue{Number: n, Title: fmt.Sprintf("issue %d", n), State: "open"})
	}
	return issues, nil
}

func (f *fakeClient) FetchRecentOpenPullRequests(_ context.Context, limit int) ([]domain.PullRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var prs []domain.PullRequest
	for n := f.counts.PullRequests; n > 0 && len(prs) < limit; n-- {
		prs = append(prs, domain.PullRequest{Number: n, Title: fmt.Sprintf("pr %d", n)})
	}
	return prs, nil
}

func (f *fakeClient) FetchRecentCommits(_ context.Context, limit int) ([]domain.Commit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var commits []domain.Commit
	for n := f.counts.Commits; n > 0 && len(commits) < limit; n-- {
		commits = append(commits, domain.Commit{ShortHash: fmt.Sprintf("%07x", n), Message: "change", Author: "dev"})
	}
	return commits, nil
}

// recordingSink collects every emitted event.
type recordingSink struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recordingSink) Emit(_ context.Context, e domain.Event) error {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	return nil
}

func (r *recordingSink) Events() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events...)
}
