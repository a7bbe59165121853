// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/Nehorai4/git-project/internal/domain"
)

// RepositoryClient is the read-only surface the notification poller depends on.
// Implementations must be safe for concurrent use.
type RepositoryClient interface {
	CountOpenIssues(ctx context.Context) (int, error)
	CountClosedIssues(ctx context.Context) (int, error)
	CountOpenPullRequests(ctx context.Context) (int, error)
	CountClosedPullRequests(ctx context.Context) (int, error)
	CountCommits(ctx context.Context) (int, error)

	// The FetchRecent methods return at most limit items, newest first.
	FetchRecentOpenIssues(ctx context.Context, limit int) ([]domain.Issue, error)
	FetchRecentOpenPullRequests(ctx context.Context, limit int) ([]domain.PullRequest, error)
	FetchRecentCommits(ctx context.Context, limit int) ([]domain.Commit, error)
}

// IssueManager performs one-shot issue operations.
type IssueManager interface {
	CreateIssue(ctx context.Context, title string) (domain.Issue, error)
	CloseIssue(ctx context.Context, number int) (domain.Issue, error)
	ListIssues(ctx context.Context, state string) ([]domain.Issue, error)
}

// BranchManager performs one-shot branch operations.
type BranchManager interface {
	CreateBranch(ctx context.Context, name, from string) (domain.Branch, error)
	DeleteBranch(ctx context.Context, name string) error
	ListBranches(ctx context.Context) ([]domain.Branch, error)
}

// Authenticator verifies the credentials the gateway was built with.
type Authenticator interface {
	AuthenticatedUser(ctx context.Context) (string, error)
}

// SplitRepository splits "owner/name" into its two parts.
func SplitRepository(fullName string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(fullName), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid repository %q: expected owner/name", fullName)
	}
	return owner, name, nil
}
