// Package domain contains the core data structures and domain logic for the application.
package domain

// RepoStats holds the issue, pull request and commit counts for a single repository.
type RepoStats struct {
	Repository         string `json:"repository"`
	OpenIssues         int    `json:"open_issues"`
	ClosedIssues       int    `json:"closed_issues"`
	OpenPullRequests   int    `json:"open_pull_requests"`
	ClosedPullRequests int    `json:"closed_pull_requests"`
	Commits            int    `json:"commits"`
}
