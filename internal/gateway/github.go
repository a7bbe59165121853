package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/Nehorai4/git-project/internal/domain"
)

// maxPerPage is the largest page size the REST API accepts.
const maxPerPage = 100

// GitHubGateway is the concrete implementation of the gateway interfaces for
// a single repository.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	owner         string
	name          string
	logger        *log.Logger
}

// issueCountQuery counts issues in the given states. Pull requests are not included.
type issueCountQuery struct {
	Repository struct {
		Issues struct {
			TotalCount githubv4.Int
		} `graphql:"issues(states: $states)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

type pullRequestCountQuery struct {
	Repository struct {
		PullRequests struct {
			TotalCount githubv4.Int
		} `graphql:"pullRequests(states: $states)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// commitCountQuery counts the commits reachable from the default branch.
type commitCountQuery struct {
	Repository struct {
		DefaultBranchRef struct {
			Target struct {
				Commit struct {
					History struct {
						TotalCount githubv4.Int
					}
				} `graphql:"... on Commit"`
			}
		}
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewGitHubGateway is a constructor that creates a new GitHubGateway bound to
// repository ("owner/name").
func NewGitHubGateway(repository, token string, logger *log.Logger) (*GitHubGateway, error) {
	owner, name, err := SplitRepository(repository)
	if err != nil {
		return nil, err
	}
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(time.Minute, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		owner:         owner,
		name:          name,
		logger:        logger,
	}, nil
}

// Repository returns the "owner/name" the gateway is bound to.
func (g *GitHubGateway) Repository() string {
	return g.owner + "/" + g.name
}

func (g *GitHubGateway) repoVariables() map[string]interface{} {
	return map[string]interface{}{
		"owner": githubv4.String(g.owner),
		"name":  githubv4.String(g.name),
	}
}

func (g *GitHubGateway) countIssues(ctx context.Context, states ...githubv4.IssueState) (int, error) {
	variables := g.repoVariables()
	variables["states"] = states
	var q issueCountQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return 0, classify(err)
	}
	return int(q.Repository.Issues.TotalCount), nil
}

func (g *GitHubGateway) countPullRequests(ctx context.Context, states ...githubv4.PullRequestState) (int, error) {
	variables := g.repoVariables()
	variables["states"] = states
	var q pullRequestCountQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return 0, classify(err)
	}
	return int(q.Repository.PullRequests.TotalCount), nil
}

func (g *GitHubGateway) CountOpenIssues(ctx context.Context) (int, error) {
	n, err := g.countIssues(ctx, githubv4.IssueStateOpen)
	if err != nil {
		return 0, fmt.Errorf("failed to count open issues: %w", err)
	}
	return n, nil
}

func (g *GitHubGateway) CountClosedIssues(ctx context.Context) (int, error) {
	n, err := g.countIssues(ctx, githubv4.IssueStateClosed)
	if err != nil {
		return 0, fmt.Errorf("failed to count closed issues: %w", err)
	}
	return n, nil
}

func (g *GitHubGateway) CountOpenPullRequests(ctx context.Context) (int, error) {
	n, err := g.countPullRequests(ctx, githubv4.PullRequestStateOpen)
	if err != nil {
		return 0, fmt.Errorf("failed to count open pull requests: %w", err)
	}
	return n, nil
}

// CountClosedPullRequests counts merged pull requests as closed, matching the REST "closed" filter.
func (g *GitHubGateway) CountClosedPullRequests(ctx context.Context) (int, error) {
	n, err := g.countPullRequests(ctx, githubv4.PullRequestStateClosed, githubv4.PullRequestStateMerged)
	if err != nil {
		return 0, fmt.Errorf("failed to count closed pull requests: %w", err)
	}
	return n, nil
}

// CountCommits returns the length of the default branch history, or zero for an empty repository.
func (g *GitHubGateway) CountCommits(ctx context.Context) (int, error) {
	var q commitCountQuery
	if err := g.graphqlClient.Query(ctx, &q, g.repoVariables()); err != nil {
		return 0, fmt.Errorf("failed to count commits: %w", classify(err))
	}
	return int(q.Repository.DefaultBranchRef.Target.Commit.History.TotalCount), nil
}

// pageSize keeps REST pages no larger than what is still needed.
func pageSize(remaining int) int {
	if remaining > maxPerPage {
		return maxPerPage
	}
	return remaining
}

func (g *GitHubGateway) FetchRecentOpenIssues(ctx context.Context, limit int) ([]domain.Issue, error) {
	if limit <= 0 {
		return nil, nil
	}
	g.logger.Printf("Fetching %d most recent open issues of %s...", limit, g.Repository())
	opts := &github.IssueListByRepoOptions{
		State:       domain.IssueStateOpen,
		Sort:        "created",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: pageSize(limit)},
	}
	issues := make([]domain.Issue, 0, limit)
	for {
		result, resp, err := g.restClient.Issues.ListByRepo(ctx, g.owner, g.name, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list open issues: %w", classify(err))
		}
		for _, issue := range result {
			// The issues endpoint also returns pull requests.
			if issue.IsPullRequest() {
				continue
			}
			issues = append(issues, toIssue(issue))
			if len(issues) == limit {
				return issues, nil
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return issues, nil
}

func (g *GitHubGateway) FetchRecentOpenPullRequests(ctx context.Context, limit int) ([]domain.PullRequest, error) {
	if limit <= 0 {
		return nil, nil
	}
	g.logger.Printf("Fetching %d most recent open pull requests of %s...", limit, g.Repository())
	opts := &github.PullRequestListOptions{
		State:       "open",
		Sort:        "created",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: pageSize(limit)},
	}
	prs := make([]domain.PullRequest, 0, limit)
	for {
		result, resp, err := g.restClient.PullRequests.List(ctx, g.owner, g.name, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list open pull requests: %w", classify(err))
		}
		for _, pr := range result {
			prs = append(prs, domain.PullRequest{
				Number: pr.GetNumber(),
				Title:  pr.GetTitle(),
				URL:    pr.GetHTMLURL(),
			})
			if len(prs) == limit {
				return prs, nil
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return prs, nil
}

func (g *GitHubGateway) FetchRecentCommits(ctx context.Context, limit int) ([]domain.Commit, error) {
	if limit <= 0 {
		return nil, nil
	}
	g.logger.Printf("Fetching %d most recent commits of %s...", limit, g.Repository())
	opts := &github.CommitsListOptions{ListOptions: github.ListOptions{PerPage: pageSize(limit)}}
	commits := make([]domain.Commit, 0, limit)
	for {
		result, resp, err := g.restClient.Repositories.ListCommits(ctx, g.owner, g.name, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list commits: %w", classify(err))
		}
		for _, c := range result {
			commits = append(commits, toCommit(c))
			if len(commits) == limit {
				return commits, nil
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return commits, nil
}

func toIssue(issue *github.Issue) domain.Issue {
	return domain.Issue{
		Number: issue.GetNumber(),
		Title:  issue.GetTitle(),
		State:  issue.GetState(),
		URL:    issue.GetHTMLURL(),
	}
}

func toCommit(c *github.RepositoryCommit) domain.Commit {
	sha := c.GetSHA()
	if len(sha) > 7 {
		sha = sha[:7]
	}
	message, _, _ := strings.Cut(c.GetCommit().GetMessage(), "\n")
	author := c.GetAuthor().GetLogin()
	if author == "" {
		author = domain.UnknownAuthor
	}
	return domain.Commit{
		ShortHash: sha,
		Message:   message,
		Author:    author,
	}
}
