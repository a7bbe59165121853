package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/go-github/v62/github"

	"github.com/Nehorai4/git-project/internal/domain"
)

// AuthenticatedUser returns the login of the user the token belongs to.
func (g *GitHubGateway) AuthenticatedUser(ctx context.Context) (string, error) {
	user, _, err := g.restClient.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to fetch authenticated user: %w", classify(err))
	}
	return user.GetLogin(), nil
}

func (g *GitHubGateway) CreateIssue(ctx context.Context, title string) (domain.Issue, error) {
	g.logger.Printf("Creating issue %q in %s...", title, g.Repository())
	issue, _, err := g.restClient.Issues.Create(ctx, g.owner, g.name, &github.IssueRequest{Title: github.String(title)})
	if err != nil {
		return domain.Issue{}, fmt.Errorf("failed to create issue: %w", classify(err))
	}
	return toIssue(issue), nil
}

// CloseIssue closes an open issue. It returns domain.ErrIssueAlreadyClosed
// together with the issue when it was closed before the call.
func (g *GitHubGateway) CloseIssue(ctx context.Context, number int) (domain.Issue, error) {
	g.logger.Printf("Closing issue #%d in %s...", number, g.Repository())
	issue, _, err := g.restClient.Issues.Get(ctx, g.owner, g.name, number)
	if err != nil {
		return domain.Issue{}, fmt.Errorf("failed to get issue #%d: %w", number, classify(err))
	}
	if issue.GetState() == domain.IssueStateClosed {
		return toIssue(issue), fmt.Errorf("issue #%d: %w", number, domain.ErrIssueAlreadyClosed)
	}
	closed, _, err := g.restClient.Issues.Edit(ctx, g.owner, g.name, number, &github.IssueRequest{State: github.String(domain.IssueStateClosed)})
	if err != nil {
		return domain.Issue{}, fmt.Errorf("failed to close issue #%d: %w", number, classify(err))
	}
	return toIssue(closed), nil
}

func (g *GitHubGateway) ListIssues(ctx context.Context, state string) ([]domain.Issue, error) {
	if !domain.ValidIssueState(state) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidState, state)
	}
	g.logger.Printf("Listing %s issues of %s...", state, g.Repository())
	opts := &github.IssueListByRepoOptions{
		State:       state,
		ListOptions: github.ListOptions{PerPage: maxPerPage},
	}
	var issues []domain.Issue
	for {
		result, resp, err := g.restClient.Issues.ListByRepo(ctx, g.owner, g.name, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list issues: %w", classify(err))
		}
		for _, issue := range result {
			if issue.IsPullRequest() {
				continue
			}
			issues = append(issues, toIssue(issue))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Println("  Fetching next page of issues...")
	}
	return issues, nil
}

// CreateBranch creates name pointing at the head of from. An empty from means
// the repository's default branch.
func (g *GitHubGateway) CreateBranch(ctx context.Context, name, from string) (domain.Branch, error) {
	if from == "" {
		repo, _, err := g.restClient.Repositories.Get(ctx, g.owner, g.name)
		if err != nil {
			return domain.Branch{}, fmt.Errorf("failed to get repository: %w", classify(err))
		}
		from = repo.GetDefaultBranch()
	}
	g.logger.Printf("Creating branch %q from %q in %s...", name, from, g.Repository())
	base, _, err := g.restClient.Git.GetRef(ctx, g.owner, g.name, "heads/"+from)
	if err != nil {
		return domain.Branch{}, fmt.Errorf("failed to resolve branch %q: %w", from, classify(err))
	}
	ref, _, err := g.restClient.Git.CreateRef(ctx, g.owner, g.name, &github.Reference{
		Ref:    github.String("refs/heads/" + name),
		Object: &github.GitObject{SHA: base.GetObject().SHA},
	})
	if err != nil {
		return domain.Branch{}, fmt.Errorf("failed to create branch %q: %w", name, classify(err))
	}
	return domain.Branch{Name: name, SHA: ref.GetObject().GetSHA()}, nil
}

func (g *GitHubGateway) DeleteBranch(ctx context.Context, name string) error {
	g.logger.Printf("Deleting branch %q in %s...", name, g.Repository())
	if _, err := g.restClient.Git.DeleteRef(ctx, g.owner, g.name, "heads/"+name); err != nil {
		err = classify(err)
		// Deleting a missing ref is reported as 422 rather than 404.
		var errResp *github.ErrorResponse
		if errors.As(err, &errResp) && errResp.Message == "Reference does not exist" {
			err = &domain.APIError{Kind: domain.ErrNotFound, Err: errResp}
		}
		return fmt.Errorf("failed to delete branch %q: %w", name, err)
	}
	return nil
}

func (g *GitHubGateway) ListBranches(ctx context.Context) ([]domain.Branch, error) {
	g.logger.Printf("Listing branches of %s...", g.Repository())
	opts := &github.BranchListOptions{ListOptions: github.ListOptions{PerPage: maxPerPage}}
	var branches []domain.Branch
	for {
		result, resp, err := g.restClient.Repositories.ListBranches(ctx, g.owner, g.name, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list branches: %w", classify(err))
		}
		for _, b := range result {
			branches = append(branches, domain.Branch{
				Name:      b.GetName(),
				SHA:       b.GetCommit().GetSHA(),
				Protected: b.GetProtected(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Println("  Fetching next page of branches...")
	}
	return branches, nil
}
