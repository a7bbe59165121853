// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"log"

	"github.com/Nehorai4/git-project/internal/domain"
	"github.com/Nehorai4/git-project/internal/gateway"
	"golang.org/x/sync/errgroup"
)

// Aggregator is the use case for repository statistics.
// It orchestrates the fetching and combining of counts.
type Aggregator struct {
	client gateway.RepositoryClient
	logger *log.Logger
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(client gateway.RepositoryClient, logger *log.Logger) *Aggregator {
	return &Aggregator{
		client: client,
		logger: logger,
	}
}

// Aggregate fetches all counts concurrently and combines them into RepoStats.
// The first failing fetch cancels the others and its error is returned.
func (a *Aggregator) Aggregate(ctx context.Context, repository string) (*domain.RepoStats, error) {
	a.logger.Printf("Usecase: Collecting statistics for %s...", repository)

	stats := &domain.RepoStats{Repository: repository}

	// Use an errgroup to fetch all data concurrently.
	eg, egCtx := errgroup.WithContext(ctx)

	counters := []struct {
		dst   *int
		count func(context.Context) (int, error)
	}{
		{&stats.OpenIssues, a.client.CountOpenIssues},
		{&stats.ClosedIssues, a.client.CountClosedIssues},
		{&stats.OpenPullRequests, a.client.CountOpenPullRequests},
		{&stats.ClosedPullRequests, a.client.CountClosedPullRequests},
		{&stats.Commits, a.client.CountCommits},
	}
	for _, c := range counters {
		c := c
		eg.Go(func() error {
			n, err := c.count(egCtx)
			if err != nil {
				return err
			}
			*c.dst = n
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	a.logger.Println("Usecase: Statistics collected successfully.")
	return stats, nil
}
