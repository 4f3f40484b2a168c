// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/montanaflynn/stats"
	"github.com/naka-gawa/github-insights/internal/domain"
	"github.com/naka-gawa/github-insights/internal/gateway"
	"golang.org/x/sync/errgroup"
)

// DefaultLanguageConcurrency caps the per-repository language calls in flight
// when no explicit limit is configured.
const DefaultLanguageConcurrency = 4

// Aggregator is the use case for reshaping and aggregating GitHub data.
// It orchestrates the fetching and combining of data.
type Aggregator struct {
	fetcher             gateway.Fetcher
	logger              *slog.Logger
	languageConcurrency int
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.Fetcher, logger *slog.Logger, languageConcurrency int) *Aggregator {
	if languageConcurrency <= 0 {
		languageConcurrency = DefaultLanguageConcurrency
	}
	return &Aggregator{
		fetcher:             fetcher,
		logger:              logger,
		languageConcurrency: languageConcurrency,
	}
}

// Profile returns the user's profile summary.
func (a *Aggregator) Profile(ctx context.Context, username string) (*domain.ProfileSummary, error) {
	return a.fetcher.FetchProfile(ctx, username)
}

// Repositories returns the user's repositories ordered by star count, highest first.
// Repositories with equal stars keep their upstream order.
func (a *Aggregator) Repositories(ctx context.Context, username string) ([]domain.RepositorySummary, error) {
	repos, err := a.fetcher.FetchRepositories(ctx, username)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.RepositorySummary, 0, len(repos))
	for _, repo := range repos {
		summaries = append(summaries, repo.Summary())
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Stars > summaries[j].Stars
	})
	return summaries, nil
}

// Languages sums the language byte counts of every repository of the user.
// Per-repository calls run concurrently, at most languageConcurrency at a time.
// The first failing call aborts the aggregation and no partial tally is returned.
func (a *Aggregator) Languages(ctx context.Context, username string) (domain.LanguageTally, error) {
	repos, err := a.fetcher.FetchRepositories(ctx, username)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("aggregating languages", slog.String("username", username), slog.Int("repositories", len(repos)))

	var mu sync.Mutex
	tally := make(domain.LanguageTally)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.languageConcurrency)
	for _, repo := range repos {
		eg.Go(func() error {
			languages, err := a.fetcher.FetchLanguages(egCtx, repo.Owner, repo.Name)
			if err != nil {
				return err
			}
			mu.Lock()
			tally.Add(languages)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return tally, nil
}

// PinnedRepositories returns the repositories pinned on the user's profile.
func (a *Aggregator) PinnedRepositories(ctx context.Context, username string) ([]domain.PinnedRepository, error) {
	return a.fetcher.FetchPinnedRepositories(ctx, username)
}

// RepositoryStats summarizes stars and forks over the user's repositories.
func (a *Aggregator) RepositoryStats(ctx context.Context, username string) (*domain.RepositoryStats, error) {
	repos, err := a.fetcher.FetchRepositories(ctx, username)
	if err != nil {
		return nil, err
	}

	result := &domain.RepositoryStats{Count: len(repos)}
	if len(repos) == 0 {
		return result, nil
	}

	stars := make(stats.Float64Data, 0, len(repos))
	for _, repo := range repos {
		stars = append(stars, float64(repo.Stars))
		result.TotalForks += repo.Forks
	}
	// The inputs are non-empty, so the stats calls below cannot fail.
	total, _ := stars.Sum()
	mean, _ := stars.Mean()
	median, _ := stars.Median()
	maxStars, _ := stars.Max()

	result.TotalStars = int(total)
	result.MeanStars = mean
	result.MedianStars = median
	result.MaxStars = int(maxStars)
	return result, nil
}
