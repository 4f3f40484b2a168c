package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/naka-gawa/github-insights/internal/domain"
	"golang.org/x/sync/errgroup"
)

// pinThreshold is the repository count from which pinning is suggested.
const pinThreshold = 6

const (
	msgAddBio        = "Add a bio to your GitHub profile to tell others about yourself."
	msgPinRepos      = "Consider pinning your best repositories for better visibility."
	msgAddTopicsFmt  = "Add topics to your repositories (e.g., %s) for better discoverability."
	msgProfileReadme = "Create a profile README to showcase your work."
)

// Recommendations fetches the profile and the repository list concurrently and
// derives advice from them. See recommend for the checks applied.
func (a *Aggregator) Recommendations(ctx context.Context, username string) ([]string, error) {
	var profile *domain.ProfileSummary
	var repos []domain.Repository

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		profile, err = a.fetcher.FetchProfile(egCtx, username)
		return err
	})
	eg.Go(func() error {
		var err error
		repos, err = a.fetcher.FetchRepositories(egCtx, username)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return recommend(username, profile, repos), nil
}

// recommend applies the profile checks in a fixed order, each adding at most one message.
//
// The profile README check only looks for a repository named after the user;
// it does not verify that the repository holds a README.
func recommend(username string, profile *domain.ProfileSummary, repos []domain.Repository) []string {
	recommendations := make([]string, 0, 4)

	if profile.Bio == nil || *profile.Bio == "" {
		recommendations = append(recommendations, msgAddBio)
	}

	if len(repos) >= pinThreshold {
		recommendations = append(recommendations, msgPinRepos)
	}

	for _, repo := range repos {
		if len(repo.Topics) == 0 {
			recommendations = append(recommendations, fmt.Sprintf(msgAddTopicsFmt, repo.Name))
			break
		}
	}

	hasProfileRepo := false
	for _, repo := range repos {
		if strings.EqualFold(repo.Name, username) {
			hasProfileRepo = true
			break
		}
	}
	if !hasProfileRepo {
		recommendations = append(recommendations, msgProfileReadme)
	}

	return recommendations
}
