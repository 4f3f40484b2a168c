// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/github-insights/internal/domain"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
)

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	FetchProfile(ctx context.Context, username string) (*domain.ProfileSummary, error)
	// FetchRepositories returns the first page of the user's public repositories in upstream order.
	FetchRepositories(ctx context.Context, username string) ([]domain.Repository, error)
	FetchLanguages(ctx context.Context, owner, repo string) (map[string]int, error)
	FetchPinnedRepositories(ctx context.Context, username string) ([]domain.PinnedRepository, error)
}

// Options configures the upstream clients.
type Options struct {
	APIURL     string
	GraphQLURL string
	// Timeout bounds every single upstream round trip.
	Timeout time.Duration
	// MaxRateLimitSleep is the longest the client waits out a secondary rate limit
	// before handing the 403 back to the caller.
	MaxRateLimitSleep time.Duration
	PerPage           int
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	perPage       int
	logger        *slog.Logger
}

// pinnedItemsQuery fetches the repositories pinned on a user's profile.
type pinnedItemsQuery struct {
	User struct {
		PinnedItems struct {
			Nodes []struct {
				Typename   string `graphql:"__typename"`
				Repository struct {
					Name            string
					Description     string
					StargazerCount  int
					URL             string
					PrimaryLanguage struct {
						Name string
					}
				} `graphql:"... on Repository"`
			}
		} `graphql:"pinnedItems(first: 6, types: REPOSITORY)"`
	} `graphql:"user(login: $login)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// The returned gateway is safe for concurrent use and holds no mutable state.
func NewGitHubGateway(token string, opts Options, logger *slog.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil,
		github_ratelimit.WithSingleSleepLimit(opts.MaxRateLimitSleep, func(cbCtx *github_ratelimit.CallbackContext) {
			if cbCtx.SleepUntil != nil {
				logger.Warn("secondary rate limit exceeds sleep limit", slog.Time("sleep_until", *cbCtx.SleepUntil))
			}
		}))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Timeout: opts.Timeout,
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}

	restClient := github.NewClient(httpClient)
	if opts.APIURL != "" {
		baseURL, err := url.Parse(withTrailingSlash(opts.APIURL))
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", opts.APIURL, err)
		}
		restClient.BaseURL = baseURL
	}

	graphqlClient := githubv4.NewClient(httpClient)
	if opts.GraphQLURL != "" {
		graphqlClient = githubv4.NewEnterpriseClient(opts.GraphQLURL, httpClient)
	}

	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		perPage:       opts.PerPage,
		logger:        logger,
	}, nil
}

func withTrailingSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}

func (g *GitHubGateway) FetchProfile(ctx context.Context, username string) (*domain.ProfileSummary, error) {
	g.logger.Debug("fetching user profile", slog.String("username", username))
	user, resp, err := g.restClient.Users.Get(ctx, username)
	if err != nil {
		return nil, restError("fetch profile", resp, err)
	}
	profile := &domain.ProfileSummary{
		Name:        user.Name,
		PublicRepos: user.GetPublicRepos(),
		Followers:   user.GetFollowers(),
		Following:   user.GetFollowing(),
		AvatarURL:   user.GetAvatarURL(),
		Bio:         user.Bio,
		HTMLURL:     user.GetHTMLURL(),
	}
	if user.CreatedAt != nil {
		profile.CreatedAt = &user.CreatedAt.Time
	}
	return profile, nil
}

// FetchRepositories issues a single list call; it does not follow pagination.
func (g *GitHubGateway) FetchRepositories(ctx context.Context, username string) ([]domain.Repository, error) {
	g.logger.Debug("fetching repositories", slog.String("username", username))
	opts := &github.RepositoryListByUserOptions{ListOptions: github.ListOptions{PerPage: g.perPage}}
	repos, resp, err := g.restClient.Repositories.ListByUser(ctx, username, opts)
	if err != nil {
		return nil, restError("list repositories", resp, err)
	}

	result := make([]domain.Repository, 0, len(repos))
	for _, repo := range repos {
		owner := repo.GetOwner().GetLogin()
		if owner == "" {
			owner = username
		}
		r := domain.Repository{
			Owner:    owner,
			Name:     repo.GetName(),
			Stars:    repo.GetStargazersCount(),
			Forks:    repo.GetForksCount(),
			Watchers: repo.GetWatchersCount(),
			Language: repo.Language,
			Topics:   repo.Topics,
			HTMLURL:  repo.GetHTMLURL(),
		}
		if repo.UpdatedAt != nil {
			r.UpdatedAt = &repo.UpdatedAt.Time
		}
		result = append(result, r)
	}
	g.logger.Debug("fetched repositories", slog.String("username", username), slog.Int("count", len(result)))
	return result, nil
}

func (g *GitHubGateway) FetchLanguages(ctx context.Context, owner, repo string) (map[string]int, error) {
	languages, resp, err := g.restClient.Repositories.ListLanguages(ctx, owner, repo)
	if err != nil {
		return nil, restError(fmt.Sprintf("list languages of %s/%s", owner, repo), resp, err)
	}
	return languages, nil
}

// FetchPinnedRepositories uses the GraphQL API, since pinned items have no REST endpoint.
func (g *GitHubGateway) FetchPinnedRepositories(ctx context.Context, username string) ([]domain.PinnedRepository, error) {
	g.logger.Debug("fetching pinned repositories", slog.String("username", username))
	var q pinnedItemsQuery
	variables := map[string]interface{}{"login": githubv4.String(username)}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, graphqlError("fetch pinned repositories", err)
	}

	pinned := make([]domain.PinnedRepository, 0, len(q.User.PinnedItems.Nodes))
	for _, node := range q.User.PinnedItems.Nodes {
		if node.Typename != "Repository" {
			continue
		}
		repo := node.Repository
		p := domain.PinnedRepository{
			Name:  repo.Name,
			Stars: repo.StargazerCount,
			URL:   repo.URL,
		}
		// GraphQL nulls decode to zero values.
		if repo.Description != "" {
			description := repo.Description
			p.Description = &description
		}
		if repo.PrimaryLanguage.Name != "" {
			language := repo.PrimaryLanguage.Name
			p.Language = &language
		}
		pinned = append(pinned, p)
	}
	return pinned, nil
}
