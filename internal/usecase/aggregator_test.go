package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/naka-gawa/github-insights/internal/domain"
	"github.com/naka-gawa/github-insights/internal/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It allows us to simulate the behavior of the GitHub gateway without making real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchProfile(ctx context.Context, username string) (*domain.ProfileSummary, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProfileSummary), args.Error(1)
}

func (m *mockFetcher) FetchRepositories(ctx context.Context, username string) ([]domain.Repository, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Repository), args.Error(1)
}

func (m *mockFetcher) FetchLanguages(ctx context.Context, owner, repo string) (map[string]int, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *mockFetcher) FetchPinnedRepositories(ctx context.Context, username string) ([]domain.PinnedRepository, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PinnedRepository), args.Error(1)
}

func newTestAggregator(fetcher gateway.Fetcher) *Aggregator {
	return NewAggregator(fetcher, slog.New(slog.NewTextHandler(io.Discard, nil)), 2)
}

func repo(name string, stars int, topics ...string) domain.Repository {
	return domain.Repository{Owner: "octocat", Name: name, Stars: stars, Topics: topics}
}

func TestAggregator_Repositories(t *testing.T) {
	testCases := []struct {
		name          string
		mockRepos     []domain.Repository
		mockErr       error
		expectedNames []string
		expectError   bool
	}{
		{
			name:          "sorts by stars descending",
			mockRepos:     []domain.Repository{repo("a", 1), repo("b", 10), repo("c", 5)},
			expectedNames: []string{"b", "c", "a"},
		},
		{
			name:          "keeps upstream order for equal stars",
			mockRepos:     []domain.Repository{repo("first", 3), repo("top", 9), repo("second", 3), repo("third", 3)},
			expectedNames: []string{"top", "first", "second", "third"},
		},
		{
			name:          "empty list",
			mockRepos:     []domain.Repository{},
			expectedNames: []string{},
		},
		{
			name:        "upstream failure",
			mockErr:     &gateway.UpstreamError{Op: "list repositories", Status: http.StatusNotFound},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fetcher := new(mockFetcher)
			fetcher.On("FetchRepositories", mock.Anything, "octocat").Return(tc.mockRepos, tc.mockErr)

			results, err := newTestAggregator(fetcher).Repositories(context.Background(), "octocat")

			if tc.expectError {
				assert.Error(t, err)
				assert.Nil(t, results)
			} else {
				require.NoError(t, err)
				names := make([]string, 0, len(results))
				for _, r := range results {
					names = append(names, r.Name)
				}
				assert.Equal(t, tc.expectedNames, names)
			}
			fetcher.AssertExpectations(t)
		})
	}
}

func TestAggregator_Languages(t *testing.T) {
	testCases := []struct {
		name          string
		mockRepos     []domain.Repository
		mockLanguages map[string]map[string]int
		mockLangErr   map[string]error
		expected      domain.LanguageTally
		expectError   bool
	}{
		{
			name:      "sums overlapping languages",
			mockRepos: []domain.Repository{repo("a", 0), repo("b", 0), repo("c", 0)},
			mockLanguages: map[string]map[string]int{
				"a": {"Go": 100, "Shell": 10},
				"b": {"Go": 50, "TypeScript": 400},
				"c": {"Shell": 5},
			},
			expected: domain.LanguageTally{"Go": 150, "Shell": 15, "TypeScript": 400},
		},
		{
			name:      "disjoint languages",
			mockRepos: []domain.Repository{repo("a", 0), repo("b", 0)},
			mockLanguages: map[string]map[string]int{
				"a": {"Rust": 7},
				"b": {"Python": 3},
			},
			expected: domain.LanguageTally{"Rust": 7, "Python": 3},
		},
		{
			name:      "no repositories",
			mockRepos: []domain.Repository{},
			expected:  domain.LanguageTally{},
		},
		{
			name:      "one failing repository discards the tally",
			mockRepos: []domain.Repository{repo("a", 0), repo("b", 0)},
			mockLanguages: map[string]map[string]int{
				"a": {"Go": 1},
			},
			mockLangErr: map[string]error{
				"b": &gateway.UpstreamError{Op: "list languages", Status: http.StatusForbidden},
			},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fetcher := new(mockFetcher)
			fetcher.On("FetchRepositories", mock.Anything, "octocat").Return(tc.mockRepos, nil)
			for name, langs := range tc.mockLanguages {
				fetcher.On("FetchLanguages", mock.Anything, "octocat", name).Return(langs, nil).Maybe()
			}
			for name, err := range tc.mockLangErr {
				fetcher.On("FetchLanguages", mock.Anything, "octocat", name).Return(nil, err)
			}

			tally, err := newTestAggregator(fetcher).Languages(context.Background(), "octocat")

			if tc.expectError {
				require.Error(t, err)
				assert.Equal(t, http.StatusForbidden, gateway.StatusOf(err))
				assert.Nil(t, tally)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expected, tally)
			}
			fetcher.AssertExpectations(t)
		})
	}
}

func TestAggregator_Languages_RepositoryListFails(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchRepositories", mock.Anything, "ghost").Return(nil, &gateway.UpstreamError{Status: http.StatusNotFound})

	tally, err := newTestAggregator(fetcher).Languages(context.Background(), "ghost")

	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, gateway.StatusOf(err))
	assert.Nil(t, tally)
	fetcher.AssertNotCalled(t, "FetchLanguages", mock.Anything, mock.Anything, mock.Anything)
}

func TestAggregator_RepositoryStats(t *testing.T) {
	t.Run("summarizes stars and forks", func(t *testing.T) {
		repos := []domain.Repository{repo("a", 1), repo("b", 10), repo("c", 4)}
		repos[0].Forks = 2
		repos[2].Forks = 3
		fetcher := new(mockFetcher)
		fetcher.On("FetchRepositories", mock.Anything, "octocat").Return(repos, nil)

		result, err := newTestAggregator(fetcher).RepositoryStats(context.Background(), "octocat")

		require.NoError(t, err)
		assert.Equal(t, &domain.RepositoryStats{
			Count:       3,
			TotalStars:  15,
			TotalForks:  5,
			MeanStars:   5,
			MedianStars: 4,
			MaxStars:    10,
		}, result)
	})

	t.Run("no repositories yields zero values", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("FetchRepositories", mock.Anything, "octocat").Return([]domain.Repository{}, nil)

		result, err := newTestAggregator(fetcher).RepositoryStats(context.Background(), "octocat")

		require.NoError(t, err)
		assert.Equal(t, &domain.RepositoryStats{}, result)
	})

	t.Run("upstream failure", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("FetchRepositories", mock.Anything, "octocat").Return(nil, errors.New("github api error"))

		result, err := newTestAggregator(fetcher).RepositoryStats(context.Background(), "octocat")

		assert.Error(t, err)
		assert.Nil(t, result)
	})
}

func TestAggregator_PinnedRepositories(t *testing.T) {
	pinned := []domain.PinnedRepository{{Name: "hello-world", Stars: 3, URL: "https://github.com/octocat/hello-world"}}
	fetcher := new(mockFetcher)
	fetcher.On("FetchPinnedRepositories", mock.Anything, "octocat").Return(pinned, nil)

	result, err := newTestAggregator(fetcher).PinnedRepositories(context.Background(), "octocat")

	require.NoError(t, err)
	assert.Equal(t, pinned, result)
}
