// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// ProfileSummary is the reshaped view of a GitHub user record.
// Nullable upstream fields stay nullable so they encode as JSON null.
type ProfileSummary struct {
	Name        *string    `json:"name"`
	PublicRepos int        `json:"public_repos"`
	Followers   int        `json:"followers"`
	Following   int        `json:"following"`
	AvatarURL   string     `json:"avatar_url"`
	Bio         *string    `json:"bio"`
	HTMLURL     string     `json:"html_url"`
	CreatedAt   *time.Time `json:"created_at"`
}

// Repository is the subset of an upstream repository record the use cases work with.
// It is not serialized directly; see RepositorySummary for the wire shape.
type Repository struct {
	Owner     string
	Name      string
	Stars     int
	Forks     int
	Watchers  int
	Language  *string
	Topics    []string
	UpdatedAt *time.Time
	HTMLURL   string
}

// RepositorySummary holds the public fields of a single repository.
type RepositorySummary struct {
	Name      string     `json:"name"`
	Stars     int        `json:"stars"`
	Forks     int        `json:"forks"`
	Watchers  int        `json:"watchers"`
	Language  *string    `json:"language"`
	UpdatedAt *time.Time `json:"updated_at"`
	HTMLURL   string     `json:"html_url"`
}

// Summary converts a repository into its public representation.
func (r Repository) Summary() RepositorySummary {
	return RepositorySummary{
		Name:      r.Name,
		Stars:     r.Stars,
		Forks:     r.Forks,
		Watchers:  r.Watchers,
		Language:  r.Language,
		UpdatedAt: r.UpdatedAt,
		HTMLURL:   r.HTMLURL,
	}
}

// LanguageTally maps a language name to the number of bytes written in it.
type LanguageTally map[string]int

// Add merges another breakdown into the tally.
func (t LanguageTally) Add(other map[string]int) {
	for lang, bytes := range other {
		t[lang] += bytes
	}
}

// PinnedRepository is a repository the user pinned on their profile.
type PinnedRepository struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Stars       int     `json:"stars"`
	Language    *string `json:"language"`
	URL         string  `json:"url"`
}

// RepositoryStats summarizes star and fork counts across a user's repositories.
type RepositoryStats struct {
	Count       int     `json:"count"`
	TotalStars  int     `json:"total_stars"`
	TotalForks  int     `json:"total_forks"`
	MeanStars   float64 `json:"mean_stars"`
	MedianStars float64 `json:"median_stars"`
	MaxStars    int     `json:"max_stars"`
}
