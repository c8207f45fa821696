// Package activity collects a user's GitHub activity for a single calendar
// day across a configured list of repositories. Raw activity is held in
// memory only; callers persist derived summaries, never the raw text.
package activity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"

	"github.com/ktanaka/careerlog/internal/types"
)

// Source is the tag recorded on every activity this collector emits.
const Source = "github"

// RepoResult is the outcome of collecting one repository. A fetch failure
// is tagged on the repository instead of silently coalescing to zero
// activity, so callers can tell an API error apart from a quiet day.
type RepoResult struct {
	Repo       string
	Activities []types.RawActivity
	Err        error
}

// githubAPI is the slice of the GitHub REST surface the collector uses.
// Narrowed to an interface so tests can run without the network.
type githubAPI interface {
	AuthenticatedLogin(ctx context.Context) (string, error)
	SearchIssues(ctx context.Context, query string) ([]*github.Issue, error)
	ListPullReviews(ctx context.Context, owner, repo string, number int) ([]*github.PullRequestReview, error)
	ListOwnedRepos(ctx context.Context, limit int) ([]string, error)
}

// Collector pulls merged pull requests, submitted reviews, and closed
// assigned issues from GitHub, one repository at a time.
type Collector struct {
	api githubAPI
}

// New creates a collector authenticated with a personal access token.
func New(ctx context.Context, token string) *Collector {
	return &Collector{api: &restAPI{client: github.NewClient(oauth2HTTPClient(ctx, token))}}
}

// oauth2HTTPClient wraps a static token in an oauth2 transport.
func oauth2HTTPClient(ctx context.Context, token string) *http.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return oauth2.NewClient(ctx, ts)
}

// newWithAPI is used by tests to substitute a fake API.
func newWithAPI(api githubAPI) *Collector {
	return &Collector{api: api}
}

// Verify checks the token by resolving the authenticated login.
func (c *Collector) Verify(ctx context.Context) (string, error) {
	login, err := c.api.AuthenticatedLogin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to authenticate with GitHub: %w", err)
	}
	return login, nil
}

// ListRepos returns up to limit repositories the token can see, most
// recently pushed first. Backs repository selection in connection settings.
func (c *Collector) ListRepos(ctx context.Context, limit int) ([]string, error) {
	repos, err := c.api.ListOwnedRepos(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}
	return repos, nil
}

// Collect gathers one UTC day of activity for every repository in repos
// ("owner/repo" form). date must be YYYY-MM-DD. Repositories are fetched
// sequentially; one repository's failure never aborts the rest.
func (c *Collector) Collect(ctx context.Context, repos []string, date string) ([]RepoResult, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	username, err := c.api.AuthenticatedLogin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate with GitHub: %w", err)
	}

	results := make([]RepoResult, 0, len(repos))
	for _, fullName := range repos {
		result := RepoResult{Repo: fullName}

		owner, repo, ok := splitRepo(fullName)
		if !ok {
			result.Err = fmt.Errorf("invalid repository name %q", fullName)
			results = append(results, result)
			continue
		}

		var errs []error

		merged, err := c.collectMergedPRs(ctx, owner, repo, username, date)
		if err != nil {
			errs = append(errs, fmt.Errorf("merged PRs: %w", err))
		}
		result.Activities = append(result.Activities, merged...)

		reviewed, err := c.collectReviewedPRs(ctx, owner, repo, username, date)
		if err != nil {
			errs = append(errs, fmt.Errorf("reviews: %w", err))
		}
		result.Activities = append(result.Activities, reviewed...)

		issues, err := c.collectClosedIssues(ctx, owner, repo, username, date)
		if err != nil {
			errs = append(errs, fmt.Errorf("closed issues: %w", err))
		}
		result.Activities = append(result.Activities, issues...)

		result.Err = errors.Join(errs...)
		results = append(results, result)
	}

	return results, nil
}

// Flatten merges per-repository results into one activity list, skipping
// nothing: failed repositories simply contribute the items they managed.
func Flatten(results []RepoResult) []types.RawActivity {
	var activities []types.RawActivity
	for _, r := range results {
		activities = append(activities, r.Activities...)
	}
	return activities
}

// FailedRepos returns the names of repositories whose collection failed.
func FailedRepos(results []RepoResult) []string {
	var failed []string
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r.Repo)
		}
	}
	return failed
}

func (c *Collector) collectMergedPRs(ctx context.Context, owner, repo, username, date string) ([]types.RawActivity, error) {
	q := fmt.Sprintf("repo:%s/%s type:pr author:%s is:merged merged:%s", owner, repo, username, date)
	issues, err := c.api.SearchIssues(ctx, q)
	if err != nil {
		return nil, err
	}

	activities := make([]types.RawActivity, 0, len(issues))
	for _, item := range issues {
		activities = append(activities, types.RawActivity{
			Source:       Source,
			ActivityType: types.ActivityPRMerged,
			Title:        item.GetTitle(),
			Body:         item.GetBody(),
			ExternalURL:  item.GetHTMLURL(),
			Metadata: map[string]any{
				"number": item.GetNumber(),
				"repo":   owner + "/" + repo,
				"labels": labelNames(item.Labels),
			},
		})
	}
	return activities, nil
}

func (c *Collector) collectReviewedPRs(ctx context.Context, owner, repo, username, date string) ([]types.RawActivity, error) {
	q := fmt.Sprintf("repo:%s/%s type:pr reviewed-by:%s -author:%s updated:%s", owner, repo, username, username, date)
	issues, err := c.api.SearchIssues(ctx, q)
	if err != nil {
		return nil, err
	}

	since, _ := time.Parse(time.RFC3339, date+"T00:00:00Z")
	until, _ := time.Parse(time.RFC3339, date+"T23:59:59Z")

	var activities []types.RawActivity
	for _, item := range issues {
		reviews, err := c.api.ListPullReviews(ctx, owner, repo, item.GetNumber())
		if err != nil {
			// One PR's review listing failing should not lose the rest.
			continue
		}

		var bodies, states []string
		for _, r := range reviews {
			if r.GetUser().GetLogin() != username {
				continue
			}
			submitted := r.GetSubmittedAt().Time
			if submitted.Before(since) || submitted.After(until) {
				continue
			}
			bodies = append(bodies, r.GetBody())
			states = append(states, r.GetState())
		}

		if len(states) == 0 {
			continue
		}

		activities = append(activities, types.RawActivity{
			Source:       Source,
			ActivityType: types.ActivityPRReviewed,
			Title:        "Review: " + item.GetTitle(),
			Body:         strings.Join(bodies, "\n"),
			ExternalURL:  item.GetHTMLURL(),
			Metadata: map[string]any{
				"number":      item.GetNumber(),
				"repo":        owner + "/" + repo,
				"reviewCount": len(states),
				"states":      states,
			},
		})
	}
	return activities, nil
}

func (c *Collector) collectClosedIssues(ctx context.Context, owner, repo, username, date string) ([]types.RawActivity, error) {
	q := fmt.Sprintf("repo:%s/%s type:issue assignee:%s is:closed closed:%s", owner, repo, username, date)
	issues, err := c.api.SearchIssues(ctx, q)
	if err != nil {
		return nil, err
	}

	var activities []types.RawActivity
	for _, item := range issues {
		if item.IsPullRequest() {
			continue
		}
		activities = append(activities, types.RawActivity{
			Source:       Source,
			ActivityType: types.ActivityIssueClosed,
			Title:        item.GetTitle(),
			Body:         item.GetBody(),
			ExternalURL:  item.GetHTMLURL(),
			Metadata: map[string]any{
				"number": item.GetNumber(),
				"repo":   owner + "/" + repo,
				"labels": labelNames(item.Labels),
			},
		})
	}
	return activities, nil
}

func splitRepo(fullName string) (owner, repo string, ok bool) {
	owner, repo, found := strings.Cut(fullName, "/")
	if !found || owner == "" || repo == "" {
		return "", "", false
	}
	return owner, repo, true
}

func labelNames(labels []*github.Label) []string {
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.GetName())
	}
	return names
}
