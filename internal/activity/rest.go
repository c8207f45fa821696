package activity

import (
	"context"

	"github.com/google/go-github/v68/github"
)

// restAPI implements githubAPI against the real GitHub REST API.
type restAPI struct {
	client *github.Client
}

func (a *restAPI) AuthenticatedLogin(ctx context.Context) (string, error) {
	user, _, err := a.client.Users.Get(ctx, "")
	if err != nil {
		return "", err
	}
	return user.GetLogin(), nil
}

func (a *restAPI) SearchIssues(ctx context.Context, query string) ([]*github.Issue, error) {
	opts := &github.SearchOptions{
		Sort:        "updated",
		Order:       "desc",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var issues []*github.Issue
	for {
		result, resp, err := a.client.Search.Issues(ctx, query, opts)
		if err != nil {
			return nil, err
		}
		issues = append(issues, result.Issues...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return issues, nil
}

func (a *restAPI) ListPullReviews(ctx context.Context, owner, repo string, number int) ([]*github.PullRequestReview, error) {
	opts := &github.ListOptions{PerPage: 100}

	var reviews []*github.PullRequestReview
	for {
		page, resp, err := a.client.PullRequests.ListReviews(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, page...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return reviews, nil
}

func (a *restAPI) ListOwnedRepos(ctx context.Context, limit int) ([]string, error) {
	opts := &github.RepositoryListByAuthenticatedUserOptions{
		Sort:        "pushed",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var names []string
	for {
		repos, resp, err := a.client.Repositories.ListByAuthenticatedUser(ctx, opts)
		if err != nil {
			return nil, err
		}
		for _, r := range repos {
			names = append(names, r.GetFullName())
			if limit > 0 && len(names) >= limit {
				return names, nil
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return names, nil
}
