package ports

import (
	"context"

	"devpulse/internal/domain/review"
)

// PullRequestFetcher reads one pull request and its changed-file list from
// the code host and merges them into a normalized summary.
type PullRequestFetcher interface {
	FetchPullRequest(ctx context.Context, owner string, repo string, number int) (review.PullRequestSummary, error)
}
