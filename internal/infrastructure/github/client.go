package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"

	"devpulse/internal/bootstrap/config"
	"devpulse/internal/bootstrap/logging"
	"devpulse/internal/domain/review"
	"devpulse/internal/errs"
	"devpulse/internal/ports"
)

const fallbackDocsURL = "https://docs.github.com/rest"

// Single page is plenty: analysis only inspects a bounded prefix of the list.
const filesPerPage = 100

// ErrMissingToken is a fatal configuration error raised before any network call.
var ErrMissingToken = errors.New("github token not configured")

// APIError carries the upstream status code, message and a documentation
// reference for any GitHub transport or API failure.
type APIError struct {
	StatusCode       int
	Message          string
	DocumentationURL string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github api error [%d]: %s (%s)", e.StatusCode, e.Message, e.DocumentationURL)
}

// Client implements ports.PullRequestFetcher against the GitHub REST API.
type Client struct {
	gh    *gh.Client
	token string
}

var _ ports.PullRequestFetcher = (*Client)(nil)

func NewClient(cfg config.GitHubConfig) (*Client, error) {
	httpClient := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cfg.Token,
	}))
	client := gh.NewClient(httpClient)

	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		parsed, err := url.Parse(base)
		if err != nil {
			return nil, errs.Wrap(err, "parse github base url")
		}
		client.BaseURL = parsed
	}

	return &Client{gh: client, token: cfg.Token}, nil
}

// FetchPullRequest issues two reads (PR metadata, changed-file list) and
// merges them into a normalized summary. Errors are wrapped once and
// propagated; there is no retry and no partial result.
func (c *Client) FetchPullRequest(ctx context.Context, owner string, repo string, number int) (review.PullRequestSummary, error) {
	if ctx == nil {
		return review.PullRequestSummary{}, errors.New("context is required")
	}
	if strings.TrimSpace(owner) == "" || strings.TrimSpace(repo) == "" {
		return review.PullRequestSummary{}, errors.New("owner and repo are required")
	}
	if number <= 0 {
		return review.PullRequestSummary{}, fmt.Errorf("pull request number must be positive, got %d", number)
	}
	if strings.TrimSpace(c.token) == "" {
		return review.PullRequestSummary{}, ErrMissingToken
	}

	logCtx := logging.WithAttrs(ctx,
		slog.String("component", "infra.github"),
		slog.String("repo", owner+"/"+repo),
		slog.Int("pr_number", number),
	)
	logging.Info(logCtx, "fetching pull request")

	pr, _, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return review.PullRequestSummary{}, wrapAPIError(err, "get pull request")
	}

	files, _, err := c.gh.PullRequests.ListFiles(ctx, owner, repo, number, &gh.ListOptions{
		PerPage: filesPerPage,
	})
	if err != nil {
		return review.PullRequestSummary{}, wrapAPIError(err, "list pull request files")
	}

	changed := make([]review.ChangedFile, 0, len(files))
	for _, f := range files {
		changed = append(changed, review.ChangedFile{
			Filename:  f.GetFilename(),
			Additions: f.GetAdditions(),
			Deletions: f.GetDeletions(),
		})
	}

	summary := review.PullRequestSummary{
		PullRequestDetails: review.PullRequestDetails{
			Number:           pr.GetNumber(),
			Title:            pr.GetTitle(),
			Description:      pr.GetBody(),
			URL:              pr.GetHTMLURL(),
			State:            pr.GetState(),
			Additions:        pr.GetAdditions(),
			Deletions:        pr.GetDeletions(),
			ChangedFileCount: pr.GetChangedFiles(),
			Author:           authorLogin(pr),
		},
		Files: changed,
	}

	logging.Info(logCtx, "pull request fetched",
		slog.String("title", summary.Title),
		slog.Int("changed_files", summary.ChangedFileCount),
	)
	return summary, nil
}

func authorLogin(pr *gh.PullRequest) string {
	if login := pr.GetUser().GetLogin(); login != "" {
		return login
	}
	return "unknown"
}

func wrapAPIError(err error, msg string) error {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) {
		apiErr := &APIError{
			Message:          ghErr.Message,
			DocumentationURL: ghErr.DocumentationURL,
		}
		if ghErr.Response != nil {
			apiErr.StatusCode = ghErr.Response.StatusCode
		}
		if apiErr.DocumentationURL == "" {
			apiErr.DocumentationURL = fallbackDocsURL
		}
		return errs.Wrap(apiErr, msg)
	}

	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		apiErr := &APIError{
			Message:          rateErr.Message,
			DocumentationURL: fallbackDocsURL,
		}
		if rateErr.Response != nil {
			apiErr.StatusCode = rateErr.Response.StatusCode
		}
		return errs.Wrap(apiErr, msg)
	}

	return errs.Wrap(err, msg)
}
