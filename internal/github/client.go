// Package github adapts the GitHub API into the assistant's document source.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gh "github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"github.com/abdullah-khaled0/voice-secretary/internal/domain"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	sourceTag = "github"
)

// ReadmeFetcher fetches project documentation by repository name.
type ReadmeFetcher interface {
	FetchReadme(ctx context.Context, repoName string) (*domain.Document, error)
}

// Client wraps the go-github client for README retrieval.
type Client struct {
	gh       *gh.Client
	username string
}

// NewClient creates a GitHub client for the given account. An empty token
// falls back to unauthenticated requests, which are rate-limited harder.
func NewClient(ctx context.Context, username, token string) *Client {
	if token == "" {
		httpClient := &http.Client{Timeout: DefaultTimeout}
		return &Client{gh: gh.NewClient(httpClient), username: username}
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout

	return &Client{gh: gh.NewClient(tc), username: username}
}

// FetchReadme fetches and decodes the README of one repository.
// Returns domain.ErrDocumentNotFound when the repository or its README is
// absent; callers log and skip rather than fail.
func (c *Client) FetchReadme(ctx context.Context, repoName string) (*domain.Document, error) {
	readme, resp, err := c.gh.Repositories.GetReadme(ctx, c.username, repoName, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, domain.ErrDocumentNotFound
		}
		var ghErr *gh.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("get readme for %s: %w", repoName, err)
	}

	content, err := readme.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decode readme for %s: %w", repoName, err)
	}

	return &domain.Document{
		Content:  content,
		Source:   sourceTag,
		RepoName: repoName,
	}, nil
}

// RawContentURL returns the absolute raw-hosting URL for a repository-relative
// media path, e.g. images referenced from a README.
func RawContentURL(username, repoName, relPath string) string {
	relPath = strings.TrimPrefix(relPath, "./")
	relPath = strings.TrimPrefix(relPath, "/")
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/main/%s", username, repoName, relPath)
}
