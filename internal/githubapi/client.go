package githubapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

// newGitHubClient returns a go-github client. With an empty token the client
// is unauthenticated (public repositories only, lower rate limits).
func newGitHubClient(token string) *github.Client {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient.Transport = &oauth2.Transport{
			Source: ts,
			Base:   http.DefaultTransport,
		}
	}
	return github.NewClient(httpClient)
}

// APIError wraps a GitHub API failure, preserving the HTTP status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

func newAPIError(status int) *APIError {
	switch status {
	case http.StatusNotFound:
		return &APIError{StatusCode: status, Message: "repository not found"}
	case http.StatusForbidden:
		return &APIError{StatusCode: status, Message: "API rate limit exceeded or access denied"}
	default:
		return &APIError{StatusCode: status, Message: fmt.Sprintf("GitHub API error: %d", status)}
	}
}

// wrapAPIError converts go-github error responses into APIError, keeping
// transport-level errors untouched.
func wrapAPIError(err error) error {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return newAPIError(ghErr.Response.StatusCode)
	}
	return err
}
