// Package googletasks implements source.Source using the Google Tasks API.
// Sample items are read from the user's default task list.
package googletasks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"duelist/internal/config"
	"duelist/internal/source"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// Name is the source name used to namespace seeded ids.
	Name = "googletasks"

	// MaxPageSize is the largest page the API returns.
	MaxPageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the read-only OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks.readonly"

	statusCompleted = "completed"
)

// Client implements source.Source using Google Tasks API.
type Client struct {
	svc    *tasks.Service
	listID string
}

// OAuthConfig reads oauth_client.json from the config dir.
func OAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", config.OAuthClientFile, err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.OAuthClientFile, err)
	}
	return oauthConfig, nil
}

// LoadToken reads the stored token. A token without a refresh token is
// rejected since it cannot outlive its first hour.
func LoadToken(cfg *config.Config) (*oauth2.Token, error) {
	data, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", config.TokenFile, err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.TokenFile, err)
	}
	if token.RefreshToken == "" {
		return nil, fmt.Errorf("invalid %s: no refresh token", config.TokenFile)
	}
	return &token, nil
}

// TokenUsable reports whether the stored token can mint an access token,
// refreshing it if needed.
func TokenUsable(ctx context.Context, cfg *config.Config) bool {
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return false
	}
	token, err := LoadToken(cfg)
	if err != nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, err = oauthConfig.TokenSource(ctx, token).Token()
	return err == nil
}

// New creates a client from the credentials saved by login.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	token, err := LoadToken(cfg)
	if err != nil {
		return nil, err
	}

	// Token source refreshes on demand
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, token))

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}

	return &Client{svc: svc, listID: DefaultListID}, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client and endpoint
// (for testing). An empty endpoint uses the public API.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint string) (*Client, error) {
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc, listID: DefaultListID}, nil
}

// Name implements source.Source.
func (c *Client) Name() string { return Name }

// Fetch returns the first n tasks of the default list, completed and hidden
// tasks included, in API order.
func (c *Client) Fetch(ctx context.Context, n int) ([]source.Item, error) {
	if n <= 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	pageSize := n
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	var items []source.Item
	call := c.svc.Tasks.List(c.listID).
		MaxResults(int64(pageSize)).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Context(ctx)

	var pageToken string
	for len(items) < n {
		resp, err := call.PageToken(pageToken).Do()
		if err != nil {
			return nil, wrapError(err)
		}
		for _, t := range resp.Items {
			if len(items) == n {
				break
			}
			items = append(items, source.Item{
				ID:        t.Id,
				Title:     t.Title,
				Completed: t.Status == statusCompleted,
			})
		}
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	return items, nil
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	if strings.Contains(errStr, "context deadline exceeded") {
		return fmt.Errorf("request timed out")
	}

	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") {
		return fmt.Errorf("token expired or revoked (run: duelist login)")
	}

	if strings.Contains(errStr, "404") {
		return fmt.Errorf("task list not found")
	}

	return err
}
