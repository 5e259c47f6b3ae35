// Package placeholder implements source.Source over a JSON todo endpoint in
// the shape of https://jsonplaceholder.typicode.com/todos.
package placeholder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"duelist/internal/source"
	"duelist/internal/task"
)

const (
	// DefaultURL is the public sample endpoint.
	DefaultURL = "https://jsonplaceholder.typicode.com/todos"

	// Name is the source name used to namespace seeded ids.
	Name = "placeholder"

	// maxBody caps the response size read from the endpoint.
	maxBody = 1 << 20
)

// Client fetches sample todos over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for baseURL. An empty baseURL uses DefaultURL and a nil
// httpClient uses a client with a 10 second timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// Name implements source.Source.
func (c *Client) Name() string { return Name }

// todo is the wire shape of one item. Ids arrive as numbers.
type todo struct {
	ID        task.ID `json:"id"`
	Title     string  `json:"title"`
	Completed bool    `json:"completed"`
}

// Fetch implements source.Source with GET <baseURL>?_limit=n.
func (c *Client) Fetch(ctx context.Context, n int) ([]source.Item, error) {
	if n <= 0 {
		return nil, nil
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid source url: %w", err)
	}
	q := u.Query()
	q.Set("_limit", strconv.Itoa(n))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sample tasks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch sample tasks: HTTP %d", resp.StatusCode)
	}

	var todos []todo
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&todos); err != nil {
		return nil, fmt.Errorf("decode sample tasks: %w", err)
	}

	items := make([]source.Item, 0, len(todos))
	for _, t := range todos {
		items = append(items, source.Item{
			ID:        t.ID.String(),
			Title:     t.Title,
			Completed: t.Completed,
		})
	}
	return items, nil
}
