package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/creachadair/taskgroup"

	"github.com/obsidianstack/computedemo/pkg/types"
)

// maxBody bounds how much of a compute reply is read.
const maxBody = 4 << 10

// Client talks to one computedemo server.
type Client struct {
	base *url.URL
	http *http.Client
}

// New returns a Client for the server at baseURL. A zero timeout means no
// client-side limit; large sizes can take a long time.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client: parse base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("client: base url %q must be http or https", baseURL)
	}
	return &Client{base: u, http: &http.Client{Timeout: timeout}}, nil
}

// HTTPClient returns the underlying HTTP client.
func (c *Client) HTTPClient() *http.Client { return c.http }

// URL resolves path against the server's base URL.
func (c *Client) URL(path string) string {
	return c.base.JoinPath(path).String()
}

// Compute requests one aggregation. A negative size omits the parameter so
// the server applies its default.
func (c *Client) Compute(ctx context.Context, size int) (types.Result, error) {
	u := c.base.JoinPath("compute")
	if size >= 0 {
		u.RawQuery = url.Values{"size": {strconv.Itoa(size)}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return types.Result{}, fmt.Errorf("client: build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return types.Result{}, fmt.Errorf("client: compute: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.Result{}, fmt.Errorf("client: compute: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return types.Result{}, fmt.Errorf("client: read reply: %w", err)
	}
	return types.ParseResult(string(body))
}

// Sweep runs Compute for every size with at most concurrency requests in
// flight. Results are returned in the order of sizes. The first failure is
// reported after all started requests finish.
func (c *Client) Sweep(ctx context.Context, sizes []int, concurrency int) ([]types.Result, error) {
	results := make([]types.Result, len(sizes))

	g, start := taskgroup.New(nil).Limit(max(1, concurrency))
	for i, size := range sizes {
		start(func() error {
			r, err := c.Compute(ctx, size)
			if err != nil {
				return fmt.Errorf("size %d: %w", size, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
