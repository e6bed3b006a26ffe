package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// UserAgent is sent on every outbound fetch. Several target sites refuse
// requests without a browser-looking agent.
const UserAgent = "Mozilla/5.0"

// DefaultTimeout bounds any outbound call that does not carry its own
// deadline. No external fetch may block indefinitely.
const DefaultTimeout = 15 * time.Second

// Client wraps the standard http.Client with the fixed user agent and a
// mandatory timeout. All methods honor context cancellation.
type Client struct {
	httpClient *http.Client
}

// New creates a Client. A zero timeout selects DefaultTimeout.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Do executes an HTTP request after stamping the fixed user agent.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", UserAgent)
	}
	return c.httpClient.Do(req)
}

// Get fetches a URL and returns the response body. Non-2xx statuses are
// returned as errors so callers never have to inspect the response.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// DownloadToTemp streams a URL into a temporary file and returns its path.
// The caller owns the file and must remove it on every exit path.
func (c *Client) DownloadToTemp(ctx context.Context, url, pattern string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
