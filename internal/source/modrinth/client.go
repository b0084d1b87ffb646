package modrinth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"mmm/internal/domain"
)

const defaultBaseURL = "https://api.modrinth.com/v2"

const userAgent = "mmm (minecraft mod manager)"

// Client wraps the Modrinth REST API v2. No authentication is needed for
// the read-only endpoints the manager uses.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new Modrinth API client
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
	}
}

// doRequest performs a GET and decodes the JSON response. Any transport
// or status failure comes back as an ErrUpstreamRequest wrap naming the
// endpoint, so callers can tell a failed request from an empty result.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values, result interface{}) (err error) {
	reqURL := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if params != nil {
		req.URL.RawQuery = params.Encode()
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrUpstreamRequest, path, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing response body: %w", cerr)
		}
	}()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", domain.ErrModNotFound, path)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: %s: status %d: %s", domain.ErrUpstreamRequest, path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: %s: decoding response: %v", domain.ErrUpstreamRequest, path, err)
	}
	return nil
}
