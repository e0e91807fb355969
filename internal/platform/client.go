package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/brandpulse/brandpulse/pkg/config"
)

// apiClient is the shared HTTP client under every adapter. It handles base
// URL joining, bearer auth, JSON decoding and upstream error mapping.
type apiClient struct {
	platform Platform
	baseURL  string
	token    string
	http     *http.Client
	logger   *zap.Logger
}

func newAPIClient(p Platform, cfg config.PlatformConfig, logger *zap.Logger) *apiClient {
	return &apiClient{
		platform: p,
		baseURL:  cfg.BaseURL,
		token:    cfg.AccessToken,
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// getJSON performs a GET against path with query params and decodes the
// JSON response into out.
func (c *apiClient) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s API request failed: %w", c.platform, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", c.platform, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w on %s", ErrProfileNotFound, c.platform)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, c.platform)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		c.logger.Warn("Upstream API error",
			zap.String("platform", string(c.platform)),
			zap.Int("status", resp.StatusCode))
		return &UpstreamError{
			Platform:   c.platform,
			StatusCode: resp.StatusCode,
			Body:       truncate(string(body), 256),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s response: %w", c.platform, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
