package authsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// GetLiveness checks if the service is alive.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// GetReadiness checks if the service can serve sign-ins. A degraded service
// answers 503; the report is still returned, together with an error.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *SDKClient) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var health HealthResponse
	if jerr := json.Unmarshal(body, &health); jerr != nil || health.Status == "" {
		if perr := parseErrorResponse(resp, body); perr != nil {
			return nil, perr
		}
		return nil, fmt.Errorf("failed to decode health response: %w", jerr)
	}

	if resp.StatusCode != http.StatusOK {
		return &health, fmt.Errorf("%s: status %s (HTTP %d)", path, health.Status, resp.StatusCode)
	}
	return &health, nil
}
