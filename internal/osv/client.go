// Package osv queries the OSV.dev vulnerability database.
package osv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"depscan/internal/models"
)

// DefaultQueryURL is the OSV.dev single-package query endpoint.
const DefaultQueryURL = "https://api.osv.dev/v1/query"

// DefaultTimeout bounds each OSV request.
const DefaultTimeout = 30 * time.Second

// Client queries OSV.dev for vulnerabilities affecting a package version.
type Client struct {
	URL        string
	httpClient *http.Client
}

// NewClient creates an OSV client with the given request timeout.
// A zero timeout falls back to DefaultTimeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		URL:        DefaultQueryURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type queryRequest struct {
	Package struct {
		Name      string `json:"name"`
		Ecosystem string `json:"ecosystem"`
	} `json:"package"`
	Version string `json:"version,omitempty"`
}

type queryResponse struct {
	Vulns []models.Vulnerability `json:"vulns"`
}

// Query asks OSV for vulnerabilities affecting dep. The version is omitted
// from the query when the dependency is unpinned, matching OSV's
// package-level query semantics.
func (c *Client) Query(ctx context.Context, dep models.Dependency) ([]models.Vulnerability, error) {
	var q queryRequest
	q.Package.Name = dep.Name
	q.Package.Ecosystem = string(dep.Ecosystem)
	q.Version = dep.VersionOr("")

	body, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query OSV for %s: %w", dep.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OSV returned status %d for %s", resp.StatusCode, dep.Name)
	}

	var out queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode OSV response for %s: %w", dep.Name, err)
	}
	return out.Vulns, nil
}
