/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package crdash

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/diwanliwe/crtournamentdashboard/internal"
)

// ErrEmptyTag indicates a lookup was attempted without a tag. Rejected
// before any request is issued.
var ErrEmptyTag = errors.New("a tournament or player tag is required")

// APIError is a non-2xx response from the dashboard backend. Detail
// carries the server-provided message when the backend included one.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("HTTP %v: %v", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("HTTP %v", e.StatusCode)
}

// Client issues requests against the tournament dashboard backend.
// Tournament state and analysis runs must always be fresh, so those
// endpoints use an uncached client; player profiles and classifications
// are stable for days and go through the shared S3-backed cache with the
// same 7 day TTL the backend itself applies to player data.
type Client struct {
	apiBase *url.URL

	httpClient     *http.Client
	httpClient7day *http.Client
}

// NewClient returns a Client for the given backend base URL. An empty
// apiBaseIn falls back to $CRDASH_API_BASE and then to the public
// deployment.
func NewClient(ctx context.Context, apiBaseIn string) (*Client, error) {
	base := apiBaseIn
	if base == "" {
		base = os.Getenv(internal.APIBaseEnvVar)
	}
	if base == "" {
		base = internal.DefaultAPIBase
	}
	apiBase, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("unable to parse api base %v: %w", base, err)
	}

	return &Client{
		apiBase:        apiBase,
		httpClient:     http.DefaultClient,
		httpClient7day: internal.NewCachedHttpClient(ctx, 7*24*time.Hour),
	}, nil
}

func (client *Client) endpointURL(path string) *url.URL {
	return client.apiBase.ResolveReference(&url.URL{Path: path})
}

// getJSON performs a GET against the backend and decodes the JSON body
// into out. Non-2xx responses decode the backend's detail message (the
// older Flask deployment spelled the field "error") into an *APIError.
func (client *Client) getJSON(ctx context.Context, hc *http.Client,
	reqURL *url.URL, out any) error {

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("unable to build request for %v (new): %w", reqURL.Path, err)
	}
	req.Header.Set("User-Agent", internal.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("unable to fetch %v (do): %w", reqURL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("unable to read %v (read): %w", reqURL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unable to decode %v (parse): %w", reqURL.Path, err)
	}

	return nil
}

func (client *Client) postJSON(ctx context.Context, hc *http.Client,
	reqURL *url.URL, out any) error {

	req, err := http.NewRequestWithContext(ctx, "POST", reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("unable to build request for %v (new): %w", reqURL.Path, err)
	}
	req.Header.Set("User-Agent", internal.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("unable to post %v (do): %w", reqURL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("unable to read %v (read): %w", reqURL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unable to decode %v (parse): %w", reqURL.Path, err)
	}

	return nil
}

func newAPIError(statusCode int, body []byte) *APIError {
	var payload struct {
		Detail string `json:"detail"`
		ErrMsg string `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)

	detail := payload.Detail
	if detail == "" {
		detail = payload.ErrMsg
	}
	return &APIError{StatusCode: statusCode, Detail: detail}
}

// CacheStats describes the backend's player cache. Serverless
// deployments report zero entries plus an explanatory message.
type CacheStats struct {
	TotalPlayers int      `json:"totalPlayers"`
	Players      []string `json:"players"`
	Message      string   `json:"message"`
}

// GetCacheStats fetches the backend's player cache statistics.
func (client *Client) GetCacheStats(ctx context.Context) (*CacheStats, error) {
	var stats CacheStats
	err := client.getJSON(ctx, client.httpClient, client.endpointURL("/api/cache/stats"), &stats)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch cache stats: %w", err)
	}
	return &stats, nil
}

// ClearCache asks the backend to drop its player cache and returns the
// backend's confirmation message.
func (client *Client) ClearCache(ctx context.Context) (string, error) {
	var payload struct {
		Message string `json:"message"`
	}
	err := client.postJSON(ctx, client.httpClient, client.endpointURL("/api/cache/clear"), &payload)
	if err != nil {
		return "", fmt.Errorf("unable to clear cache: %w", err)
	}
	return payload.Message, nil
}
