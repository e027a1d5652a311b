// Package referencedata is an HTTP client for the reference-data service,
// which owns facilities, programs, orderables, users, and processing
// periods.
package referencedata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openlmis/fulfillment/internal/domains/orders/ports"
)

var _ ports.ReferenceDataClient = (*Client)(nil)

// Client resolves reference entities by id. Lookups that hit a 404 return
// (nil, nil) so callers can decide how to treat absence.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("reference-data base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}, nil
}

func get[T any](ctx context.Context, c *Client, path string, id uuid.UUID) (*T, error) {
	url := fmt.Sprintf("%s/api/%s/%s", c.baseURL, path, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build reference-data request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call reference-data service: %w", err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, fmt.Errorf("reference-data service returned %s for %s", resp.Status, path)
	}
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}
	return &out, nil
}

func (c *Client) FindFacility(ctx context.Context, id uuid.UUID) (*ports.Facility, error) {
	return get[ports.Facility](ctx, c, "facilities", id)
}

func (c *Client) FindProgram(ctx context.Context, id uuid.UUID) (*ports.Program, error) {
	return get[ports.Program](ctx, c, "programs", id)
}

func (c *Client) FindOrderable(ctx context.Context, id uuid.UUID) (*ports.Orderable, error) {
	return get[ports.Orderable](ctx, c, "orderables", id)
}

func (c *Client) FindUser(ctx context.Context, id uuid.UUID) (*ports.User, error) {
	return get[ports.User](ctx, c, "users", id)
}

func (c *Client) FindPeriod(ctx context.Context, id uuid.UUID) (*ports.ProcessingPeriod, error) {
	return get[ports.ProcessingPeriod](ctx, c, "processingPeriods", id)
}
