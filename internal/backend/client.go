// Package backend reads listings from the hosted REST backend, a PostgREST
// style API exposing a properties collection.
package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/evcraddock/house-market/internal/listing"
)

const defaultTimeout = 30 * time.Second

// Client fetches listings from the backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a backend client. The base URL is the REST root, e.g.
// https://example.supabase.co/rest/v1.
func NewClient(baseURL, apiKey string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("backend URL is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}, nil
}

// List returns every listing in the collection, in backend order.
func (c *Client) List(ctx context.Context) ([]listing.Listing, error) {
	listings, err := c.fetch(ctx, url.Values{"select": {"*"}})
	if err != nil {
		return nil, fmt.Errorf("fetching listings: %w", err)
	}
	return listings, nil
}

// Get returns one listing by id.
func (c *Client) Get(ctx context.Context, id listing.ID) (*listing.Listing, error) {
	listings, err := c.fetch(ctx, url.Values{
		"select": {"*"},
		"id":     {"eq." + string(id)},
	})
	if err != nil {
		return nil, fmt.Errorf("fetching listing %s: %w", id, err)
	}
	if len(listings) == 0 {
		return nil, fmt.Errorf("listing %s: %w", id, listing.ErrNotFound)
	}
	return &listings[0], nil
}

func (c *Client) fetch(ctx context.Context, params url.Values) (listings []listing.Listing, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/properties?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing body: %w", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return listing.DecodeList(raw)
}
