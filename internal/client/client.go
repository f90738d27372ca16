// Package client provides an HTTP client for the house-market listings API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/evcraddock/house-market/internal/listing"
	"github.com/evcraddock/house-market/internal/query"
	"github.com/evcraddock/house-market/internal/view"
)

// Client is an HTTP client for the listings API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SearchOptions is one listing search.
type SearchOptions struct {
	Filters query.Filters
	Sort    query.SortKey
	Page    int
	View    view.Mode
}

// Values encodes the options as listing query parameters.
func (o SearchOptions) Values() url.Values {
	values := url.Values{}
	query.EncodeFilters(o.Filters, values)
	if o.Sort != "" {
		values.Set(query.ParamSort, string(o.Sort))
	}
	if o.Page > 1 {
		values.Set(query.ParamPage, strconv.Itoa(o.Page))
	}
	if o.View != "" {
		values.Set(view.Param, string(o.View))
	}
	return values
}

// Chip is an active filter as reported by the server.
type Chip struct {
	Field    string `json:"field"`
	Label    string `json:"label"`
	ClearURL string `json:"clear_url"`
}

// Marker is a map pin for one located listing.
type Marker struct {
	ID        listing.ID `json:"id"`
	Latitude  float64    `json:"lat"`
	Longitude float64    `json:"lng"`
	Label     string     `json:"label"`
}

// SearchResponse is the response from GET /api/listings.
type SearchResponse struct {
	Listings   []listing.Listing `json:"listings"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
	PageSize   int               `json:"page_size"`
	View       string            `json:"view"`
	Sort       string            `json:"sort"`
	Chips      []Chip            `json:"chips"`
	Live       bool              `json:"live"`
	Hovered    string            `json:"hovered,omitempty"`
	Markers    []Marker          `json:"markers,omitempty"`
}

// Search runs a listing search on the server.
func (c *Client) Search(ctx context.Context, opts SearchOptions) (*SearchResponse, error) {
	path := "/api/listings"
	if values := opts.Values(); len(values) > 0 {
		path += "?" + values.Encode()
	}

	var resp SearchResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Get returns one listing. Unknown ids return an error wrapping
// listing.ErrNotFound.
func (c *Client) Get(ctx context.Context, id listing.ID) (*listing.Listing, error) {
	var l listing.Listing
	if err := c.get(ctx, "/api/listings/"+url.PathEscape(string(id)), &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.get(ctx, "/health", &resp); err != nil {
		return err
	}
	if resp.Status != "ok" {
		return fmt.Errorf("server status %q", resp.Status)
	}
	return nil
}

// get performs a GET request and decodes the response.
func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, result)
}

// do executes an HTTP request and turns error bodies into errors.
func (c *Client) do(req *http.Request, result any) (err error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing response body: %w", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		msg := http.StatusText(resp.StatusCode)
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%s: %w", msg, listing.ErrNotFound)
		}
		return fmt.Errorf("server error: %s", msg)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
