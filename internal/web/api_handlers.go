package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/evcraddock/house-market/internal/browse"
	"github.com/evcraddock/house-market/internal/listing"
	"github.com/evcraddock/house-market/internal/query"
	"github.com/evcraddock/house-market/internal/view"
)

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := map[string]string{"error": msg}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("encoding error response", "err", err)
	}
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding response", "err", err)
	}
}

type apiChip struct {
	Field    string `json:"field"`
	Label    string `json:"label"`
	ClearURL string `json:"clear_url"`
}

type listingsResponse struct {
	Listings   []listing.Listing `json:"listings"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
	PageSize   int               `json:"page_size"`
	View       view.Mode         `json:"view"`
	Sort       query.SortKey     `json:"sort"`
	Chips      []apiChip         `json:"chips"`
	Live       bool              `json:"live"`
	Hovered    string            `json:"hovered,omitempty"`
	Markers    []marker          `json:"markers,omitempty"`
}

// apiListListings handles GET /api/listings. It takes the same query
// parameters as the listings page.
func (s *Server) apiListListings(w http.ResponseWriter, r *http.Request) {
	c, err := s.controller(r)
	defer c.Close()
	if err != nil {
		slog.Error("loading listings", "err", err)
		apiError(w, "listings unavailable", http.StatusServiceUnavailable)
		return
	}

	apiJSON(w, newListingsResponse(c, r.URL.Path), http.StatusOK)
}

func newListingsResponse(c *browse.Controller, base string) listingsResponse {
	res := c.Result()
	resp := listingsResponse{
		Listings:   res.Visible,
		Total:      res.Total,
		Page:       res.Page,
		TotalPages: res.TotalPages,
		PageSize:   res.PageSize,
		View:       c.Mode(),
		Sort:       c.Sort(),
		Chips:      []apiChip{},
		Live:       c.Live(),
	}
	if id, ok := c.Hovered(res); ok {
		resp.Hovered = id
	}

	for _, chip := range c.Chips() {
		resp.Chips = append(resp.Chips, apiChip{
			Field:    chip.Field.String(),
			Label:    chip.Label,
			ClearURL: pageURL(base, c.ChipQuery(chip)),
		})
	}

	if resp.View == view.Map {
		resp.Markers = project(res.Matched)
	}
	return resp
}

// apiGetListing handles GET /api/listings/{id}.
func (s *Server) apiGetListing(w http.ResponseWriter, r *http.Request) {
	c := browse.New(s.source, s.opts)
	defer c.Close()

	l, err := c.Get(r.Context(), listing.ID(r.PathValue("id")))
	if errors.Is(err, listing.ErrNotFound) {
		apiError(w, "listing not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("loading listing", "id", r.PathValue("id"), "err", err)
		apiError(w, "listing unavailable", http.StatusServiceUnavailable)
		return
	}

	apiJSON(w, l, http.StatusOK)
}
