package web

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"testing"

	"github.com/evcraddock/house-market/internal/listing"
)

type apiResponse struct {
	Listings   []listing.Listing `json:"listings"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
	PageSize   int               `json:"page_size"`
	View       string            `json:"view"`
	Sort       string            `json:"sort"`
	Chips      []apiChip         `json:"chips"`
	Live       bool              `json:"live"`
	Hovered    string            `json:"hovered"`
	Markers    []struct {
		ID  string  `json:"id"`
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"markers"`
}

func decode(t *testing.T, body []byte) apiResponse {
	t.Helper()
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v\n%s", err, body)
	}
	return resp
}

func TestAPIListListings(t *testing.T) {
	w := get(t, testServer(t), "/api/listings?q=Main&beds=2&status=for+sale")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decode(t, w.Body.Bytes())

	var ids []listing.ID
	for _, l := range resp.Listings {
		ids = append(ids, l.ID)
	}
	want := []listing.ID{"p12", "p7", "p5", "p2", "p17", "p1"}
	if !slices.Equal(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
	if resp.Total != 9 || resp.Page != 1 || resp.TotalPages != 2 || resp.PageSize != 6 {
		t.Errorf("paging = %+v", resp)
	}
	if resp.View != "grid" || resp.Sort != "newest" || !resp.Live {
		t.Errorf("view=%q sort=%q live=%v", resp.View, resp.Sort, resp.Live)
	}
	if len(resp.Markers) != 0 {
		t.Error("markers returned outside map mode")
	}

	if len(resp.Chips) != 2 {
		t.Fatalf("chips = %+v", resp.Chips)
	}
	beds := resp.Chips[0]
	if beds.Field != "beds" || beds.Label != "2+ beds" {
		t.Errorf("beds chip = %+v", beds)
	}
	if !strings.HasPrefix(beds.ClearURL, "/api/listings?") || strings.Contains(beds.ClearURL, "beds=") {
		t.Errorf("clear url = %q", beds.ClearURL)
	}
}

func TestAPIListListingsEditKeepsPreviousOnTypo(t *testing.T) {
	srv := testServer(t)
	want := decode(t, get(t, srv, "/api/listings?min_price=300000").Body.Bytes())

	tests := []struct {
		name   string
		target string
		total  int
		chips  int
	}{
		{"typo keeps previous", "/api/listings?prev=min_price%3D300000&min_price=3OOOOO", want.Total, 1},
		{"typo without previous", "/api/listings?prev=&min_price=3OOOOO", 20, 0},
		{"valid edit replaces", "/api/listings?prev=min_price%3D300000&min_price=", 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := decode(t, get(t, srv, tt.target).Body.Bytes())
			if resp.Total != tt.total || len(resp.Chips) != tt.chips {
				t.Errorf("total = %d chips = %d, want %d and %d", resp.Total, len(resp.Chips), tt.total, tt.chips)
			}
		})
	}
}

func TestAPIListListingsHovered(t *testing.T) {
	srv := testServer(t)

	if resp := decode(t, get(t, srv, "/api/listings?hover=p15").Body.Bytes()); resp.Hovered != "p15" {
		t.Errorf("hovered = %q, want p15", resp.Hovered)
	}
	if resp := decode(t, get(t, srv, "/api/listings?hover=p15&status=pending").Body.Bytes()); resp.Hovered != "" {
		t.Errorf("hovered = %q outside the result", resp.Hovered)
	}
}

func TestAPIListListingsMapMode(t *testing.T) {
	w := get(t, testServer(t), "/api/listings?view=map&q=Main&beds=2&status=for+sale")

	resp := decode(t, w.Body.Bytes())
	if resp.PageSize != 12 || len(resp.Listings) != 9 {
		t.Errorf("page size = %d listings = %d", resp.PageSize, len(resp.Listings))
	}
	if len(resp.Markers) != 9 {
		t.Errorf("markers = %d, want one per matched listing", len(resp.Markers))
	}
}

func TestAPIListListingsEmpty(t *testing.T) {
	w := get(t, testServer(t), "/api/listings?q=nowhere")

	if !strings.Contains(w.Body.String(), `"listings":[]`) || !strings.Contains(w.Body.String(), `"chips":[]`) {
		t.Errorf("empty result should encode arrays: %s", w.Body.String())
	}
	resp := decode(t, w.Body.Bytes())
	if resp.Total != 0 || resp.TotalPages != 1 || resp.Page != 1 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestAPIListListingsFallback(t *testing.T) {
	srv, err := NewServer(downSource{}, testOptions())
	if err != nil {
		t.Fatal(err)
	}

	resp := decode(t, get(t, srv, "/api/listings").Body.Bytes())
	if resp.Live || resp.Total != 20 {
		t.Errorf("live = %v total = %d", resp.Live, resp.Total)
	}
}

func TestAPIListListingsUnavailable(t *testing.T) {
	opts := testOptions()
	opts.Fallback = nil
	srv, err := NewServer(downSource{}, opts)
	if err != nil {
		t.Fatal(err)
	}

	w := get(t, srv, "/api/listings")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"error"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestAPIGetListing(t *testing.T) {
	w := get(t, testServer(t), "/api/listings/p4")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var l listing.Listing
	if err := json.Unmarshal(w.Body.Bytes(), &l); err != nil {
		t.Fatal(err)
	}
	if l.ID != "p4" || l.Status != listing.StatusPending {
		t.Errorf("listing = %+v", l)
	}
}

func TestAPIGetListingNotFound(t *testing.T) {
	w := get(t, testServer(t), "/api/listings/p404")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestAPIMethodNotAllowed(t *testing.T) {
	srv := testServer(t)
	r, w := newRequest(http.MethodPost, "/api/listings")
	srv.ServeHTTP(w, r)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}
