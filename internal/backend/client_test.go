package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/evcraddock/house-market/internal/listing"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid url", "https://example.test/rest/v1", false},
		{"trailing slash", "https://example.test/rest/v1/", false},
		{"empty url", "", true},
		{"relative url", "not a url", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.url, "key")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.baseURL != "https://example.test/rest/v1" {
				t.Errorf("base url = %q", c.baseURL)
			}
		})
	}
}

func TestList(t *testing.T) {
	var gotPath, gotSelect, gotKey, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSelect = r.URL.Query().Get("select")
		gotKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 1, "address": "100 Main St", "city": "Springfield", "price": 325000, "status": "for sale", "created_at": "2024-03-01T10:00:00Z"},
			{"id": "b2", "address": "5 Oak Ave", "price": null, "status": "pending", "created_at": "garbage"}
		]`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "secret")
	if err != nil {
		t.Fatal(err)
	}

	listings, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if gotPath != "/properties" || gotSelect != "*" {
		t.Errorf("request = %s select=%s", gotPath, gotSelect)
	}
	if gotKey != "secret" || gotAuth != "Bearer secret" {
		t.Errorf("headers apikey=%q auth=%q", gotKey, gotAuth)
	}

	if len(listings) != 2 {
		t.Fatalf("got %d listings, want 2", len(listings))
	}
	if listings[0].ID != "1" || listings[0].Price == nil || *listings[0].Price != 325000 {
		t.Errorf("first listing = %+v", listings[0])
	}
	if listings[1].Price != nil || !listings[1].CreatedAt.IsZero() {
		t.Errorf("second listing should have no price and a zero timestamp: %+v", listings[1])
	}
}

func TestListErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"message":"boom"}`},
		{"unauthorized", http.StatusUnauthorized, `{}`},
		{"invalid json", http.StatusOK, `not json`},
		{"object instead of array", http.StatusOK, `{"id": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c, err := NewClient(srv.URL, "")
			if err != nil {
				t.Fatal(err)
			}
			if _, err := c.List(context.Background()); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestListUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c, err := NewClient(addr, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.List(context.Background()); err == nil {
		t.Error("expected error for closed server")
	}
}

func TestListHonorsContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := NewClient(srv.URL, "")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := c.List(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("id") {
		case "eq.p7":
			_, _ = w.Write([]byte(`[{"id": "p7", "address": "7 Elm St", "status": "sold"}]`))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "")
	if err != nil {
		t.Fatal(err)
	}

	l, err := c.Get(context.Background(), "p7")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if l.Address != "7 Elm St" || l.Status != listing.StatusSold {
		t.Errorf("listing = %+v", l)
	}

	if _, err := c.Get(context.Background(), "missing"); !errors.Is(err, listing.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
