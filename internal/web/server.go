// Package web provides the HTTP server and handlers for the listings UI and
// its JSON API.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/evcraddock/house-market/internal/browse"
	"github.com/evcraddock/house-market/internal/listing"
	"github.com/evcraddock/house-market/internal/logging"
	"github.com/evcraddock/house-market/internal/query"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Server is the listings web server.
type Server struct {
	source    browse.Source
	opts      browse.Options
	templates *template.Template
	mux       *http.ServeMux
}

// NewServer creates a web server reading listings from source. opts supplies
// the fallback dataset, page sizes and scroll dead zone.
func NewServer(source browse.Source, opts browse.Options) (*Server, error) {
	funcMap := template.FuncMap{
		"formatPrice": tmplFormatPrice,
		"formatFloat": tmplFormatFloat,
		"formatInt":   tmplFormatInt,
		"formatDate":  tmplFormatDate,
		"statusLabel": listing.StatusLabel,
		"statusClass": listing.StatusClass,
		"detailsURL":  detailsURL,
		"item":        func(l listing.Listing, from string) cardItem { return cardItem{Listing: l, From: from} },
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	s := &Server{
		source:    source,
		opts:      opts,
		templates: tmpl,
		mux:       http.NewServeMux(),
	}

	staticContent, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("creating static sub-fs: %w", err)
	}

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticContent))))
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /{$}", s.handleList)
	s.mux.HandleFunc("GET /property/{id}", s.handleDetail)
	s.mux.HandleFunc("GET /api/listings", s.apiListListings)
	s.mux.HandleFunc("GET /api/listings/{id}", s.apiGetListing)

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Handler returns the server wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return logging.RequestLogger(s)
}

// ListenAndServe serves on port until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting web UI", "url", fmt.Sprintf("http://localhost:%d", port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	slog.Info("web UI stopped")
	return nil
}

// controller loads the listings and applies the page state from the
// request URL. The caller must Close it.
func (s *Server) controller(r *http.Request) (*browse.Controller, error) {
	c := browse.New(s.source, s.opts)
	err := c.Load(r.Context())
	c.Apply(r.URL.Query())
	return c, err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// Template helper functions

// detailsURL is the detail page for id, carrying the listings state from.
func detailsURL(id listing.ID, from string) string {
	if from == "" {
		return browse.DetailsPath(id)
	}
	return browse.DetailsPath(id) + "?" + url.Values{"from": {from}}.Encode()
}

func tmplFormatPrice(p *int64) string {
	if p == nil {
		return "—"
	}
	return query.FormatPrice(*p)
}

func tmplFormatFloat(f *float64) string {
	if f == nil {
		return "—"
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func tmplFormatInt(i *int64) string {
	if i == nil {
		return "—"
	}
	return printer.Sprintf("%d", *i)
}

func tmplFormatDate(ts listing.Timestamp) string {
	if ts.IsZero() {
		return "—"
	}
	return ts.Format("Jan 2, 2006")
}
