package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/evcraddock/house-market/internal/browse"
	"github.com/evcraddock/house-market/internal/listing"
	"github.com/evcraddock/house-market/internal/query"
	"github.com/evcraddock/house-market/internal/view"
)

var printer = message.NewPrinter(language.English)

type option struct {
	Value    string
	Label    string
	Selected bool
}

type link struct {
	Label   string
	URL     string
	Current bool
}

type listData struct {
	Filters query.Filters
	Result  query.Result
	Mode    view.Mode
	Live    bool
	// State is the encoded page state, sent back with edits and carried to
	// the detail page for its back link.
	State           string
	Hovered         string
	ControlsVisible bool
	ScrollToggle    bool
	DeadZone        float64
	Error           string
	RetryURL        string
	Chips       []link
	ClearAllURL string
	Views       []link
	Sorts       []option
	Statuses    []option
	Types       []option
	Tiers       []option
	Investments []option
	Pages       []link
	PrevURL     string
	NextURL     string
	Markers     []marker
}

type detailData struct {
	Listing *listing.Listing
	BackURL string
}

// cardItem is a listing rendered as a card or row, with the page state its
// detail link carries.
type cardItem struct {
	listing.Listing
	From string
}

// handleList renders the listings page.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	c, err := s.controller(r)
	defer c.Close()

	if r.URL.Query().Has(browse.ParamPrev) {
		http.Redirect(w, r, pageURL("/", c.Query()), http.StatusSeeOther)
		return
	}

	data := newListData(c, "/")

	if err != nil {
		slog.Error("loading listings", "err", err)
		data.Error = "Listings could not be loaded right now."
		data.RetryURL = r.URL.RequestURI()
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	s.render(w, "list.html", data)
}

// handleDetail renders the listing detail page.
func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	c := browse.New(s.source, s.opts)
	defer c.Close()

	l, err := c.Get(r.Context(), listing.ID(r.PathValue("id")))
	if errors.Is(err, listing.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("loading listing", "id", r.PathValue("id"), "err", err)
		http.Error(w, "Error loading listing", http.StatusInternalServerError)
		return
	}

	s.render(w, "detail.html", detailData{Listing: l, BackURL: backURL(r.URL.Query().Get("from"), l.ID)})
}

// backURL returns to the listings page state in from with id highlighted.
func backURL(from string, id listing.ID) string {
	values, err := url.ParseQuery(from)
	if err != nil {
		values = url.Values{}
	}
	values.Del(browse.ParamPrev)
	values.Set(browse.ParamHover, string(id))
	return pageURL("/", values)
}

func newListData(c *browse.Controller, base string) listData {
	res := c.Result()
	f := c.Filters()
	mode := c.Mode()

	state := c.Query().Encode()
	toggle := c.ScrollToggle()

	data := listData{
		Filters:         f,
		Result:          res,
		Mode:            mode,
		Live:            c.Live(),
		State:           state,
		ControlsVisible: c.ControlsVisible(),
		ScrollToggle:    toggle.Enabled(),
		DeadZone:        toggle.DeadZone(),
	}
	if id, ok := c.Hovered(res); ok {
		data.Hovered = id
	}

	for _, chip := range c.Chips() {
		remove := url.Values{browse.ParamPrev: {state}, browse.ParamRemove: {chip.Field.String()}}
		data.Chips = append(data.Chips, link{Label: chip.Label, URL: pageURL(base, remove)})
	}
	if len(data.Chips) > 0 {
		cleared := view.WithMode(url.Values{}, mode)
		if f.Search != "" {
			cleared.Set(query.ParamSearch, f.Search)
		}
		data.ClearAllURL = pageURL(base, cleared)
	}

	for _, m := range view.Modes {
		data.Views = append(data.Views, link{Label: m.Label(), URL: pageURL(base, c.ViewQuery(m)), Current: m == mode})
	}

	for _, key := range query.SortKeys {
		data.Sorts = append(data.Sorts, option{Value: string(key), Label: key.Label(), Selected: key == c.Sort()})
	}

	facets := c.Facets()
	data.Statuses = []option{{Value: query.StatusAll, Label: "Any status", Selected: !f.HasStatus()}}
	for _, st := range facets.Statuses {
		data.Statuses = append(data.Statuses, option{Value: st, Label: listing.StatusLabel(st), Selected: st == f.Status})
	}
	data.Types = facetOptions("Any type", facets.PropertyTypes, f.PropertyType)
	data.Tiers = facetOptions("Any tier", facets.Tiers, f.Tier)
	data.Investments = facetOptions("Any investment", facets.InvestmentTypes, f.InvestmentType)

	if res.TotalPages > 1 {
		for n := 1; n <= res.TotalPages; n++ {
			data.Pages = append(data.Pages, link{Label: fmt.Sprint(n), URL: pageURL(base, c.PageQuery(n)), Current: n == res.Page})
		}
		if res.Page > 1 {
			data.PrevURL = pageURL(base, c.PageQuery(res.Page-1))
		}
		if res.Page < res.TotalPages {
			data.NextURL = pageURL(base, c.PageQuery(res.Page+1))
		}
	}

	if mode == view.Map {
		data.Markers = project(res.Matched)
	}

	return data
}

func facetOptions(anyLabel string, values []string, selected string) []option {
	opts := []option{{Value: "", Label: anyLabel, Selected: selected == ""}}
	for _, v := range values {
		opts = append(opts, option{Value: v, Label: v, Selected: v == selected})
	}
	return opts
}

func pageURL(base string, values url.Values) string {
	if len(values) == 0 {
		return base
	}
	return base + "?" + values.Encode()
}

// render executes the named page template.
func (s *Server) render(w http.ResponseWriter, name string, data any) {
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("rendering template", "name", name, "err", err)
		http.Error(w, fmt.Sprintf("Error rendering template: %v", err), http.StatusInternalServerError)
	}
}
