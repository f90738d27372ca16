// Package browse composes the listing query pipeline with the view state
// into the controller behind the listings page.
package browse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"sync"

	"github.com/evcraddock/house-market/internal/listing"
	"github.com/evcraddock/house-market/internal/query"
	"github.com/evcraddock/house-market/internal/view"
)

// ErrClosed is returned by Load once the controller has been closed.
var ErrClosed = errors.New("controller closed")

// Source provides listings to the controller.
type Source interface {
	List(ctx context.Context) ([]listing.Listing, error)
	Get(ctx context.Context, id listing.ID) (*listing.Listing, error)
}

// Fallback returns the bundled dataset used when the source is unreachable.
type Fallback func() ([]listing.Listing, error)

// State is the load state of the listing collection.
type State int

const (
	Loading State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "loading"
	}
}

// Request parameters beyond the query state itself.
const (
	// ParamPrev carries the encoded state a form or link was rendered
	// from, marking the request as an edit of that state.
	ParamPrev = "prev"
	// ParamRemove names a filter field to clear.
	ParamRemove = "remove"
	// ParamHover is a listing id to highlight.
	ParamHover = "hover"
)

// Options configures a Controller.
type Options struct {
	Fallback  Fallback
	PageSizes view.PageSizes
	// DeadZone is the scroll jitter ignored by the controls toggle. Zero
	// means view.DefaultDeadZone.
	DeadZone       float64
	NoScrollToggle bool
}

// Controller owns the filter, sort, page and view state for one listings
// page along with the loaded collection. Every state slice is replaced as a
// whole value under the lock.
type Controller struct {
	source   Source
	fallback Fallback
	sizes    view.PageSizes

	mode   *view.Machine
	hover  *view.Hover
	scroll *view.ScrollToggle

	mu       sync.RWMutex
	state    State
	err      error
	live     bool
	closed   bool
	gen      uint64
	listings []listing.Listing
	filters  query.Filters
	sort     query.SortKey
	page     int
}

// New creates a controller reading from source.
func New(source Source, opts Options) *Controller {
	sizes := opts.PageSizes
	if sizes == (view.PageSizes{}) {
		sizes = view.DefaultPageSizes()
	}
	deadZone := opts.DeadZone
	if deadZone == 0 {
		deadZone = view.DefaultDeadZone
	}
	c := &Controller{
		source:   source,
		fallback: opts.Fallback,
		sizes:    sizes,
		mode:     view.NewMachine(view.Default),
		hover:    &view.Hover{},
		scroll:   view.NewScrollToggle(deadZone),
		sort:     query.SortNewest,
		page:     1,
	}
	if opts.NoScrollToggle {
		c.DisableScrollToggle()
	}
	return c
}

// Load fetches the listing collection. When the source fails the fallback
// dataset is used instead and Live reports false. Load may be called again
// after a failure. A result arriving after Close or after a newer Load
// started is discarded. Cancelling ctx fails the load with ctx.Err().
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.gen++
	gen := c.gen
	c.state = Loading
	c.err = nil
	c.mu.Unlock()

	listings, live, err := c.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.gen {
		slog.Debug("discarding stale listings fetch", "closed", c.closed)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrClosed
	}
	if ctx.Err() != nil {
		c.state = Failed
		c.err = ctx.Err()
		return c.err
	}

	if err != nil {
		c.state = Failed
		c.err = err
		return err
	}

	c.state = Ready
	c.live = live
	c.listings = listings
	c.hover.Reset()
	return nil
}

func (c *Controller) fetch(ctx context.Context) ([]listing.Listing, bool, error) {
	listings, err := c.source.List(ctx)
	if err == nil {
		return listings, true, nil
	}
	if ctx.Err() != nil {
		return nil, false, ctx.Err()
	}

	if c.fallback == nil {
		return nil, false, fmt.Errorf("loading listings: %w", err)
	}

	slog.Warn("live listings unavailable, using sample data", "err", err)
	listings, fbErr := c.fallback()
	if fbErr != nil {
		return nil, false, fmt.Errorf("loading sample listings: %w", errors.Join(err, fbErr))
	}
	return listings, false, nil
}

// Close discards any outstanding or future load.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// State returns the load state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Err returns the error from the last failed load.
func (c *Controller) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Live reports whether the loaded listings came from the source rather
// than the fallback dataset.
func (c *Controller) Live() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.live
}

// Filters returns the current filters.
func (c *Controller) Filters() query.Filters {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filters
}

// Sort returns the current sort key.
func (c *Controller) Sort() query.SortKey {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sort
}

// Page returns the requested page number.
func (c *Controller) Page() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.page
}

// Hover returns the hover slot shared by every rendering of this page.
func (c *Controller) Hover() *view.Hover {
	return c.hover
}

// Mode returns the active view mode.
func (c *Controller) Mode() view.Mode {
	return c.mode.Current()
}

// SetFilters replaces the filters and returns to the first page.
func (c *Controller) SetFilters(f query.Filters) {
	c.mu.Lock()
	c.filters = f
	c.page = 1
	c.mu.Unlock()
	c.hover.Reset()
}

// UpdateFilters applies filter parameters from a form submission on top of
// the current filters.
func (c *Controller) UpdateFilters(values url.Values) {
	c.SetFilters(query.ParseFilters(values, c.Filters()))
}

// RemoveChip clears one filter field.
func (c *Controller) RemoveChip(field query.Field) {
	c.SetFilters(c.Filters().Without(field))
}

// SetSort changes the ordering and returns to the first page.
func (c *Controller) SetSort(key query.SortKey) {
	c.mu.Lock()
	c.sort = query.ParseSortKey(string(key))
	c.page = 1
	c.mu.Unlock()
}

// SetPage moves to page n, clamped into the current page range.
func (c *Controller) SetPage(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	matched := len(query.Filter(c.listings, c.filters))
	c.page = query.ClampPage(n, query.TotalPages(matched, c.sizes.For(c.mode.Current())))
}

// SetView switches the view mode. Filters, sort and page are untouched.
func (c *Controller) SetView(m view.Mode) bool {
	return c.mode.Switch(m)
}

// ScrollToggle returns the toggle deciding whether the secondary view
// controls are shown. The browser feeds it scroll offsets; the server only
// renders its initial state and settings.
func (c *Controller) ScrollToggle() *view.ScrollToggle {
	return c.scroll
}

// ControlsVisible reports the current control visibility.
func (c *Controller) ControlsVisible() bool {
	return c.scroll.Visible()
}

// DisableScrollToggle keeps the controls visible regardless of scrolling.
func (c *Controller) DisableScrollToggle() {
	c.scroll.Disable()
}

// PageSize returns the page size of the active mode.
func (c *Controller) PageSize() int {
	return c.sizes.For(c.mode.Current())
}

// Result runs the query pipeline over the loaded listings.
func (c *Controller) Result() query.Result {
	size := c.PageSize()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return query.Compute(c.listings, query.Request{
		Filters:  c.filters,
		Sort:     c.sort,
		Page:     c.page,
		PageSize: size,
	})
}

// Hovered returns the hovered listing id if it is part of res. In map mode
// every matched listing is on screen, otherwise only the visible page.
func (c *Controller) Hovered(res query.Result) (string, bool) {
	shown := res.Visible
	if c.Mode() == view.Map {
		shown = res.Matched
	}
	return c.hover.CurrentIn(func(id string) bool {
		for i := range shown {
			if string(shown[i].ID) == id {
				return true
			}
		}
		return false
	})
}

// Facets returns the filter choices present in the loaded listings.
func (c *Controller) Facets() query.Facets {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return query.CollectFacets(c.listings)
}

// Chips describes the active filters.
func (c *Controller) Chips() []query.Chip {
	return query.Describe(c.Filters())
}

// Restore replaces the whole page state with the one encoded in values.
func (c *Controller) Restore(values url.Values) {
	c.mu.Lock()
	c.filters = query.ParseFilters(values, query.Filters{})
	c.sort = query.ParseSortKey(values.Get(query.ParamSort))
	c.page = query.ParsePage(values.Get(query.ParamPage))
	c.mu.Unlock()
	c.mode.Switch(view.FromQuery(values))
	c.hover.Reset()
}

// Apply sets the page state from request parameters. A request carrying
// ParamPrev is an edit of that earlier state: submitted filters are applied
// on top of it, so a mistyped number keeps its previous value, then a
// removed chip, a new sort, view or page. Any other request is a complete
// state and is restored as is. ParamHover is honored either way.
func (c *Controller) Apply(values url.Values) {
	prev, ok := values[ParamPrev]
	if !ok {
		c.Restore(values)
		c.applyHover(values)
		return
	}

	var base url.Values
	if len(prev) > 0 {
		base, _ = url.ParseQuery(prev[0])
	}
	c.Restore(base)

	if query.HasFilterParams(values) {
		c.UpdateFilters(values)
	}
	if field, ok := query.ParseField(values.Get(ParamRemove)); ok {
		c.RemoveChip(field)
	}
	if v, ok := values[query.ParamSort]; ok && len(v) > 0 {
		if key := query.ParseSortKey(v[0]); key != c.Sort() {
			c.SetSort(key)
		}
	}
	if m, ok := view.ParseMode(values.Get(view.Param)); ok {
		c.SetView(m)
	}
	if v, ok := values[query.ParamPage]; ok && len(v) > 0 {
		c.SetPage(query.ParsePage(v[0]))
	}
	c.applyHover(values)
}

func (c *Controller) applyHover(values url.Values) {
	if id := values.Get(ParamHover); id != "" {
		c.hover.Set(id)
	}
}

// Query encodes the page state as URL parameters.
func (c *Controller) Query() url.Values {
	c.mu.RLock()
	f, sort, page := c.filters, c.sort, c.page
	c.mu.RUnlock()
	return encode(f, sort, page, c.mode.Current())
}

// ChipQuery is the page state with chip's field cleared, on page 1.
func (c *Controller) ChipQuery(chip query.Chip) url.Values {
	return encode(chip.Clear(), c.Sort(), 1, c.Mode())
}

// PageQuery is the page state moved to page n.
func (c *Controller) PageQuery(n int) url.Values {
	return encode(c.Filters(), c.Sort(), n, c.Mode())
}

// ViewQuery is the page state with only the view mode changed.
func (c *Controller) ViewQuery(m view.Mode) url.Values {
	return view.WithMode(c.Query(), m)
}

func encode(f query.Filters, sort query.SortKey, page int, m view.Mode) url.Values {
	values := url.Values{}
	query.EncodeFilters(f, values)
	if sort != query.SortNewest {
		values.Set(query.ParamSort, string(sort))
	}
	if page > 1 {
		values.Set(query.ParamPage, strconv.Itoa(page))
	}
	values.Set(view.Param, string(m))
	return values
}

// Get returns one listing. When the source cannot provide it, or the page is
// running on the fallback dataset, the fallback is searched too.
func (c *Controller) Get(ctx context.Context, id listing.ID) (*listing.Listing, error) {
	l, err := c.source.Get(ctx, id)
	if err == nil {
		return l, nil
	}
	if errors.Is(err, listing.ErrNotFound) && c.Live() {
		return nil, err
	}

	if fb, fbErr := c.fromFallback(id); fbErr == nil {
		return fb, nil
	}
	return nil, fmt.Errorf("getting listing %s: %w", id, err)
}

func (c *Controller) fromFallback(id listing.ID) (*listing.Listing, error) {
	if c.fallback == nil {
		return nil, listing.ErrNotFound
	}
	listings, err := c.fallback()
	if err != nil {
		return nil, err
	}
	for i := range listings {
		if listings[i].ID == id {
			return &listings[i], nil
		}
	}
	return nil, listing.ErrNotFound
}

// DetailsPath is the detail page path for id.
func DetailsPath(id listing.ID) string {
	return "/property/" + url.PathEscape(string(id))
}
