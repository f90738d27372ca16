// Package view holds the presentation state that sits beside the listing
// query: which of the three view modes is active, whether the secondary
// controls are showing, and which listing is hovered.
package view

import (
	"net/url"
	"sync"
)

// Mode is a listing rendering strategy.
type Mode string

const (
	Grid Mode = "grid"
	List Mode = "list"
	Map  Mode = "map"
)

// Default is the mode used when none (or an unknown one) is requested.
const Default = Grid

// Param is the query parameter carrying the mode.
const Param = "view"

// Modes lists every mode in toggle order.
var Modes = []Mode{Grid, List, Map}

// ParseMode returns the mode named by s.
func ParseMode(s string) (Mode, bool) {
	switch m := Mode(s); m {
	case Grid, List, Map:
		return m, true
	}
	return "", false
}

// Label returns the toggle button text for m.
func (m Mode) Label() string {
	switch m {
	case List:
		return "List"
	case Map:
		return "Map"
	default:
		return "Grid"
	}
}

// FromQuery reads the mode from the view parameter, falling back to Default
// for missing or invalid values.
func FromQuery(values url.Values) Mode {
	if m, ok := ParseMode(values.Get(Param)); ok {
		return m
	}
	return Default
}

// WithMode returns a copy of values with only the view parameter replaced.
func WithMode(values url.Values, m Mode) url.Values {
	out := make(url.Values, len(values)+1)
	for k, v := range values {
		out[k] = append([]string(nil), v...)
	}
	out.Set(Param, string(m))
	return out
}

// PageSizes is the page size for each mode. Map mode usually shows more
// markers than the grid shows cards.
type PageSizes struct {
	Grid int
	List int
	Map  int
}

// DefaultPageSizes returns the stock sizes: 6 for grid and list, 12 for map.
func DefaultPageSizes() PageSizes {
	return PageSizes{Grid: 6, List: 6, Map: 12}
}

// For returns the page size for m, never less than 1.
func (p PageSizes) For(m Mode) int {
	var n int
	switch m {
	case List:
		n = p.List
	case Map:
		n = p.Map
	default:
		n = p.Grid
	}
	return max(n, 1)
}

// Machine tracks the active mode. Any mode may follow any other.
type Machine struct {
	mu      sync.RWMutex
	current Mode
}

// NewMachine returns a machine starting in initial, or Default if initial is
// not a valid mode.
func NewMachine(initial Mode) *Machine {
	if _, ok := ParseMode(string(initial)); !ok {
		initial = Default
	}
	return &Machine{current: initial}
}

// Current returns the active mode.
func (m *Machine) Current() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Switch makes next the active mode. Invalid modes are ignored and reported
// as false.
func (m *Machine) Switch(next Mode) bool {
	if _, ok := ParseMode(string(next)); !ok {
		return false
	}
	m.mu.Lock()
	m.current = next
	m.mu.Unlock()
	return true
}
