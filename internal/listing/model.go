// Package listing provides the property listing domain model and data access.
package listing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
)

// ErrNotFound is returned when a listing id does not exist.
var ErrNotFound = errors.New("listing not found")

// Known listing statuses. The status set is open: any other string is
// accepted and displayed with a fallback label.
const (
	StatusForSale   = "for sale"
	StatusPending   = "pending"
	StatusSold      = "sold"
	StatusOffMarket = "off market"
)

var statusLabels = map[string]string{
	StatusForSale:   "For Sale",
	StatusPending:   "Pending",
	StatusSold:      "Sold",
	StatusOffMarket: "Off Market",
}

// StatusLabel returns a human-readable label for a listing status.
func StatusLabel(status string) string {
	if status == "" {
		return "Unknown"
	}
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// StatusClass returns the CSS class used to badge a status.
func StatusClass(status string) string {
	if _, ok := statusLabels[status]; ok {
		return "status-" + strings.ReplaceAll(status, " ", "-")
	}
	return "status-other"
}

// ID identifies a listing. Backends send either strings or integers.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("listing id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is a creation time that tolerates missing or malformed input.
// Anything that does not parse becomes the zero time, which sorts as the
// earliest possible date.
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses s with the accepted layouts, returning the zero
// Timestamp when nothing matches.
func ParseTimestamp(s string) Timestamp {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t.UTC()}
		}
	}
	return Timestamp{}
}

// UnmarshalJSON never fails on bad dates; it records them as zero.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*ts = Timestamp{}
		return nil
	}
	*ts = ParseTimestamp(s)
	return nil
}

// MarshalJSON writes null for the zero time.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Format(time.RFC3339))
}

// String formats the timestamp for storage. Zero becomes "".
func (ts Timestamp) String() string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format(time.RFC3339)
}

// Listing is one property for sale (or formerly for sale).
type Listing struct {
	ID             ID        `json:"id"`
	Title          string    `json:"title,omitempty"`
	Description    string    `json:"description,omitempty"`
	Address        string    `json:"address"`
	City           string    `json:"city"`
	State          string    `json:"state"`
	Zip            string    `json:"zip_code"`
	PropertyType   string    `json:"property_type,omitempty"`
	Tier           string    `json:"tier,omitempty"`
	InvestmentType string    `json:"investment_type,omitempty"`
	Price          *int64    `json:"price,omitempty"`
	Bedrooms       *int64    `json:"bedrooms,omitempty"`
	Bathrooms      *float64  `json:"bathrooms,omitempty"`
	Sqft           *int64    `json:"square_feet,omitempty"`
	Status         string    `json:"status"`
	Latitude       *float64  `json:"latitude,omitempty"`
	Longitude      *float64  `json:"longitude,omitempty"`
	ImageURL       string    `json:"image_url,omitempty"`
	CreatedAt      Timestamp `json:"created_at"`
}

// HasLocation reports whether the listing can be placed on a map.
func (l *Listing) HasLocation() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// StatusLabel returns the display label for the listing's status.
func (l *Listing) StatusLabel() string {
	return StatusLabel(l.Status)
}

// FullAddress joins street, city, state and zip.
func (l *Listing) FullAddress() string {
	var parts []string
	for _, p := range []string{l.Address, l.City, strings.TrimSpace(l.State + " " + l.Zip)} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// UnmarshalJSON accepts whole-valued decimals such as 325000.00 for the
// integer fields.
func (l *Listing) UnmarshalJSON(data []byte) error {
	type plain Listing
	var raw struct {
		plain
		Price    *json.Number `json:"price"`
		Bedrooms *json.Number `json:"bedrooms"`
		Sqft     *json.Number `json:"square_feet"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*l = Listing(raw.plain)
	var err error
	if l.Price, err = wholeNumber("price", raw.Price); err != nil {
		return err
	}
	if l.Bedrooms, err = wholeNumber("bedrooms", raw.Bedrooms); err != nil {
		return err
	}
	if l.Sqft, err = wholeNumber("square_feet", raw.Sqft); err != nil {
		return err
	}
	return nil
}

func wholeNumber(field string, n *json.Number) (*int64, error) {
	if n == nil {
		return nil, nil
	}
	if v, err := n.Int64(); err == nil {
		return &v, nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		return nil, fmt.Errorf("%s %s is not a whole number", field, n.String())
	}
	v := int64(f)
	return &v, nil
}

// DecodeList decodes a JSON array of listings. A record that cannot be
// decoded is logged and skipped; only a malformed array is an error.
func DecodeList(data []byte) ([]Listing, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding listings: %w", err)
	}

	out := make([]Listing, 0, len(records))
	for i, rec := range records {
		var l Listing
		if err := json.Unmarshal(rec, &l); err != nil {
			slog.Warn("skipping listing", "index", i, "error", err)
			continue
		}
		out = append(out, l)
	}
	return out, nil
}
