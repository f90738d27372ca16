package web

import "github.com/evcraddock/house-market/internal/listing"

// marker is a map pin. X and Y place it on the map panel as percentages of
// its width and height.
type marker struct {
	ID        listing.ID `json:"id"`
	Latitude  float64    `json:"lat"`
	Longitude float64    `json:"lng"`
	Label     string     `json:"label"`
	Price     *int64     `json:"price,omitempty"`
	X         float64    `json:"-"`
	Y         float64    `json:"-"`
}

const mapInset = 5.0

// project builds markers for every located listing, scaling the bounding box
// of their coordinates onto the map panel. Listings without coordinates are
// left off the map.
func project(listings []listing.Listing) []marker {
	var markers []marker
	for i := range listings {
		l := &listings[i]
		if !l.HasLocation() {
			continue
		}
		markers = append(markers, marker{
			ID:        l.ID,
			Latitude:  *l.Latitude,
			Longitude: *l.Longitude,
			Label:     l.Address,
			Price:     l.Price,
		})
	}
	if len(markers) == 0 {
		return markers
	}

	minLat, maxLat := markers[0].Latitude, markers[0].Latitude
	minLng, maxLng := markers[0].Longitude, markers[0].Longitude
	for _, m := range markers[1:] {
		minLat, maxLat = min(minLat, m.Latitude), max(maxLat, m.Latitude)
		minLng, maxLng = min(minLng, m.Longitude), max(maxLng, m.Longitude)
	}

	for i := range markers {
		markers[i].X = scale(markers[i].Longitude, minLng, maxLng)
		// Latitude grows northward, screen Y grows downward.
		markers[i].Y = 100 - scale(markers[i].Latitude, minLat, maxLat)
	}
	return markers
}

func scale(v, lo, hi float64) float64 {
	if hi == lo {
		return 50
	}
	return mapInset + (v-lo)/(hi-lo)*(100-2*mapInset)
}
