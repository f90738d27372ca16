// Package sample bundles the static listing collection shown when the live
// backend cannot be reached.
package sample

import (
	_ "embed"
	"fmt"

	"github.com/evcraddock/house-market/internal/listing"
)

//go:embed listings.json
var listingsJSON []byte

// Listings decodes a fresh copy of the bundled listings.
func Listings() ([]listing.Listing, error) {
	out, err := listing.DecodeList(listingsJSON)
	if err != nil {
		return nil, fmt.Errorf("loading sample listings: %w", err)
	}
	return out, nil
}

// Get returns the bundled listing with the given id.
func Get(id listing.ID) (*listing.Listing, error) {
	all, err := Listings()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("sample listing %s: %w", id, listing.ErrNotFound)
}
