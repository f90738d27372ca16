package listing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service provides listing business logic on top of the repository.
type Service struct {
	repo  *Repository
	newID func() ID
}

// NewService creates a listing service.
func NewService(repo *Repository) *Service {
	return &Service{
		repo:  repo,
		newID: func() ID { return ID(uuid.NewString()) },
	}
}

// Import stores a batch of listings, replacing existing copies by id.
// Listings without an id are assigned a fresh UUID. It returns the stored
// listings with their final ids.
func (s *Service) Import(ctx context.Context, listings []Listing) ([]Listing, error) {
	out := make([]Listing, 0, len(listings))
	for i, l := range listings {
		if l.Address == "" {
			return nil, fmt.Errorf("listing %d: address is required", i)
		}
		if l.ID == "" {
			l.ID = s.newID()
		}
		if err := s.repo.Upsert(ctx, &l); err != nil {
			return nil, fmt.Errorf("importing listing %d: %w", i, err)
		}
		out = append(out, l)
	}
	return out, nil
}
