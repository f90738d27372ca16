package listing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Repository provides storage for listings in SQLite.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a listing repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = `id, title, description, address, city, state, zip_code, property_type, tier, investment_type,
	price, bedrooms, bathrooms, sqft, status, latitude, longitude, image_url, created_at`

const upsertSQL = `INSERT INTO listings
	(id, title, description, address, city, state, zip_code, property_type, tier, investment_type,
	 price, bedrooms, bathrooms, sqft, status, latitude, longitude, image_url, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		title = excluded.title,
		description = excluded.description,
		address = excluded.address,
		city = excluded.city,
		state = excluded.state,
		zip_code = excluded.zip_code,
		property_type = excluded.property_type,
		tier = excluded.tier,
		investment_type = excluded.investment_type,
		price = excluded.price,
		bedrooms = excluded.bedrooms,
		bathrooms = excluded.bathrooms,
		sqft = excluded.sqft,
		status = excluded.status,
		latitude = excluded.latitude,
		longitude = excluded.longitude,
		image_url = excluded.image_url,
		created_at = excluded.created_at,
		updated_at = CURRENT_TIMESTAMP`

// scanListing scans a listing from a database row.
func scanListing(row interface{ Scan(...any) error }) (*Listing, error) {
	var l Listing
	var id string
	var price, bedrooms, sqft sql.NullInt64
	var bathrooms, lat, lng sql.NullFloat64
	var createdAt sql.NullString

	err := row.Scan(
		&id, &l.Title, &l.Description, &l.Address, &l.City, &l.State, &l.Zip,
		&l.PropertyType, &l.Tier, &l.InvestmentType,
		&price, &bedrooms, &bathrooms, &sqft, &l.Status,
		&lat, &lng, &l.ImageURL, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	l.ID = ID(id)
	if price.Valid {
		l.Price = &price.Int64
	}
	if bedrooms.Valid {
		l.Bedrooms = &bedrooms.Int64
	}
	if bathrooms.Valid {
		l.Bathrooms = &bathrooms.Float64
	}
	if sqft.Valid {
		l.Sqft = &sqft.Int64
	}
	if lat.Valid {
		l.Latitude = &lat.Float64
	}
	if lng.Valid {
		l.Longitude = &lng.Float64
	}
	if createdAt.Valid {
		l.CreatedAt = ParseTimestamp(createdAt.String)
	}

	return &l, nil
}

// Upsert inserts a listing or replaces the stored copy with the same id.
func (r *Repository) Upsert(ctx context.Context, l *Listing) error {
	if l.ID == "" {
		return fmt.Errorf("listing id is required")
	}

	_, err := r.db.ExecContext(ctx, upsertSQL,
		string(l.ID), l.Title, l.Description, l.Address, l.City, l.State, l.Zip,
		l.PropertyType, l.Tier, l.InvestmentType,
		l.Price, l.Bedrooms, l.Bathrooms, l.Sqft, l.Status,
		l.Latitude, l.Longitude, l.ImageURL, nullableTimestamp(l.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting listing %s: %w", l.ID, err)
	}
	return nil
}

// Get returns a listing by id.
func (r *Repository) Get(ctx context.Context, id ID) (*Listing, error) {
	query := fmt.Sprintf("SELECT %s FROM listings WHERE id = ?", selectColumns)
	row := r.db.QueryRowContext(ctx, query, string(id))

	l, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("listing %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying listing %s: %w", id, err)
	}

	return l, nil
}

// List returns every stored listing in insertion order. Ordering for
// display is the query pipeline's job, not the store's.
func (r *Repository) List(ctx context.Context) (listings []Listing, err error) {
	query := fmt.Sprintf("SELECT %s FROM listings ORDER BY rowid", selectColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing listings: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning listing: %w", err)
		}
		listings = append(listings, *l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating listings: %w", err)
	}

	return listings, nil
}

// Count returns the number of stored listings.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM listings").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting listings: %w", err)
	}
	return n, nil
}

// Delete removes a listing by id.
func (r *Repository) Delete(ctx context.Context, id ID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM listings WHERE id = ?", string(id))
	if err != nil {
		return fmt.Errorf("deleting listing: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("listing %s: %w", id, ErrNotFound)
	}

	return nil
}

func nullableTimestamp(ts Timestamp) sql.NullString {
	if ts.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: ts.String(), Valid: true}
}
