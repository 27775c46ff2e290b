package sqlite

import (
	"context"

	"github.com/spinlist/spinlist-server/internal/domain"
)

// ListVenues returns all venues ordered by name.
func (s *Store) ListVenues(ctx context.Context) ([]*domain.Venue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, updated_at, venuename
		FROM venues ORDER BY venuename ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var venues []*domain.Venue
	for rows.Next() {
		var v domain.Venue
		var createdAt, updatedAt string
		if err := rows.Scan(&v.ID, &createdAt, &updatedAt, &v.Venuename); err != nil {
			return nil, err
		}
		if v.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if v.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		venues = append(venues, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return venues, nil
}
