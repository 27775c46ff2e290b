package sqlite

import (
	"context"
	"strings"

	"github.com/spinlist/spinlist-server/internal/domain"
	"github.com/spinlist/spinlist-server/internal/store"
)

// AddFavourite links a user to a DJ.
// Returns store.ErrAlreadyExists if the pair is already linked.
func (s *Store) AddFavourite(ctx context.Context, fav *domain.Favourite) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO favourites (id, user_id, dj_id, created_at)
		VALUES (?, ?, ?, ?)`,
		fav.ID,
		fav.UserID,
		fav.DjID,
		formatTime(fav.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// RemoveFavourite unlinks a user from a DJ.
// Returns store.ErrNotFound if the pair is not linked.
func (s *Store) RemoveFavourite(ctx context.Context, userID, djID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM favourites WHERE user_id = ? AND dj_id = ?`, userID, djID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListFavouriteDjs returns the DJ rows a user has favourited, in the
// order the favourites were added.
func (s *Store) ListFavouriteDjs(ctx context.Context, userID string) ([]*domain.Dj, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+djPrefixedColumns+`
		FROM favourites f JOIN djs d ON d.id = f.dj_id
		WHERE f.user_id = ? ORDER BY f.rowid ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var djs []*domain.Dj
	for rows.Next() {
		d, err := scanDj(rows)
		if err != nil {
			return nil, err
		}
		djs = append(djs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return djs, nil
}

// djPrefixedColumns mirrors djColumns with a table alias for joins.
const djPrefixedColumns = `d.id, d.created_at, d.updated_at, d.name, d.name_lower,
	d.produces, d.city, d.city_lower, d.picture_path, d.blur_hash`
