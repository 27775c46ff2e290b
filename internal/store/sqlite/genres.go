package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/spinlist/spinlist-server/internal/domain"
	"github.com/spinlist/spinlist-server/internal/store"
)

// genreColumns is the ordered list of columns selected in genre queries.
// Must match the scan order in scanGenre.
const genreColumns = `id, created_at, updated_at, title`

// scanGenre scans a sql.Row (or sql.Rows via its Scan method) into a domain.Genre.
func scanGenre(scanner interface{ Scan(dest ...any) error }) (*domain.Genre, error) {
	var g domain.Genre

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&g.ID,
		&createdAt,
		&updatedAt,
		&g.Title,
	)
	if err != nil {
		return nil, err
	}

	g.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	g.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &g, nil
}

// ListGenres returns all genres ordered by title.
func (s *Store) ListGenres(ctx context.Context) ([]*domain.Genre, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+genreColumns+` FROM genres ORDER BY title ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var genres []*domain.Genre
	for rows.Next() {
		g, err := scanGenre(rows)
		if err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return genres, nil
}

// GetGenreByTitle retrieves a genre by title, case-insensitively.
// Returns store.ErrNotFound if the genre does not exist.
func (s *Store) GetGenreByTitle(ctx context.Context, title string) (*domain.Genre, error) {
	lower := strings.ToLower(strings.TrimSpace(title))
	row := s.db.QueryRowContext(ctx,
		`SELECT `+genreColumns+` FROM genres WHERE title_lower = ?`, lower)

	g, err := scanGenre(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ListSubgenres returns the subgenres of a genre ordered by subtitle.
func (s *Store) ListSubgenres(ctx context.Context, genreID string) ([]*domain.Subgenre, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, updated_at, subtitle, genre_id
		FROM subgenres WHERE genre_id = ? ORDER BY subtitle ASC`, genreID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subgenres []*domain.Subgenre
	for rows.Next() {
		var sg domain.Subgenre
		var createdAt, updatedAt string
		if err := rows.Scan(&sg.ID, &createdAt, &updatedAt, &sg.Subtitle, &sg.GenreID); err != nil {
			return nil, err
		}
		if sg.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if sg.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		subgenres = append(subgenres, &sg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return subgenres, nil
}
