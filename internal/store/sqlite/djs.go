package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/spinlist/spinlist-server/internal/domain"
	"github.com/spinlist/spinlist-server/internal/id"
	"github.com/spinlist/spinlist-server/internal/store"
)

// djColumns is the ordered list of columns selected in DJ queries.
// Must match the scan order in scanDj.
const djColumns = `id, created_at, updated_at, name, name_lower, produces,
	city, city_lower, picture_path, blur_hash`

// scanDj scans a sql.Row (or sql.Rows via its Scan method) into a domain.Dj.
func scanDj(scanner interface{ Scan(dest ...any) error }) (*domain.Dj, error) {
	var d domain.Dj

	var (
		createdAt   string
		updatedAt   string
		nameLower   string
		produces    int
		cityLower   string
		picturePath sql.NullString
		blurHash    sql.NullString
	)

	err := scanner.Scan(
		&d.ID,
		&createdAt,
		&updatedAt,
		&d.Name,
		&nameLower,
		&produces,
		&d.City,
		&cityLower,
		&picturePath,
		&blurHash,
	)
	if err != nil {
		return nil, err
	}

	d.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	d.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	d.Produces = produces != 0

	if picturePath.Valid {
		d.PicturePath = picturePath.String
	}
	if blurHash.Valid {
		d.BlurHash = blurHash.String
	}

	return &d, nil
}

// resolver finds or creates genre, subgenre, and venue rows inside a
// transaction. Results are memoized per batch so resolving the same
// canonical name twice yields the identical row.
type resolver struct {
	tx        *sql.Tx
	genres    map[string]string // title_lower -> genre id
	subgenres map[string]string // title_lower + "\x00" + genre id -> subgenre id
	venues    map[string]string // venuename_lower -> venue id
}

func newResolver(tx *sql.Tx) *resolver {
	return &resolver{
		tx:        tx,
		genres:    make(map[string]string),
		subgenres: make(map[string]string),
		venues:    make(map[string]string),
	}
}

// isUniqueViolation reports whether err is a SQLite unique constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// genre returns the ID of the genre with the given canonical title,
// inserting the row if it does not exist. A unique violation on insert
// means a concurrent writer won the race, so the lookup is retried.
func (r *resolver) genre(ctx context.Context, title string) (string, error) {
	lower := strings.ToLower(title)
	if gid, ok := r.genres[lower]; ok {
		return gid, nil
	}

	var gid string
	err := r.tx.QueryRowContext(ctx,
		`SELECT id FROM genres WHERE title_lower = ?`, lower).Scan(&gid)
	if err == sql.ErrNoRows {
		gid, err = r.insertGenre(ctx, title, lower)
	}
	if err != nil {
		return "", fmt.Errorf("resolve genre %q: %w", title, err)
	}

	r.genres[lower] = gid
	return gid, nil
}

// insertGenre writes a new genre row. A unique violation means another
// writer created the row between lookup and insert, so the lookup runs
// again and returns the winner's ID.
func (r *resolver) insertGenre(ctx context.Context, title, lower string) (string, error) {
	gid := id.MustGenerate("genre")
	now := formatTime(time.Now())
	_, err := r.tx.ExecContext(ctx, `
		INSERT INTO genres (id, created_at, updated_at, title, title_lower)
		VALUES (?, ?, ?, ?, ?)`,
		gid, now, now, title, lower)
	if isUniqueViolation(err) {
		err = r.tx.QueryRowContext(ctx,
			`SELECT id FROM genres WHERE title_lower = ?`, lower).Scan(&gid)
	}
	if err != nil {
		return "", err
	}
	return gid, nil
}

// subgenre returns the ID of the subgenre with the given canonical
// subtitle under genreID, inserting the row if it does not exist.
func (r *resolver) subgenre(ctx context.Context, subtitle, genreID string) (string, error) {
	lower := strings.ToLower(subtitle)
	key := lower + "\x00" + genreID
	if sid, ok := r.subgenres[key]; ok {
		return sid, nil
	}

	var sid string
	err := r.tx.QueryRowContext(ctx,
		`SELECT id FROM subgenres WHERE subtitle_lower = ? AND genre_id = ?`,
		lower, genreID).Scan(&sid)
	if err == sql.ErrNoRows {
		sid, err = r.insertSubgenre(ctx, subtitle, lower, genreID)
	}
	if err != nil {
		return "", fmt.Errorf("resolve subgenre %q: %w", subtitle, err)
	}

	r.subgenres[key] = sid
	return sid, nil
}

// insertSubgenre writes a new subgenre row, falling back to a fresh
// lookup when a concurrent writer got there first.
func (r *resolver) insertSubgenre(ctx context.Context, subtitle, lower, genreID string) (string, error) {
	sid := id.MustGenerate("subgenre")
	now := formatTime(time.Now())
	_, err := r.tx.ExecContext(ctx, `
		INSERT INTO subgenres (id, created_at, updated_at, subtitle, subtitle_lower, genre_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sid, now, now, subtitle, lower, genreID)
	if isUniqueViolation(err) {
		err = r.tx.QueryRowContext(ctx,
			`SELECT id FROM subgenres WHERE subtitle_lower = ? AND genre_id = ?`,
			lower, genreID).Scan(&sid)
	}
	if err != nil {
		return "", err
	}
	return sid, nil
}

// venue returns the ID of the venue with the given canonical name,
// inserting the row if it does not exist.
func (r *resolver) venue(ctx context.Context, venuename string) (string, error) {
	lower := strings.ToLower(venuename)
	if vid, ok := r.venues[lower]; ok {
		return vid, nil
	}

	var vid string
	err := r.tx.QueryRowContext(ctx,
		`SELECT id FROM venues WHERE venuename_lower = ?`, lower).Scan(&vid)
	if err == sql.ErrNoRows {
		vid, err = r.insertVenue(ctx, venuename, lower)
	}
	if err != nil {
		return "", fmt.Errorf("resolve venue %q: %w", venuename, err)
	}

	r.venues[lower] = vid
	return vid, nil
}

// insertVenue writes a new venue row, falling back to a fresh lookup
// when a concurrent writer got there first.
func (r *resolver) insertVenue(ctx context.Context, venuename, lower string) (string, error) {
	vid := id.MustGenerate("venue")
	now := formatTime(time.Now())
	_, err := r.tx.ExecContext(ctx, `
		INSERT INTO venues (id, created_at, updated_at, venuename, venuename_lower)
		VALUES (?, ?, ?, ?, ?)`,
		vid, now, now, venuename, lower)
	if isUniqueViolation(err) {
		err = r.tx.QueryRowContext(ctx,
			`SELECT id FROM venues WHERE venuename_lower = ?`, lower).Scan(&vid)
	}
	if err != nil {
		return "", err
	}
	return vid, nil
}

// linkAssociations resolves and links an aggregate's genre, subgenre, and
// venue lists to a DJ row inside the transaction. Join rows are inserted
// in list order; duplicate canonical names collapse onto one row via the
// resolver and the UNIQUE join constraint.
func linkAssociations(ctx context.Context, tx *sql.Tx, djID string, agg *store.DjAggregate) error {
	r := newResolver(tx)

	for _, title := range agg.Genres {
		gid, err := r.genre(ctx, title)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO dj_genres (dj_id, genre_id) VALUES (?, ?)`,
			djID, gid)
		if err != nil {
			return fmt.Errorf("insert dj_genres: %w", err)
		}

		for _, subtitle := range agg.Subgenres[title] {
			sid, err := r.subgenre(ctx, subtitle, gid)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, `
				INSERT OR IGNORE INTO dj_subgenres (dj_id, subgenre_id) VALUES (?, ?)`,
				djID, sid)
			if err != nil {
				return fmt.Errorf("insert dj_subgenres: %w", err)
			}
		}
	}

	for _, venuename := range agg.Venues {
		vid, err := r.venue(ctx, venuename)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO dj_venues (dj_id, venue_id) VALUES (?, ?)`,
			djID, vid)
		if err != nil {
			return fmt.Errorf("insert dj_venues: %w", err)
		}
	}

	return nil
}

// CreateDjAggregate inserts a DJ row and its associations in one
// transaction. Returns store.ErrAlreadyExists when a DJ with the same
// name and city (case-insensitive) already exists; in that case no rows
// are written.
func (s *Store) CreateDjAggregate(ctx context.Context, agg *store.DjAggregate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	d := agg.Dj
	_, err = tx.ExecContext(ctx, `
		INSERT INTO djs (
			id, created_at, updated_at, name, name_lower, produces,
			city, city_lower, picture_path, blur_hash
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID,
		formatTime(d.CreatedAt),
		formatTime(d.UpdatedAt),
		d.Name,
		strings.ToLower(d.Name),
		boolToInt(d.Produces),
		d.City,
		strings.ToLower(d.City),
		nullString(d.PicturePath),
		nullString(d.BlurHash),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage("dj with this name and city already exists").WithCause(err)
		}
		return fmt.Errorf("insert dj: %w", err)
	}

	if err := linkAssociations(ctx, tx, d.ID, agg); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateDjAggregate updates a DJ row and replaces all of its association
// lists in one transaction. Returns store.ErrNotFound if the DJ does not
// exist and store.ErrAlreadyExists if the new name and city collide with
// another DJ.
func (s *Store) UpdateDjAggregate(ctx context.Context, agg *store.DjAggregate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	d := agg.Dj
	res, err := tx.ExecContext(ctx, `
		UPDATE djs SET
			updated_at = ?, name = ?, name_lower = ?, produces = ?,
			city = ?, city_lower = ?
		WHERE id = ?`,
		formatTime(d.UpdatedAt),
		d.Name,
		strings.ToLower(d.Name),
		boolToInt(d.Produces),
		d.City,
		strings.ToLower(d.City),
		d.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage("dj with this name and city already exists").WithCause(err)
		}
		return fmt.Errorf("update dj: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	// Replace, not merge: clear all association rows, then relink.
	for _, table := range []string{"dj_genres", "dj_subgenres", "dj_venues"} {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM `+table+` WHERE dj_id = ?`, d.ID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := linkAssociations(ctx, tx, d.ID, agg); err != nil {
		return err
	}

	return tx.Commit()
}

// GetDj retrieves a DJ row by ID.
// Returns store.ErrNotFound if the DJ does not exist.
func (s *Store) GetDj(ctx context.Context, id string) (*domain.Dj, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+djColumns+` FROM djs WHERE id = ?`, id)

	d, err := scanDj(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// ListDjs returns DJ rows ordered by name. When search is non-empty the
// result is filtered to names containing it, case-insensitively.
func (s *Store) ListDjs(ctx context.Context, search string) ([]*domain.Dj, error) {
	query := `SELECT ` + djColumns + ` FROM djs`
	var args []any
	if search != "" {
		query += ` WHERE name_lower LIKE '%' || ? || '%'`
		args = append(args, strings.ToLower(search))
	}
	query += ` ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
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

// GetDjAssociations loads a DJ's genres, subgenres (with parent genre
// titles), and venues, each in join-row insertion order.
func (s *Store) GetDjAssociations(ctx context.Context, djID string) (*domain.DjAssociations, error) {
	assoc := &domain.DjAssociations{}

	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.created_at, g.updated_at, g.title
		FROM dj_genres dg JOIN genres g ON g.id = dg.genre_id
		WHERE dg.dj_id = ? ORDER BY dg.id ASC`, djID)
	if err != nil {
		return nil, fmt.Errorf("query dj_genres: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var g domain.Genre
		var createdAt, updatedAt string
		if err := rows.Scan(&g.ID, &createdAt, &updatedAt, &g.Title); err != nil {
			return nil, err
		}
		if g.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if g.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		assoc.Genres = append(assoc.Genres, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	subRows, err := s.db.QueryContext(ctx, `
		SELECT sg.id, sg.created_at, sg.updated_at, sg.subtitle, sg.genre_id, g.title
		FROM dj_subgenres ds
		JOIN subgenres sg ON sg.id = ds.subgenre_id
		JOIN genres g ON g.id = sg.genre_id
		WHERE ds.dj_id = ? ORDER BY ds.id ASC`, djID)
	if err != nil {
		return nil, fmt.Errorf("query dj_subgenres: %w", err)
	}
	defer subRows.Close()
	for subRows.Next() {
		var sg domain.SubgenreWithGenre
		var createdAt, updatedAt string
		if err := subRows.Scan(&sg.ID, &createdAt, &updatedAt, &sg.Subtitle, &sg.GenreID, &sg.GenreTitle); err != nil {
			return nil, err
		}
		if sg.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if sg.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		assoc.Subgenres = append(assoc.Subgenres, sg)
	}
	if err := subRows.Err(); err != nil {
		return nil, err
	}

	venueRows, err := s.db.QueryContext(ctx, `
		SELECT v.id, v.created_at, v.updated_at, v.venuename
		FROM dj_venues dv JOIN venues v ON v.id = dv.venue_id
		WHERE dv.dj_id = ? ORDER BY dv.id ASC`, djID)
	if err != nil {
		return nil, fmt.Errorf("query dj_venues: %w", err)
	}
	defer venueRows.Close()
	for venueRows.Next() {
		var v domain.Venue
		var createdAt, updatedAt string
		if err := venueRows.Scan(&v.ID, &createdAt, &updatedAt, &v.Venuename); err != nil {
			return nil, err
		}
		if v.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if v.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		assoc.Venues = append(assoc.Venues, v)
	}
	if err := venueRows.Err(); err != nil {
		return nil, err
	}

	return assoc, nil
}

// SetDjPicture updates a DJ's profile image path and blurhash.
// Returns store.ErrNotFound if the DJ does not exist.
func (s *Store) SetDjPicture(ctx context.Context, djID, picturePath, blurHash string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE djs SET updated_at = ?, picture_path = ?, blur_hash = ?
		WHERE id = ?`,
		formatTime(time.Now()),
		nullString(picturePath),
		nullString(blurHash),
		djID,
	)
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

// DeleteDj removes a DJ row. Join rows and favourites cascade.
// Returns store.ErrNotFound if the DJ does not exist.
func (s *Store) DeleteDj(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM djs WHERE id = ?`, id)
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

// DeleteAllDjs removes every DJ row. Join rows and favourites cascade.
// Genre, subgenre, and venue rows are left in place. Returns the number
// of DJs deleted. Maintenance operation used by the seeder.
func (s *Store) DeleteAllDjs(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM djs`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountDjs returns the total number of DJ rows.
func (s *Store) CountDjs(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM djs`).Scan(&n)
	return n, err
}
