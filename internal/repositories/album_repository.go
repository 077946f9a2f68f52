package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/picstrata/backend/internal/models"
)

// mysqlDuplicateEntry is the MySQL error number for unique-key violations
const mysqlDuplicateEntry = 1062

// albumRepository implements album repository operations
type albumRepository struct {
	db *sql.DB
}

// NewAlbumRepository creates a new album repository
func NewAlbumRepository(db *sql.DB) *albumRepository {
	return &albumRepository{
		db: db,
	}
}

// Create inserts a new album.  The albums table carries a unique key on
// (library_id, name) with a case-insensitive collation, so duplicate
// names surface as ErrDuplicate.
func (r *albumRepository) Create(ctx context.Context, album *models.Album) error {
	queryJSON, err := marshalQuery(album.Query)
	if err != nil {
		return err
	}

	stmt := `
		INSERT INTO albums (library_id, album_id, name, query)
		VALUES (?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, stmt,
		album.LibraryID,
		album.AlbumID,
		album.Name,
		queryJSON,
	)
	if isDuplicateEntry(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create album: %w", err)
	}

	return nil
}

// GetByID retrieves an album by ID
func (r *albumRepository) GetByID(ctx context.Context, libraryID, albumID string) (*models.Album, error) {
	stmt := `
		SELECT name, query
		FROM albums
		WHERE library_id = ? AND album_id = ?
		LIMIT 1
	`

	album := &models.Album{LibraryID: libraryID, AlbumID: albumID}
	var queryJSON sql.NullString
	err := r.db.QueryRowContext(ctx, stmt, libraryID, albumID).Scan(
		&album.Name,
		&queryJSON,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get album by id: %w", err)
	}

	album.Query, err = unmarshalQuery(queryJSON)
	if err != nil {
		return nil, err
	}
	return album, nil
}

// ListByLibrary retrieves all albums in a library ordered by name
func (r *albumRepository) ListByLibrary(ctx context.Context, libraryID string) ([]models.Album, error) {
	stmt := `
		SELECT album_id, name, query
		FROM albums
		WHERE library_id = ?
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, stmt, libraryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	defer rows.Close()

	var albums []models.Album
	for rows.Next() {
		album := models.Album{LibraryID: libraryID}
		var queryJSON sql.NullString
		if err := rows.Scan(&album.AlbumID, &album.Name, &queryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan album: %w", err)
		}
		album.Query, err = unmarshalQuery(queryJSON)
		if err != nil {
			return nil, err
		}
		albums = append(albums, album)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate albums: %w", err)
	}

	return albums, nil
}

// Update replaces the album's name and query
func (r *albumRepository) Update(ctx context.Context, album *models.Album) error {
	queryJSON, err := marshalQuery(album.Query)
	if err != nil {
		return err
	}

	stmt := `
		UPDATE albums
		SET name = ?, query = ?
		WHERE library_id = ? AND album_id = ?
	`

	_, err = r.db.ExecContext(ctx, stmt,
		album.Name,
		queryJSON,
		album.LibraryID,
		album.AlbumID,
	)
	if isDuplicateEntry(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to update album: %w", err)
	}

	return nil
}

// Delete removes the album definition and its static membership rows.
// The underlying files are untouched.
func (r *albumRepository) Delete(ctx context.Context, libraryID, albumID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM album_files WHERE album_id = ?`, albumID); err != nil {
		return fmt.Errorf("failed to delete album files: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM albums WHERE library_id = ? AND album_id = ?`, libraryID, albumID)
	if err != nil {
		return fmt.Errorf("failed to delete album: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit album delete: %w", err)
	}
	return nil
}

// GetFileIDs returns a static album's explicit membership in the order
// the store maintains it
func (r *albumRepository) GetFileIDs(ctx context.Context, albumID string) ([]string, error) {
	stmt := `
		SELECT file_id
		FROM album_files
		WHERE album_id = ?
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, stmt, albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to get album files: %w", err)
	}
	defer rows.Close()

	fileIDs := make([]string, 0)
	for rows.Next() {
		var fileID string
		if err := rows.Scan(&fileID); err != nil {
			return nil, fmt.Errorf("failed to scan album file: %w", err)
		}
		fileIDs = append(fileIDs, fileID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate album files: %w", err)
	}

	return fileIDs, nil
}

// marshalQuery serializes an optional file query for storage
func marshalQuery(q *models.FileQuery) (sql.NullString, error) {
	if q == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(q)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to marshal query: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// unmarshalQuery deserializes a stored file query
func unmarshalQuery(s sql.NullString) (*models.FileQuery, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var q models.FileQuery
	if err := json.Unmarshal([]byte(s.String), &q); err != nil {
		return nil, fmt.Errorf("failed to unmarshal query: %w", err)
	}
	return &q, nil
}

// isDuplicateEntry reports whether the error is a MySQL unique-key violation
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
