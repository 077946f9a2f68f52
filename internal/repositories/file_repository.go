package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/picstrata/backend/internal/models"
)

// fileRepository implements read-only access to the file store.  The
// file and folder tables are owned by the import pipeline; this service
// only lists candidate files for query resolution and export.
type fileRepository struct {
	db *sql.DB
}

// NewFileRepository creates a new file repository
func NewFileRepository(db *sql.DB) *fileRepository {
	return &fileRepository{
		db: db,
	}
}

const fileColumns = `
	f.library_id, f.folder_id, f.file_id, f.name, f.mime_type, f.is_video,
	f.height, f.width, f.imported_on, f.taken_on, f.modified_on, f.rating,
	f.title, f.comments, f.camera_make, f.camera_model,
	f.latitude, f.longitude, f.altitude,
	f.file_size, f.file_size_sm, f.file_size_md, f.file_size_lg,
	f.file_size_cnv, f.file_size_backup, f.is_processing,
	fo.name, fo.path
`

// ListByLibrary retrieves every file in a library with its containing
// folder's name and path, plus tags
func (r *fileRepository) ListByLibrary(ctx context.Context, libraryID string) ([]*models.File, error) {
	stmt := fmt.Sprintf(`
		SELECT %s
		FROM files f
		JOIN folders fo ON fo.folder_id = f.folder_id
		WHERE f.library_id = ?
		ORDER BY f.imported_on, f.file_id
	`, fileColumns)

	rows, err := r.db.QueryContext(ctx, stmt, libraryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	files, err := scanFiles(rows)
	if err != nil {
		return nil, err
	}

	if err := r.attachTags(ctx, libraryID, files); err != nil {
		return nil, err
	}
	return files, nil
}

// GetByIDs retrieves the given files of a library (export bundling)
func (r *fileRepository) GetByIDs(ctx context.Context, libraryID string, fileIDs []string) ([]*models.File, error) {
	if len(fileIDs) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(fileIDs))
	args := []any{libraryID}
	for i, id := range fileIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}

	stmt := fmt.Sprintf(`
		SELECT %s
		FROM files f
		JOIN folders fo ON fo.folder_id = f.folder_id
		WHERE f.library_id = ? AND f.file_id IN (%s)
	`, fileColumns, strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get files by ids: %w", err)
	}
	defer rows.Close()

	files, err := scanFiles(rows)
	if err != nil {
		return nil, err
	}

	if err := r.attachTags(ctx, libraryID, files); err != nil {
		return nil, err
	}
	return files, nil
}

// scanFiles reads file rows produced by a fileColumns select
func scanFiles(rows *sql.Rows) ([]*models.File, error) {
	var files []*models.File
	for rows.Next() {
		f := &models.File{}
		err := rows.Scan(
			&f.LibraryID, &f.FolderID, &f.FileID, &f.Name, &f.MimeType, &f.IsVideo,
			&f.Height, &f.Width, &f.ImportedOn, &f.TakenOn, &f.ModifiedOn, &f.Rating,
			&f.Title, &f.Comments, &f.CameraMake, &f.CameraModel,
			&f.Latitude, &f.Longitude, &f.Altitude,
			&f.FileSize, &f.FileSizeSm, &f.FileSizeMd, &f.FileSizeLg,
			&f.FileSizeCnv, &f.FileSizeBackup, &f.IsProcessing,
			&f.FolderName, &f.FolderPath,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		f.Tags = []string{}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate files: %w", err)
	}
	return files, nil
}

// attachTags loads the library's tags and attaches them to the files
func (r *fileRepository) attachTags(ctx context.Context, libraryID string, files []*models.File) error {
	if len(files) == 0 {
		return nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT file_id, tag FROM file_tags WHERE library_id = ? ORDER BY tag`, libraryID)
	if err != nil {
		return fmt.Errorf("failed to list file tags: %w", err)
	}
	defer rows.Close()

	tagsByFile := make(map[string][]string)
	for rows.Next() {
		var fileID, tag string
		if err := rows.Scan(&fileID, &tag); err != nil {
			return fmt.Errorf("failed to scan file tag: %w", err)
		}
		tagsByFile[fileID] = append(tagsByFile[fileID], tag)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate file tags: %w", err)
	}

	for _, f := range files {
		if tags, ok := tagsByFile[f.FileID]; ok {
			f.Tags = tags
		}
	}
	return nil
}
