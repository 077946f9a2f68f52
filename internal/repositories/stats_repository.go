package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/picstrata/backend/internal/models"
)

// statsRepository implements service-wide statistics queries
type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new statistics repository
func NewStatsRepository(db *sql.DB) *statsRepository {
	return &statsRepository{
		db: db,
	}
}

// GetStatistics returns record counts for the service as a whole.
// Queue length is the number of export jobs still in the queued state.
func (r *statsRepository) GetStatistics(ctx context.Context) (*models.Statistics, error) {
	stmt := `
		SELECT
			(SELECT COUNT(*) FROM libraries),
			(SELECT COUNT(*) FROM folders),
			(SELECT COUNT(*) FROM files),
			(SELECT COUNT(*) FROM albums),
			(SELECT COUNT(*) FROM object_users),
			(SELECT COUNT(*) FROM export_jobs WHERE status = 'queued')
	`

	stats := &models.Statistics{}
	err := r.db.QueryRowContext(ctx, stmt).Scan(
		&stats.LibraryCount,
		&stats.FolderCount,
		&stats.FileCount,
		&stats.AlbumCount,
		&stats.ObjectUserCount,
		&stats.QueueLength,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get statistics: %w", err)
	}

	return stats, nil
}
