package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/picstrata/backend/internal/models"
)

// jobRepository implements export job repository operations
type jobRepository struct {
	db *sql.DB
}

// NewJobRepository creates a new export job repository
func NewJobRepository(db *sql.DB) *jobRepository {
	return &jobRepository{
		db: db,
	}
}

// Create inserts a new export job
func (r *jobRepository) Create(ctx context.Context, job *models.ExportJob) error {
	fileIDs, err := json.Marshal(job.FileIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal file ids: %w", err)
	}

	stmt := `
		INSERT INTO export_jobs (job_id, library_id, status, error, created_by, updated_by, updated_on, file_ids)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, stmt,
		job.JobID,
		job.LibraryID,
		job.Status,
		job.Error,
		job.CreatedBy,
		job.UpdatedBy,
		job.UpdatedOn,
		string(fileIDs),
	)
	if err != nil {
		return fmt.Errorf("failed to create export job: %w", err)
	}

	return nil
}

// GetByID retrieves an export job by ID
func (r *jobRepository) GetByID(ctx context.Context, jobID string) (*models.ExportJob, error) {
	stmt := `
		SELECT library_id, status, error, created_by, updated_by, updated_on, file_ids
		FROM export_jobs
		WHERE job_id = ?
		LIMIT 1
	`

	job := &models.ExportJob{JobID: jobID}
	var fileIDs string
	err := r.db.QueryRowContext(ctx, stmt, jobID).Scan(
		&job.LibraryID,
		&job.Status,
		&job.Error,
		&job.CreatedBy,
		&job.UpdatedBy,
		&job.UpdatedOn,
		&fileIDs,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get export job by id: %w", err)
	}

	if err := json.Unmarshal([]byte(fileIDs), &job.FileIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal file ids: %w", err)
	}
	return job, nil
}

// UpdateStatus transitions a job from one of the given statuses to the
// new one, stamping updated_by/updated_on.  The conditional UPDATE makes
// the transition atomic: if the job is not currently in an allowed
// status the update affects no rows and the transition is rejected with
// ErrInvalidTransition (or ErrNotFound if the job does not exist).
func (r *jobRepository) UpdateStatus(
	ctx context.Context,
	jobID string,
	from []models.ExportJobStatus,
	to models.ExportJobStatus,
	errorMessage *string,
	updatedBy string,
) (*models.ExportJob, error) {
	placeholders := make([]string, len(from))
	args := []any{to, errorMessage, updatedBy, time.Now().UTC(), jobID}
	for i, status := range from {
		placeholders[i] = "?"
		args = append(args, status)
	}

	stmt := fmt.Sprintf(`
		UPDATE export_jobs
		SET status = ?, error = ?, updated_by = ?, updated_on = ?
		WHERE job_id = ? AND status IN (%s)
	`, strings.Join(placeholders, ", "))

	result, err := r.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update export job status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Distinguish a missing job from one in the wrong state
		if _, err := r.GetByID(ctx, jobID); err != nil {
			return nil, err
		}
		return nil, ErrInvalidTransition
	}

	return r.GetByID(ctx, jobID)
}

// CountByStatus counts export jobs in the given status (queue length)
func (r *jobRepository) CountByStatus(ctx context.Context, status models.ExportJobStatus) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM export_jobs WHERE status = ?`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count export jobs: %w", err)
	}
	return count, nil
}
