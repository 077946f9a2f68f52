package main

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/picstrata/backend/internal/models"
	"github.com/picstrata/backend/internal/repositories"
	"go.uber.org/zap"
)

// workerUserID stamps updated_by on transitions made by the worker
const workerUserID = "system"

// JobRepository defines the interface for export job repository
type JobRepository interface {
	// GetByID retrieves an export job by its ID.
	//
	// Returns repositories.ErrNotFound if the job does not exist.
	GetByID(ctx context.Context, jobID string) (*models.ExportJob, error)
	// UpdateStatus atomically transitions a job from one of the given
	// statuses to the new one.
	//
	// Returns repositories.ErrInvalidTransition if the job is in a
	// disallowed status.
	UpdateStatus(ctx context.Context, jobID string, from []models.ExportJobStatus, to models.ExportJobStatus, errorMessage *string, updatedBy string) (*models.ExportJob, error)
}

// FileRepository defines the interface for file lookups
type FileRepository interface {
	// GetByIDs retrieves the given files of a library.
	GetByIDs(ctx context.Context, libraryID string, fileIDs []string) ([]*models.File, error)
}

// Exporter defines the interface for bundling files into an archive
type Exporter interface {
	// Export writes the given files into an archive named after the job
	// and returns the archive's path.
	Export(jobID string, files []*models.File) (string, error)
}

// Worker processes queued export jobs
type Worker struct {
	logger   *zap.Logger
	jobRepo  JobRepository
	fileRepo FileRepository
	exporter Exporter
}

// NewWorker creates a new worker instance
func NewWorker(logger *zap.Logger, jobRepo JobRepository, fileRepo FileRepository, exporter Exporter) *Worker {
	return &Worker{
		logger:   logger,
		jobRepo:  jobRepo,
		fileRepo: fileRepo,
		exporter: exporter,
	}
}

// HandleExportJob handles export job processing.  The task payload is
// the job ID; all job state lives in the database, so a duplicate
// delivery finds the job already past queued and skips it.
func (w *Worker) HandleExportJob(ctx context.Context, t *asynq.Task) error {
	jobID := string(t.Payload())

	job, err := w.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		// Job record removed before processing, nothing to do
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}
	if job.Status != models.ExportJobStatusQueued {
		w.logger.Info("skipping export job not in queued status",
			zap.String("job_id", jobID),
			zap.String("status", string(job.Status)),
		)
		return nil
	}

	if _, err := w.jobRepo.UpdateStatus(ctx, jobID,
		[]models.ExportJobStatus{models.ExportJobStatusQueued},
		models.ExportJobStatusProcessing, nil, workerUserID); err != nil {
		// Another worker claimed the job first
		if errors.Is(err, repositories.ErrInvalidTransition) {
			return nil
		}
		return err
	}

	files, err := w.fileRepo.GetByIDs(ctx, job.LibraryID, job.FileIDs)
	if err != nil {
		w.fail(ctx, jobID, err)
		return err
	}

	archive, err := w.exporter.Export(jobID, files)
	if err != nil {
		w.fail(ctx, jobID, err)
		return err
	}

	if _, err := w.jobRepo.UpdateStatus(ctx, jobID,
		[]models.ExportJobStatus{models.ExportJobStatusProcessing},
		models.ExportJobStatusSuccess, nil, workerUserID); err != nil {
		return err
	}

	w.logger.Info("export job completed",
		zap.String("job_id", jobID),
		zap.String("archive", archive),
		zap.Int("file_count", len(files)),
	)
	return nil
}

// fail marks the job failed with the error's message.  The failed
// status is terminal, so a retried task will skip the job.
func (w *Worker) fail(ctx context.Context, jobID string, cause error) {
	message := cause.Error()
	if _, err := w.jobRepo.UpdateStatus(ctx, jobID,
		[]models.ExportJobStatus{models.ExportJobStatusQueued, models.ExportJobStatusProcessing},
		models.ExportJobStatusFailed, &message, workerUserID); err != nil {
		w.logger.Error("failed to mark export job failed",
			zap.String("job_id", jobID),
			zap.Error(err),
		)
	}
}
