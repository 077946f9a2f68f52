package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/picstrata/backend/internal/models"
	"github.com/picstrata/backend/internal/repositories"
	"go.uber.org/zap"
)

// TaskTypeExportJob is the asynq task type for export job processing.
// The task payload is the job ID.
const TaskTypeExportJob = "export:job"

// JobRepository is the interface that wraps methods for export job data access
type JobRepository interface {
	// Method Create inserts a new export job.
	Create(ctx context.Context, job *models.ExportJob) error
	// Method GetByID retrieves an export job by ID.
	//
	// Returns repositories.ErrNotFound if the job does not exist.
	GetByID(ctx context.Context, jobID string) (*models.ExportJob, error)
	// Method UpdateStatus atomically transitions a job from one of the
	// given statuses to the new one and returns the updated record.
	//
	// Returns repositories.ErrNotFound if the job does not exist and
	// repositories.ErrInvalidTransition if it is in a disallowed status.
	UpdateStatus(ctx context.Context, jobID string, from []models.ExportJobStatus, to models.ExportJobStatus, errorMessage *string, updatedBy string) (*models.ExportJob, error)
	// Method CountByStatus counts export jobs in the given status.
	CountByStatus(ctx context.Context, status models.ExportJobStatus) (int, error)
}

// TaskEnqueuer is the interface that wraps the asynq client method used
// to hand jobs to the worker
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// exportService implements the export job state machine.  Status
// transitions go through the repository's conditional update, so a
// stale caller loses the race instead of overwriting a newer state.
type exportService struct {
	jobRepo  JobRepository
	enqueuer TaskEnqueuer
	logger   *zap.Logger
}

// NewExportService creates a new export service
func NewExportService(jobRepo JobRepository, enqueuer TaskEnqueuer, logger *zap.Logger) *exportService {
	return &exportService{
		jobRepo:  jobRepo,
		enqueuer: enqueuer,
		logger:   logger,
	}
}

// Submit records a new export job in the queued status and enqueues the
// processing task for the worker
func (s *exportService) Submit(ctx context.Context, libraryID string, fileIDs []string, createdBy string) (*models.ExportJob, error) {
	if len(fileIDs) == 0 {
		return nil, ErrEmptyFileSet
	}

	job := &models.ExportJob{
		JobID:     uuid.New().String(),
		LibraryID: libraryID,
		Status:    models.ExportJobStatusQueued,
		CreatedBy: createdBy,
		UpdatedBy: createdBy,
		UpdatedOn: time.Now().UTC(),
		FileIDs:   fileIDs,
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create export job: %w", err)
	}

	task := asynq.NewTask(TaskTypeExportJob, []byte(job.JobID))
	if _, err := s.enqueuer.EnqueueContext(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to enqueue export job: %w", err)
	}

	s.logger.Info("export job submitted",
		zap.String("job_id", job.JobID),
		zap.String("library_id", libraryID),
		zap.Int("file_count", len(fileIDs)),
	)
	return job, nil
}

// GetJob retrieves an export job by ID
func (s *exportService) GetJob(ctx context.Context, jobID string) (*models.ExportJob, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get export job: %w", err)
	}
	return job, nil
}

// Begin moves a queued job to processing
func (s *exportService) Begin(ctx context.Context, jobID, updatedBy string) (*models.ExportJob, error) {
	return s.transition(ctx, jobID,
		[]models.ExportJobStatus{models.ExportJobStatusQueued},
		models.ExportJobStatusProcessing, nil, updatedBy)
}

// Complete moves a processing job to success and clears its error
func (s *exportService) Complete(ctx context.Context, jobID, updatedBy string) (*models.ExportJob, error) {
	return s.transition(ctx, jobID,
		[]models.ExportJobStatus{models.ExportJobStatusProcessing},
		models.ExportJobStatusSuccess, nil, updatedBy)
}

// Fail moves a queued or processing job to failed, recording the reason
func (s *exportService) Fail(ctx context.Context, jobID, message, updatedBy string) (*models.ExportJob, error) {
	return s.transition(ctx, jobID,
		[]models.ExportJobStatus{models.ExportJobStatusQueued, models.ExportJobStatusProcessing},
		models.ExportJobStatusFailed, &message, updatedBy)
}

func (s *exportService) transition(
	ctx context.Context,
	jobID string,
	from []models.ExportJobStatus,
	to models.ExportJobStatus,
	errorMessage *string,
	updatedBy string,
) (*models.ExportJob, error) {
	job, err := s.jobRepo.UpdateStatus(ctx, jobID, from, to, errorMessage, updatedBy)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		if errors.Is(err, repositories.ErrInvalidTransition) {
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("failed to transition export job: %w", err)
	}

	s.logger.Info("export job transitioned",
		zap.String("job_id", jobID),
		zap.String("status", string(to)),
	)
	return job, nil
}
