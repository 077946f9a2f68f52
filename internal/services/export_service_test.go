package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/picstrata/backend/internal/models"
	"github.com/picstrata/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// mockJobRepository is a mock implementation of JobRepository
type mockJobRepository struct {
	job       *models.ExportJob
	createErr error
	getErr    error
	updateErr error
	count     int
	countErr  error

	created     *models.ExportJob
	updatedFrom []models.ExportJobStatus
	updatedTo   models.ExportJobStatus
	updatedMsg  *string
}

func (m *mockJobRepository) Create(ctx context.Context, job *models.ExportJob) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = job
	return nil
}

func (m *mockJobRepository) GetByID(ctx context.Context, jobID string) (*models.ExportJob, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.job, nil
}

func (m *mockJobRepository) UpdateStatus(ctx context.Context, jobID string, from []models.ExportJobStatus, to models.ExportJobStatus, errorMessage *string, updatedBy string) (*models.ExportJob, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	m.updatedFrom = from
	m.updatedTo = to
	m.updatedMsg = errorMessage
	return &models.ExportJob{
		JobID:     jobID,
		Status:    to,
		Error:     errorMessage,
		UpdatedBy: updatedBy,
		UpdatedOn: time.Now().UTC(),
	}, nil
}

func (m *mockJobRepository) CountByStatus(ctx context.Context, status models.ExportJobStatus) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.count, nil
}

// mockEnqueuer is a mock implementation of TaskEnqueuer
type mockEnqueuer struct {
	err  error
	task *asynq.Task
}

func (m *mockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.task = task
	return &asynq.TaskInfo{}, nil
}

func TestNewExportService(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	jobRepo := &mockJobRepository{}
	enqueuer := &mockEnqueuer{}

	svc := NewExportService(jobRepo, enqueuer, logger)

	assert.NotNil(t, svc)
	assert.Equal(t, jobRepo, svc.jobRepo)
	assert.Equal(t, enqueuer, svc.enqueuer)
	assert.Equal(t, logger, svc.logger)
}

func TestExportService_Submit(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	tests := []struct {
		name          string
		fileIDs       []string
		jobRepo       *mockJobRepository
		enqueuer      *mockEnqueuer
		expectedError error
		errorContains string
	}{
		{
			name:     "success",
			fileIDs:  []string{"f1", "f2"},
			jobRepo:  &mockJobRepository{},
			enqueuer: &mockEnqueuer{},
		},
		{
			name:          "empty file set",
			fileIDs:       []string{},
			jobRepo:       &mockJobRepository{},
			enqueuer:      &mockEnqueuer{},
			expectedError: ErrEmptyFileSet,
		},
		{
			name:          "nil file set",
			fileIDs:       nil,
			jobRepo:       &mockJobRepository{},
			enqueuer:      &mockEnqueuer{},
			expectedError: ErrEmptyFileSet,
		},
		{
			name:          "database error",
			fileIDs:       []string{"f1"},
			jobRepo:       &mockJobRepository{createErr: errors.New("database error")},
			enqueuer:      &mockEnqueuer{},
			errorContains: "failed to create export job",
		},
		{
			name:          "enqueue error",
			fileIDs:       []string{"f1"},
			jobRepo:       &mockJobRepository{},
			enqueuer:      &mockEnqueuer{err: errors.New("redis unavailable")},
			errorContains: "failed to enqueue export job",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewExportService(tt.jobRepo, tt.enqueuer, logger)

			job, err := svc.Submit(context.Background(), "lib-1", tt.fileIDs, "user-1")

			if tt.expectedError != nil || tt.errorContains != "" {
				assert.Error(t, err)
				if tt.expectedError != nil {
					assert.ErrorIs(t, err, tt.expectedError)
				}
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
				assert.Nil(t, job)
				return
			}

			assert.NoError(t, err)
			assert.NotNil(t, job)
			assert.NotEmpty(t, job.JobID)
			assert.Equal(t, models.ExportJobStatusQueued, job.Status)
			assert.Nil(t, job.Error)
			assert.Equal(t, "user-1", job.CreatedBy)
			assert.Equal(t, tt.fileIDs, job.FileIDs)
			assert.Equal(t, job, tt.jobRepo.created)

			assert.NotNil(t, tt.enqueuer.task)
			assert.Equal(t, TaskTypeExportJob, tt.enqueuer.task.Type())
			assert.Equal(t, job.JobID, string(tt.enqueuer.task.Payload()))
		})
	}
}

func TestExportService_Transitions(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	t.Run("begin moves queued to processing", func(t *testing.T) {
		jobRepo := &mockJobRepository{}
		svc := NewExportService(jobRepo, &mockEnqueuer{}, logger)

		job, err := svc.Begin(context.Background(), "job-1", "worker")

		assert.NoError(t, err)
		assert.Equal(t, models.ExportJobStatusProcessing, job.Status)
		assert.Equal(t, []models.ExportJobStatus{models.ExportJobStatusQueued}, jobRepo.updatedFrom)
		assert.Nil(t, jobRepo.updatedMsg)
	})

	t.Run("complete moves processing to success", func(t *testing.T) {
		jobRepo := &mockJobRepository{}
		svc := NewExportService(jobRepo, &mockEnqueuer{}, logger)

		job, err := svc.Complete(context.Background(), "job-1", "worker")

		assert.NoError(t, err)
		assert.Equal(t, models.ExportJobStatusSuccess, job.Status)
		assert.Equal(t, []models.ExportJobStatus{models.ExportJobStatusProcessing}, jobRepo.updatedFrom)
		assert.Nil(t, job.Error)
	})

	t.Run("fail records the reason", func(t *testing.T) {
		jobRepo := &mockJobRepository{}
		svc := NewExportService(jobRepo, &mockEnqueuer{}, logger)

		job, err := svc.Fail(context.Background(), "job-1", "disk full", "worker")

		assert.NoError(t, err)
		assert.Equal(t, models.ExportJobStatusFailed, job.Status)
		assert.Equal(t, []models.ExportJobStatus{
			models.ExportJobStatusQueued,
			models.ExportJobStatusProcessing,
		}, jobRepo.updatedFrom)
		assert.NotNil(t, job.Error)
		assert.Equal(t, "disk full", *job.Error)
	})

	t.Run("transition on missing job", func(t *testing.T) {
		jobRepo := &mockJobRepository{updateErr: repositories.ErrNotFound}
		svc := NewExportService(jobRepo, &mockEnqueuer{}, logger)

		job, err := svc.Begin(context.Background(), "job-1", "worker")

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, job)
	})

	t.Run("transition from terminal status", func(t *testing.T) {
		jobRepo := &mockJobRepository{updateErr: repositories.ErrInvalidTransition}
		svc := NewExportService(jobRepo, &mockEnqueuer{}, logger)

		job, err := svc.Complete(context.Background(), "job-1", "worker")

		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Nil(t, job)
	})
}

func TestExportService_GetJob(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	t.Run("success", func(t *testing.T) {
		stored := &models.ExportJob{JobID: "job-1", Status: models.ExportJobStatusQueued}
		svc := NewExportService(&mockJobRepository{job: stored}, &mockEnqueuer{}, logger)

		job, err := svc.GetJob(context.Background(), "job-1")

		assert.NoError(t, err)
		assert.Equal(t, stored, job)
	})

	t.Run("not found", func(t *testing.T) {
		svc := NewExportService(&mockJobRepository{getErr: repositories.ErrNotFound}, &mockEnqueuer{}, logger)

		job, err := svc.GetJob(context.Background(), "job-1")

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, job)
	})
}
