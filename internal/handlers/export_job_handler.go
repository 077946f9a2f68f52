package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/picstrata/backend/internal/models"
	authmw "github.com/picstrata/backend/libs/auth/middleware"
	"github.com/picstrata/backend/libs/handlers"
	"go.uber.org/zap"
)

// ExportService defines the interface for export job operations
type ExportService interface {
	// Method Submit records a new export job and enqueues it for the
	// worker.
	//
	// Returns services.ErrEmptyFileSet if no files were requested.
	Submit(ctx context.Context, libraryID string, fileIDs []string, createdBy string) (*models.ExportJob, error)
	// Method GetJob retrieves an export job by ID.
	GetJob(ctx context.Context, jobID string) (*models.ExportJob, error)
}

// ExportJobHandler handles export job HTTP requests
type ExportJobHandler struct {
	handlers.BaseHandler
	exportService ExportService
	accessService AccessService
}

// NewExportJobHandler creates a new export job handler
func NewExportJobHandler(exportService ExportService, accessService AccessService, logger *zap.Logger) *ExportJobHandler {
	return &ExportJobHandler{
		BaseHandler:   handlers.BaseHandler{Logger: logger},
		exportService: exportService,
		accessService: accessService,
	}
}

// RegisterRoutes registers all export job handler routes
func (h *ExportJobHandler) RegisterRoutes(r chi.Router) {
	r.Route("/libraries/{libraryId}/exportjobs", func(r chi.Router) {
		r.Post("/", h.SubmitJob)
		r.Get("/{jobId}", h.GetJob)
	})
}

// SubmitJob handles POST /libraries/{libraryId}/exportjobs
// @Summary Submit export job
// @Description Queue a zip export of the given files. The job starts in the queued status and is processed asynchronously.
// @Tags exports
// @Accept json
// @Produce json
// @Param libraryId path string true "Library ID"
// @Param API-User-ID header string true "Calling user ID"
// @Param job body models.ExportJobAdd true "Files to export"
// @Success 202 {object} models.ExportJob
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Insufficient permissions"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /libraries/{libraryId}/exportjobs [post]
func (h *ExportJobHandler) SubmitJob(w http.ResponseWriter, r *http.Request) {
	libraryID := chi.URLParam(r, "libraryId")
	userID, _ := authmw.GetUserID(r.Context())

	if !requireRole(&h.BaseHandler, h.accessService, w, r, userID, libraryID,
		models.ObjectTypeLibrary, libraryID, models.RoleReader) {
		return
	}

	var req models.ExportJobAdd
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	job, err := h.exportService.Submit(r.Context(), libraryID, req.FileIDs, userID)
	if err != nil {
		status := serviceErrorStatus(err)
		if status == http.StatusInternalServerError {
			h.Logger.Error("failed to submit export job", zap.Error(err), zap.String("library_id", libraryID))
			h.RespondError(w, status, "failed to submit export job")
			return
		}
		h.RespondError(w, status, err.Error())
		return
	}

	h.RespondJSON(w, http.StatusAccepted, job)
}

// GetJob handles GET /libraries/{libraryId}/exportjobs/{jobId}
// @Summary Get export job
// @Description Retrieve an export job's status. A failed job carries the failure reason.
// @Tags exports
// @Produce json
// @Param libraryId path string true "Library ID"
// @Param jobId path string true "Export job ID"
// @Param API-User-ID header string true "Calling user ID"
// @Success 200 {object} models.ExportJob
// @Failure 403 {object} map[string]string "Insufficient permissions"
// @Failure 404 {object} map[string]string "Job not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /libraries/{libraryId}/exportjobs/{jobId} [get]
func (h *ExportJobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	libraryID := chi.URLParam(r, "libraryId")
	jobID := chi.URLParam(r, "jobId")
	userID, _ := authmw.GetUserID(r.Context())

	if !requireRole(&h.BaseHandler, h.accessService, w, r, userID, libraryID,
		models.ObjectTypeLibrary, libraryID, models.RoleReader) {
		return
	}

	job, err := h.exportService.GetJob(r.Context(), jobID)
	if err != nil {
		status := serviceErrorStatus(err)
		if status == http.StatusInternalServerError {
			h.Logger.Error("failed to get export job", zap.Error(err), zap.String("job_id", jobID))
			h.RespondError(w, status, "failed to get export job")
			return
		}
		h.RespondError(w, status, err.Error())
		return
	}

	// Jobs are fetched by ID alone; never expose a job that belongs to a
	// different library than the one the caller was authorized on.
	if job.LibraryID != libraryID {
		h.RespondError(w, http.StatusNotFound, "export job not found")
		return
	}

	h.RespondJSON(w, http.StatusOK, job)
}
