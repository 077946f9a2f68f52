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

// AlbumService defines the interface for album operations
type AlbumService interface {
	// Method Create creates an album in the library.
	//
	// Returns services.ErrDuplicateName if the name is already used in
	// the library, or a query validation error for a bad live query.
	Create(ctx context.Context, libraryID string, req *models.AlbumAdd) (*models.Album, error)
	// Method Get retrieves an album by ID.
	Get(ctx context.Context, libraryID, albumID string) (*models.Album, error)
	// Method List retrieves all albums in a library.
	List(ctx context.Context, libraryID string) ([]models.Album, error)
	// Method Update applies the provided fields to the album.
	Update(ctx context.Context, libraryID, albumID string, req *models.AlbumUpdate) (*models.Album, error)
	// Method Delete removes the album definition.
	Delete(ctx context.Context, libraryID, albumID string) error
	// Method ResolveMembership returns the album's current membership as
	// an ordered list of file IDs.
	ResolveMembership(ctx context.Context, album *models.Album) ([]string, error)
}

// AlbumHandler handles album-related HTTP requests
type AlbumHandler struct {
	handlers.BaseHandler
	albumService  AlbumService
	accessService AccessService
}

// NewAlbumHandler creates a new album handler
func NewAlbumHandler(albumService AlbumService, accessService AccessService, logger *zap.Logger) *AlbumHandler {
	return &AlbumHandler{
		BaseHandler:   handlers.BaseHandler{Logger: logger},
		albumService:  albumService,
		accessService: accessService,
	}
}

// RegisterRoutes registers all album handler routes
func (h *AlbumHandler) RegisterRoutes(r chi.Router) {
	r.Route("/libraries/{libraryId}/albums", func(r chi.Router) {
		r.Get("/", h.ListAlbums)
		r.Post("/", h.CreateAlbum)
		r.Get("/{albumId}", h.GetAlbum)
		r.Patch("/{albumId}", h.UpdateAlbum)
		r.Delete("/{albumId}", h.DeleteAlbum)
		r.Get("/{albumId}/files", h.GetAlbumFiles)
	})
}

// ListAlbums handles GET /libraries/{libraryId}/albums
// @Summary List albums
// @Description List all albums in a library the caller can read
// @Tags albums
// @Produce json
// @Param libraryId path string true "Library ID"
// @Param API-User-ID header string true "Calling user ID"
// @Success 200 {array} models.Album
// @Failure 403 {object} map[string]string "Insufficient permissions"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /libraries/{libraryId}/albums [get]
func (h *AlbumHandler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	libraryID := chi.URLParam(r, "libraryId")
	userID, _ := authmw.GetUserID(r.Context())

	if !requireRole(&h.BaseHandler, h.accessService, w, r, userID, libraryID,
		models.ObjectTypeLibrary, libraryID, models.RoleReader) {
		return
	}

	albums, err := h.albumService.List(r.Context(), libraryID)
	if err != nil {
		h.Logger.Error("failed to list albums", zap.Error(err), zap.String("library_id", libraryID))
		h.RespondError(w, http.StatusInternalServerError, "failed to list albums")
		return
	}
	if albums == nil {
		albums = []models.Album{}
	}

	h.RespondJSON(w, http.StatusOK, albums)
}

// CreateAlbum handles POST /libraries/{libraryId}/albums
// @Summary Create album
// @Description Create a static or live album. A live album carries a file query.
// @Tags albums
// @Accept json
// @Produce json
// @Param libraryId path string true "Library ID"
// @Param API-User-ID header string true "Calling user ID"
// @Param album body models.AlbumAdd true "Album to create"
// @Success 201 {object} models.Album
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Insufficient permissions"
// @Failure 409 {object} map[string]string "Album name already in use"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /libraries/{libraryId}/albums [post]
func (h *AlbumHandler) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	libraryID := chi.URLParam(r, "libraryId")
	userID, _ := authmw.GetUserID(r.Context())

	if !requireRole(&h.BaseHandler, h.accessService, w, r, userID, libraryID,
		models.ObjectTypeLibrary, libraryID, models.RoleContributor) {
		return
	}

	var req models.AlbumAdd
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	album, err := h.albumService.Create(r.Context(), libraryID, &req)
	if err != nil {
		status := serviceErrorStatus(err)
		if status == http.StatusInternalServerError {
			h.Logger.Error("failed to create album", zap.Error(err), zap.String("library_id", libraryID))
			h.RespondError(w, status, "failed to create album")
			return
		}
		h.RespondError(w, status, err.Error())
		return
	}

	h.RespondJSON(w, http.StatusCreated, album)
}

// GetAlbum handles GET /libraries/{libraryId}/albums/{albumId}
// @Summary Get album
// @Description Retrieve an album definition by ID
// @Tags albums
// @Produce json
// @Param libraryId path string true "Library ID"
// @Param albumId path string true "Album ID"
// @Param API-User-ID header string true "Calling user ID"
// @Success 200 {object} models.Album
// @Failure 403 {object} map[string]string "Insufficient permissions"
// @Failure 404 {object} map[string]string "Album not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /libraries/{libraryId}/albums/{albumId} [get]
func (h *AlbumHandler) GetAlbum(w http.ResponseWriter, r *http.Request) {
	libraryID := chi.URLParam(r, "libraryId")
	albumID := chi.URLParam(r, "albumId")
	userID, _ := authmw.GetUserID(r.Context())

	if !requireRole(&h.BaseHandler, h.accessService, w, r, userID, libraryID,
		models.ObjectTypeAlbum, albumID, models.RoleReader) {
		return
	}

	album, err := h.albumService.Get(r.Context(), libraryID, albumID)
	if err != nil {
		status := serviceErrorStatus(err)
		if status == http.StatusInternalServerError {
			h.Logger.Error("failed to get album", zap.Error(err), zap.String("album_id", albumID))
			h.RespondError(w, status, "failed to get album")
			return
		}
		h.RespondError(w, status, err.Error())
		return
	}

	h.RespondJSON(w, http.StatusOK, album)
}

// UpdateAlbum handles PATCH /libraries/{libraryId}/albums/{albumId}
// @Summary Update album
// @Description Rename an album or replace its query. A provided query replaces the stored one wholesale.
// @Tags albums
// @Accept json
// @Produce json
// @Param libraryId path string true "Library ID"
// @Param albumId path string true "Album ID"
// @Param API-User-ID header string true "Calling user ID"
// @Param album body models.AlbumUpdate true "Fields to update"
// @Success 200 {object} models.Album
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Insufficient permissions"
// @Failure 404 {object} map[string]string "Album not found"
// @Failure 409 {object} map[string]string "Album name already in use"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /libraries/{libraryId}/albums/{albumId} [patch]
func (h *AlbumHandler) UpdateAlbum(w http.ResponseWriter, r *http.Request) {
	libraryID := chi.URLParam(r, "libraryId")
	albumID := chi.URLParam(r, "albumId")
	userID, _ := authmw.GetUserID(r.Context())

	if !requireRole(&h.BaseHandler, h.accessService, w, r, userID, libraryID,
		models.ObjectTypeAlbum, albumID, models.RoleContributor) {
		return
	}

	var req models.AlbumUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	album, err := h.albumService.Update(r.Context(), libraryID, albumID, &req)
	if err != nil {
		status := serviceErrorStatus(err)
		if status == http.StatusInternalServerError {
			h.Logger.Error("failed to update album", zap.Error(err), zap.String("album_id", albumID))
			h.RespondError(w, status, "failed to update album")
			return
		}
		h.RespondError(w, status, err.Error())
		return
	}

	h.RespondJSON(w, http.StatusOK, album)
}

// DeleteAlbum handles DELETE /libraries/{libraryId}/albums/{albumId}
// @Summary Delete album
// @Description Delete an album definition. The files it referenced are untouched.
// @Tags albums
// @Produce json
// @Param libraryId path string true "Library ID"
// @Param albumId path string true "Album ID"
// @Param API-User-ID header string true "Calling user ID"
// @Success 204 "Album deleted"
// @Failure 403 {object} map[string]string "Insufficient permissions"
// @Failure 404 {object} map[string]string "Album not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /libraries/{libraryId}/albums/{albumId} [delete]
func (h *AlbumHandler) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	libraryID := chi.URLParam(r, "libraryId")
	albumID := chi.URLParam(r, "albumId")
	userID, _ := authmw.GetUserID(r.Context())

	if !requireRole(&h.BaseHandler, h.accessService, w, r, userID, libraryID,
		models.ObjectTypeAlbum, albumID, models.RoleContributor) {
		return
	}

	if err := h.albumService.Delete(r.Context(), libraryID, albumID); err != nil {
		status := serviceErrorStatus(err)
		if status == http.StatusInternalServerError {
			h.Logger.Error("failed to delete album", zap.Error(err), zap.String("album_id", albumID))
			h.RespondError(w, status, "failed to delete album")
			return
		}
		h.RespondError(w, status, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetAlbumFiles handles GET /libraries/{libraryId}/albums/{albumId}/files
// @Summary Resolve album membership
// @Description Return the album's current membership as an ordered list of file IDs. Live albums are recomputed on every call.
// @Tags albums
// @Produce json
// @Param libraryId path string true "Library ID"
// @Param albumId path string true "Album ID"
// @Param API-User-ID header string true "Calling user ID"
// @Success 200 {array} string
// @Failure 403 {object} map[string]string "Insufficient permissions"
// @Failure 404 {object} map[string]string "Album not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /libraries/{libraryId}/albums/{albumId}/files [get]
func (h *AlbumHandler) GetAlbumFiles(w http.ResponseWriter, r *http.Request) {
	libraryID := chi.URLParam(r, "libraryId")
	albumID := chi.URLParam(r, "albumId")
	userID, _ := authmw.GetUserID(r.Context())

	if !requireRole(&h.BaseHandler, h.accessService, w, r, userID, libraryID,
		models.ObjectTypeAlbum, albumID, models.RoleReader) {
		return
	}

	album, err := h.albumService.Get(r.Context(), libraryID, albumID)
	if err != nil {
		status := serviceErrorStatus(err)
		if status == http.StatusInternalServerError {
			h.Logger.Error("failed to get album", zap.Error(err), zap.String("album_id", albumID))
			h.RespondError(w, status, "failed to get album")
			return
		}
		h.RespondError(w, status, err.Error())
		return
	}

	fileIDs, err := h.albumService.ResolveMembership(r.Context(), album)
	if err != nil {
		status := serviceErrorStatus(err)
		if status == http.StatusInternalServerError {
			h.Logger.Error("failed to resolve album membership", zap.Error(err), zap.String("album_id", albumID))
			h.RespondError(w, status, "failed to resolve album membership")
			return
		}
		h.RespondError(w, status, err.Error())
		return
	}
	if fileIDs == nil {
		fileIDs = []string{}
	}

	h.RespondJSON(w, http.StatusOK, fileIDs)
}
