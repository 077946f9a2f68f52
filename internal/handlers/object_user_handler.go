package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/picstrata/backend/internal/models"
	authmw "github.com/picstrata/backend/libs/auth/middleware"
	"github.com/picstrata/backend/libs/handlers"
	"go.uber.org/zap"
)

// ObjectUserHandler handles grant-related HTTP requests.  All grant
// management requires the owner role on the library.
type ObjectUserHandler struct {
	handlers.BaseHandler
	accessService AccessService
}

// NewObjectUserHandler creates a new object user handler
func NewObjectUserHandler(accessService AccessService, logger *zap.Logger) *ObjectUserHandler {
	return &ObjectUserHandler{
		BaseHandler:   handlers.BaseHandler{Logger: logger},
		accessService: accessService,
	}
}

// RegisterRoutes registers all object user handler routes
func (h *ObjectUserHandler) RegisterRoutes(r chi.Router) {
	r.Route("/libraries/{libraryId}/users", func(r chi.Router) {
		r.Get("/{objectType}/{objectId}", h.ListGrants)
		r.Post("/{objectType}/{objectId}", h.AddGrant)
		r.Delete("/{objectType}/{objectId}/{userId}", h.RevokeGrant)
	})
}

// ListGrants handles GET /libraries/{libraryId}/users/{objectType}/{objectId}
// @Summary List grants on an object
// @Description List the role assignments on a library, folder or album
// @Tags users
// @Produce json
// @Param libraryId path string true "Library ID"
// @Param objectType path string true "Object type" Enums(library, folder, album)
// @Param objectId path string true "Object ID"
// @Param API-User-ID header string true "Calling user ID"
// @Success 200 {array} models.ObjectUser
// @Failure 400 {object} map[string]string "Invalid object type"
// @Failure 403 {object} map[string]string "Insufficient permissions"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /libraries/{libraryId}/users/{objectType}/{objectId} [get]
func (h *ObjectUserHandler) ListGrants(w http.ResponseWriter, r *http.Request) {
	libraryID := chi.URLParam(r, "libraryId")
	objectType := models.ObjectType(chi.URLParam(r, "objectType"))
	objectID := chi.URLParam(r, "objectId")
	userID, _ := authmw.GetUserID(r.Context())

	if !objectType.IsValid() || objectType == models.ObjectTypeFile {
		h.RespondError(w, http.StatusBadRequest, "invalid object type")
		return
	}

	if !requireRole(&h.BaseHandler, h.accessService, w, r, userID, libraryID,
		models.ObjectTypeLibrary, libraryID, models.RoleOwner) {
		return
	}

	grants, err := h.accessService.ListGrants(r.Context(), objectType, objectID)
	if err != nil {
		h.Logger.Error("failed to list grants", zap.Error(err), zap.String("object_id", objectID))
		h.RespondError(w, http.StatusInternalServerError, "failed to list grants")
		return
	}
	if grants == nil {
		grants = []models.ObjectUser{}
	}

	h.RespondJSON(w, http.StatusOK, grants)
}

// AddGrant handles POST /libraries/{libraryId}/users/{objectType}/{objectId}
// @Summary Grant a role
// @Description Assign a role to a user on a library, folder or album. An existing grant for the same user and object is replaced.
// @Tags users
// @Accept json
// @Produce json
// @Param libraryId path string true "Library ID"
// @Param objectType path string true "Object type" Enums(library, folder, album)
// @Param objectId path string true "Object ID"
// @Param API-User-ID header string true "Calling user ID"
// @Param grant body models.ObjectUserAdd true "Grant to create"
// @Success 201 {object} models.ObjectUser
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Insufficient permissions"
// @Failure 409 {object} map[string]string "Change would remove the last owner"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /libraries/{libraryId}/users/{objectType}/{objectId} [post]
func (h *ObjectUserHandler) AddGrant(w http.ResponseWriter, r *http.Request) {
	libraryID := chi.URLParam(r, "libraryId")
	objectType := models.ObjectType(chi.URLParam(r, "objectType"))
	objectID := chi.URLParam(r, "objectId")
	userID, _ := authmw.GetUserID(r.Context())

	if !objectType.IsValid() || objectType == models.ObjectTypeFile {
		h.RespondError(w, http.StatusBadRequest, "invalid object type")
		return
	}

	if !requireRole(&h.BaseHandler, h.accessService, w, r, userID, libraryID,
		models.ObjectTypeLibrary, libraryID, models.RoleOwner) {
		return
	}

	var req models.ObjectUserAdd
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	grant := &models.ObjectUser{
		LibraryID:  libraryID,
		ObjectType: objectType,
		ObjectID:   objectID,
		UserID:     req.UserID,
		Role:       req.Role,
	}

	if err := h.accessService.Grant(r.Context(), grant); err != nil {
		status := serviceErrorStatus(err)
		if status == http.StatusInternalServerError {
			h.Logger.Error("failed to save grant", zap.Error(err), zap.String("library_id", libraryID))
			h.RespondError(w, status, "failed to save grant")
			return
		}
		h.RespondError(w, status, err.Error())
		return
	}

	h.RespondJSON(w, http.StatusCreated, grant)
}

// RevokeGrant handles DELETE /libraries/{libraryId}/users/{objectType}/{objectId}/{userId}
// @Summary Revoke a role
// @Description Remove a user's role assignment on an object. Revoking an absent grant succeeds without effect.
// @Tags users
// @Produce json
// @Param libraryId path string true "Library ID"
// @Param objectType path string true "Object type" Enums(library, folder, album)
// @Param objectId path string true "Object ID"
// @Param userId path string true "User whose grant to revoke"
// @Param API-User-ID header string true "Calling user ID"
// @Success 204 "Grant revoked"
// @Failure 400 {object} map[string]string "Invalid object type"
// @Failure 403 {object} map[string]string "Insufficient permissions"
// @Failure 409 {object} map[string]string "Change would remove the last owner"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /libraries/{libraryId}/users/{objectType}/{objectId}/{userId} [delete]
func (h *ObjectUserHandler) RevokeGrant(w http.ResponseWriter, r *http.Request) {
	libraryID := chi.URLParam(r, "libraryId")
	objectType := models.ObjectType(chi.URLParam(r, "objectType"))
	objectID := chi.URLParam(r, "objectId")
	targetUserID := chi.URLParam(r, "userId")
	userID, _ := authmw.GetUserID(r.Context())

	if !objectType.IsValid() || objectType == models.ObjectTypeFile {
		h.RespondError(w, http.StatusBadRequest, "invalid object type")
		return
	}

	if !requireRole(&h.BaseHandler, h.accessService, w, r, userID, libraryID,
		models.ObjectTypeLibrary, libraryID, models.RoleOwner) {
		return
	}

	if err := h.accessService.Revoke(r.Context(), objectType, objectID, targetUserID); err != nil {
		status := serviceErrorStatus(err)
		if status == http.StatusInternalServerError {
			h.Logger.Error("failed to revoke grant", zap.Error(err), zap.String("object_id", objectID))
			h.RespondError(w, status, "failed to revoke grant")
			return
		}
		h.RespondError(w, status, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
