package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/picstrata/backend/internal/models"
	"github.com/picstrata/backend/internal/query"
	"github.com/picstrata/backend/internal/services"
	"github.com/picstrata/backend/libs/handlers"
)

// AccessService defines the interface for role resolution and grant management
type AccessService interface {
	// Method ResolveRole returns the user's effective role on an object,
	// or nil if the user has no access.
	ResolveRole(ctx context.Context, userID, libraryID string, objectType models.ObjectType, objectID string) (*models.Role, error)
	// Method Authorize reports whether the user's effective role on the
	// object carries at least the required privilege.
	Authorize(ctx context.Context, userID, libraryID string, objectType models.ObjectType, objectID string, required models.Role) (bool, error)
	// Method Grant assigns a role to a user on an object.
	//
	// Returns services.ErrLastOwnerViolation if the change would leave
	// the library without an owner.
	Grant(ctx context.Context, grant *models.ObjectUser) error
	// Method Revoke removes a user's grant on an object.
	//
	// Returns services.ErrLastOwnerViolation if the change would leave
	// the library without an owner.
	Revoke(ctx context.Context, objectType models.ObjectType, objectID, userID string) error
	// Method ListGrants retrieves all grants on an object.
	ListGrants(ctx context.Context, objectType models.ObjectType, objectID string) ([]models.ObjectUser, error)
}

// requireRole checks the caller's effective role and writes the error
// response itself when access is denied.  Returns true when the request
// may proceed.
func requireRole(
	h *handlers.BaseHandler,
	access AccessService,
	w http.ResponseWriter,
	r *http.Request,
	userID, libraryID string,
	objectType models.ObjectType,
	objectID string,
	required models.Role,
) bool {
	ok, err := access.Authorize(r.Context(), userID, libraryID, objectType, objectID, required)
	if err != nil {
		h.RespondError(w, http.StatusInternalServerError, "failed to check access")
		return false
	}
	if !ok {
		h.RespondError(w, http.StatusForbidden, "insufficient permissions")
		return false
	}
	return true
}

// isQueryError reports whether the error came from file query validation
func isQueryError(err error) bool {
	return errors.Is(err, query.ErrUnsupportedQueryVersion) ||
		errors.Is(err, query.ErrUnknownAttribute) ||
		errors.Is(err, query.ErrUnsupportedOperator) ||
		errors.Is(err, query.ErrInvalidValue)
}

// serviceErrorStatus maps service errors to HTTP status codes.  Unmapped
// errors fall through to 500.
func serviceErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrDuplicateName),
		errors.Is(err, services.ErrLastOwnerViolation),
		errors.Is(err, services.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, services.ErrEmptyFileSet):
		return http.StatusBadRequest
	case isQueryError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
