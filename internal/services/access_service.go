package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/picstrata/backend/internal/models"
	"github.com/picstrata/backend/internal/repositories"
	"go.uber.org/zap"
)

const (
	roleCacheSize = 4096
	roleCacheTTL  = time.Minute
)

// GrantRepository is the interface that wraps methods for grant data access
type GrantRepository interface {
	// Method Get retrieves the grant for (objectType, objectId, userId).
	//
	// Returns repositories.ErrNotFound if no such grant exists.
	Get(ctx context.Context, objectType models.ObjectType, objectID, userID string) (*models.ObjectUser, error)
	// Method ListByObject retrieves all grants on an object.
	ListByObject(ctx context.Context, objectType models.ObjectType, objectID string) ([]models.ObjectUser, error)
	// Method Upsert inserts or replaces a grant.
	//
	// Returns repositories.ErrLastOwner if the change would leave the
	// grant's library without an owner.
	Upsert(ctx context.Context, grant *models.ObjectUser) error
	// Method Delete removes a grant; removing an absent grant is a no-op.
	//
	// Returns repositories.ErrLastOwner if the change would leave the
	// library without an owner.
	Delete(ctx context.Context, objectType models.ObjectType, objectID, userID string) error
}

// accessService resolves effective roles and manages grants.  Resolved
// roles are cached briefly; any grant mutation purges the whole cache
// because a single library-level change can affect the effective role
// on every folder and album in the library.
type accessService struct {
	grantRepo GrantRepository
	roleCache *expirable.LRU[string, models.Role]
	logger    *zap.Logger
}

// NewAccessService creates a new access service
func NewAccessService(grantRepo GrantRepository, logger *zap.Logger) *accessService {
	return &accessService{
		grantRepo: grantRepo,
		roleCache: expirable.NewLRU[string, models.Role](roleCacheSize, nil, roleCacheTTL),
		logger:    logger,
	}
}

// ResolveRole returns the user's effective role on an object, or nil if
// the user has no access.  A grant on the object itself wins; folders
// and albums without one fall back to the user's library-level grant.
// Files carry no grants of their own and always resolve via the library.
func (s *accessService) ResolveRole(ctx context.Context, userID, libraryID string, objectType models.ObjectType, objectID string) (*models.Role, error) {
	key := roleCacheKey(userID, objectType, objectID)
	if role, ok := s.roleCache.Get(key); ok {
		return &role, nil
	}

	role, err := s.lookupRole(ctx, userID, libraryID, objectType, objectID)
	if err != nil {
		return nil, err
	}
	if role != nil {
		s.roleCache.Add(key, *role)
	}
	return role, nil
}

func (s *accessService) lookupRole(ctx context.Context, userID, libraryID string, objectType models.ObjectType, objectID string) (*models.Role, error) {
	if objectType != models.ObjectTypeFile {
		grant, err := s.grantRepo.Get(ctx, objectType, objectID, userID)
		if err == nil {
			return &grant.Role, nil
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to resolve role: %w", err)
		}
		if objectType == models.ObjectTypeLibrary {
			return nil, nil
		}
	}

	grant, err := s.grantRepo.Get(ctx, models.ObjectTypeLibrary, libraryID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve library role: %w", err)
	}
	return &grant.Role, nil
}

// Authorize reports whether the user's effective role on the object
// carries at least the required privilege.  No access means no.
func (s *accessService) Authorize(ctx context.Context, userID, libraryID string, objectType models.ObjectType, objectID string, required models.Role) (bool, error) {
	role, err := s.ResolveRole(ctx, userID, libraryID, objectType, objectID)
	if err != nil {
		return false, err
	}
	return role != nil && role.Includes(required), nil
}

// Grant assigns a role to a user on an object, replacing any existing
// grant for the same (objectType, objectId, userId)
func (s *accessService) Grant(ctx context.Context, grant *models.ObjectUser) error {
	if !grant.ObjectType.IsValid() || grant.ObjectType == models.ObjectTypeFile {
		return fmt.Errorf("grants are not supported on object type %q", grant.ObjectType)
	}
	if !grant.Role.IsValid() {
		return fmt.Errorf("unknown role %q", grant.Role)
	}

	if err := s.grantRepo.Upsert(ctx, grant); err != nil {
		if errors.Is(err, repositories.ErrLastOwner) {
			return ErrLastOwnerViolation
		}
		return fmt.Errorf("failed to save grant: %w", err)
	}

	s.roleCache.Purge()
	s.logger.Info("grant saved",
		zap.String("object_type", string(grant.ObjectType)),
		zap.String("object_id", grant.ObjectID),
		zap.String("user_id", grant.UserID),
		zap.String("role", string(grant.Role)),
	)
	return nil
}

// Revoke removes a user's grant on an object.  Revoking a grant that
// does not exist is a no-op.
func (s *accessService) Revoke(ctx context.Context, objectType models.ObjectType, objectID, userID string) error {
	if err := s.grantRepo.Delete(ctx, objectType, objectID, userID); err != nil {
		if errors.Is(err, repositories.ErrLastOwner) {
			return ErrLastOwnerViolation
		}
		return fmt.Errorf("failed to revoke grant: %w", err)
	}

	s.roleCache.Purge()
	s.logger.Info("grant revoked",
		zap.String("object_type", string(objectType)),
		zap.String("object_id", objectID),
		zap.String("user_id", userID),
	)
	return nil
}

// ListGrants retrieves all grants on an object
func (s *accessService) ListGrants(ctx context.Context, objectType models.ObjectType, objectID string) ([]models.ObjectUser, error) {
	grants, err := s.grantRepo.ListByObject(ctx, objectType, objectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grants: %w", err)
	}
	return grants, nil
}

func roleCacheKey(userID string, objectType models.ObjectType, objectID string) string {
	return userID + "/" + string(objectType) + "/" + objectID
}
