package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/picstrata/backend/internal/models"
)

// grantRepository implements object-user grant repository operations.
//
// Mutations on library-level grants run inside a transaction that locks
// the library's owner rows (SELECT ... FOR UPDATE) so the last-owner
// invariant cannot be violated by concurrent revokes.
type grantRepository struct {
	db *sql.DB
}

// NewGrantRepository creates a new grant repository
func NewGrantRepository(db *sql.DB) *grantRepository {
	return &grantRepository{
		db: db,
	}
}

// Get retrieves the grant for (objectType, objectId, userId)
func (r *grantRepository) Get(ctx context.Context, objectType models.ObjectType, objectID, userID string) (*models.ObjectUser, error) {
	stmt := `
		SELECT library_id, role
		FROM object_users
		WHERE object_type = ? AND object_id = ? AND user_id = ?
		LIMIT 1
	`

	grant := &models.ObjectUser{ObjectType: objectType, ObjectID: objectID, UserID: userID}
	err := r.db.QueryRowContext(ctx, stmt, objectType, objectID, userID).Scan(
		&grant.LibraryID,
		&grant.Role,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get grant: %w", err)
	}

	return grant, nil
}

// ListByObject retrieves all grants on an object
func (r *grantRepository) ListByObject(ctx context.Context, objectType models.ObjectType, objectID string) ([]models.ObjectUser, error) {
	stmt := `
		SELECT library_id, user_id, role
		FROM object_users
		WHERE object_type = ? AND object_id = ?
		ORDER BY user_id
	`

	rows, err := r.db.QueryContext(ctx, stmt, objectType, objectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grants: %w", err)
	}
	defer rows.Close()

	var grants []models.ObjectUser
	for rows.Next() {
		grant := models.ObjectUser{ObjectType: objectType, ObjectID: objectID}
		if err := rows.Scan(&grant.LibraryID, &grant.UserID, &grant.Role); err != nil {
			return nil, fmt.Errorf("failed to scan grant: %w", err)
		}
		grants = append(grants, grant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate grants: %w", err)
	}

	return grants, nil
}

// Upsert inserts or replaces a grant keyed by (objectType, objectId, userId).
// Downgrading a library's last owner fails with ErrLastOwner.
func (r *grantRepository) Upsert(ctx context.Context, grant *models.ObjectUser) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if grant.ObjectType == models.ObjectTypeLibrary && grant.Role != models.RoleOwner {
		// A role change away from owner is only allowed if another owner remains
		wasOwner, err := isLibraryOwner(ctx, tx, grant.ObjectID, grant.UserID)
		if err != nil {
			return err
		}
		if wasOwner {
			others, err := countOtherOwners(ctx, tx, grant.ObjectID, grant.UserID)
			if err != nil {
				return err
			}
			if others == 0 {
				return ErrLastOwner
			}
		}
	}

	stmt := `
		INSERT INTO object_users (library_id, object_type, object_id, user_id, role)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE role = VALUES(role)
	`

	_, err = tx.ExecContext(ctx, stmt,
		grant.LibraryID,
		grant.ObjectType,
		grant.ObjectID,
		grant.UserID,
		grant.Role,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert grant: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit grant upsert: %w", err)
	}
	return nil
}

// Delete removes a grant.  Deleting a grant that does not exist is a
// no-op.  Revoking a library's last owner fails with ErrLastOwner.
func (r *grantRepository) Delete(ctx context.Context, objectType models.ObjectType, objectID, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if objectType == models.ObjectTypeLibrary {
		wasOwner, err := isLibraryOwner(ctx, tx, objectID, userID)
		if err != nil {
			return err
		}
		if wasOwner {
			others, err := countOtherOwners(ctx, tx, objectID, userID)
			if err != nil {
				return err
			}
			if others == 0 {
				return ErrLastOwner
			}
		}
	}

	stmt := `
		DELETE FROM object_users
		WHERE object_type = ? AND object_id = ? AND user_id = ?
	`

	if _, err := tx.ExecContext(ctx, stmt, objectType, objectID, userID); err != nil {
		return fmt.Errorf("failed to delete grant: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit grant delete: %w", err)
	}
	return nil
}

// CountAll returns the total number of grants (service statistics)
func (r *grantRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM object_users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count grants: %w", err)
	}
	return count, nil
}

// isLibraryOwner reports whether the user currently holds the owner role
// on the library, locking the row for the transaction
func isLibraryOwner(ctx context.Context, tx *sql.Tx, libraryID, userID string) (bool, error) {
	stmt := `
		SELECT role
		FROM object_users
		WHERE object_type = 'library' AND object_id = ? AND user_id = ?
		FOR UPDATE
	`

	var role models.Role
	err := tx.QueryRowContext(ctx, stmt, libraryID, userID).Scan(&role)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get library grant: %w", err)
	}
	return role == models.RoleOwner, nil
}

// countOtherOwners counts owner grants on the library held by other
// users.  The counted rows stay locked until commit; two concurrent
// revokes of the only two owners will conflict rather than both succeed.
func countOtherOwners(ctx context.Context, tx *sql.Tx, libraryID, userID string) (int, error) {
	stmt := `
		SELECT COUNT(*)
		FROM object_users
		WHERE object_type = 'library' AND object_id = ? AND role = 'owner' AND user_id <> ?
		FOR UPDATE
	`

	var count int
	if err := tx.QueryRowContext(ctx, stmt, libraryID, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count library owners: %w", err)
	}
	return count, nil
}
