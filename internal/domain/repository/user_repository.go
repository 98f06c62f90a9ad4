package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/svs-ops-api/internal/domain/entity"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// GetByUsername matches case-insensitively.
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	// GetWithRoles loads roles and their permissions.
	GetWithRoles(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// UpdateFields applies a partial update. It reports false when the user does not exist.
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (bool, error)
	// Delete reports false when the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, search string) ([]entity.User, error)
	// ReplaceRoles sets the user's roles to exactly roleIDs.
	ReplaceRoles(ctx context.Context, userID uuid.UUID, roleIDs []uint) error
}

// RoleRepository defines the interface for role data operations
type RoleRepository interface {
	GetByNames(ctx context.Context, names []string) ([]entity.Role, error)
	List(ctx context.Context) ([]entity.Role, error)
}
