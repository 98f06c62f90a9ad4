package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/svs-ops-api/internal/domain/entity"
)

// TeamRepository defines the interface for team data operations
type TeamRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Team, error)
	List(ctx context.Context) ([]entity.Team, error)
}

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	// List returns at most limit customers whose code or name matches search.
	List(ctx context.Context, search string, limit int) ([]entity.Customer, error)
}
