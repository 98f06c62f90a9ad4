package repository

import (
	"context"

	domainRepo "github.com/sangkips/svs-ops-api/internal/domain/repository"
	"gorm.io/gorm"
)

type sequenceRepository struct {
	db *gorm.DB
}

// NewSequenceRepository creates a new document sequence repository
func NewSequenceRepository(db *gorm.DB) domainRepo.SequenceRepository {
	return &sequenceRepository{db: db}
}

// Next relies on the upsert's row lock: a second caller for the same
// scope/period waits until the first transaction ends.
func (r *sequenceRepository) Next(ctx context.Context, scope, period string) (int64, error) {
	var next int64
	err := conn(ctx, r.db).Raw(`
		INSERT INTO document_sequences (scope, period, last_number, updated_at)
		VALUES (?, ?, 1, now())
		ON CONFLICT (scope, period)
		DO UPDATE SET last_number = document_sequences.last_number + 1, updated_at = now()
		RETURNING last_number
	`, scope, period).Scan(&next).Error
	return next, err
}
