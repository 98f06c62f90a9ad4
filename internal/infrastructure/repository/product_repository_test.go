package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/svs-ops-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/clause"
)

func updatedColumns(c clause.OnConflict) []string {
	cols := make([]string, 0, len(c.DoUpdates))
	for _, a := range c.DoUpdates {
		cols = append(cols, a.Column.Name)
	}
	return cols
}

func TestProductUpsertClause(t *testing.T) {
	withoutTeam := productUpsertClause(&entity.Product{SKU: "A"})
	assert.Equal(t, []clause.Column{{Name: "sku"}}, withoutTeam.Columns)
	assert.NotContains(t, updatedColumns(withoutTeam), "team_id")
	assert.Contains(t, updatedColumns(withoutTeam), "name")

	teamID := uuid.New()
	withTeam := productUpsertClause(&entity.Product{SKU: "A", TeamID: &teamID})
	assert.Contains(t, updatedColumns(withTeam), "team_id")
}
