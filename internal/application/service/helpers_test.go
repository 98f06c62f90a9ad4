package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/svs-ops-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var bangkok = time.FixedZone("ICT", 7*60*60)

// fixedNow is 2025-03-04 20:00 UTC, which is already 2025-03-05 in Bangkok.
var fixedNow = time.Date(2025, 3, 4, 20, 0, 0, 0, time.UTC)

func testSettings() Settings {
	return Settings{
		Location:         bangkok,
		OperationTimeout: 5 * time.Second,
		Now:              func() time.Time { return fixedNow },
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTeam(code string) *entity.Team {
	return &entity.Team{ID: uuid.New(), Code: code, Name: code + " team"}
}

func newCustomer(code string) *entity.Customer {
	return &entity.Customer{ID: uuid.New(), Code: code, Name: code + " Co., Ltd."}
}
