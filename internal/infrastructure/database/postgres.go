package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/sangkips/svs-ops-api/internal/config"
	"github.com/sangkips/svs-ops-api/internal/domain/entity"
	"github.com/sangkips/svs-ops-api/pkg/logger"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, log *logrus.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.NewGormLogger(log, 500*time.Millisecond),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	log.WithField("database", cfg.Redacted()).Info("connected to PostgreSQL")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log *logrus.Logger) error {
	log.Info("running database migrations")

	err := db.AutoMigrate(
		// Access control
		&entity.Permission{},
		&entity.Role{},
		&entity.User{},

		// Reference data
		&entity.Team{},
		&entity.Customer{},
		&entity.Product{},

		// Sales documents
		&entity.DocumentSequence{},
		&entity.SaleOrder{},
		&entity.SaleOrderItem{},
		&entity.Invoice{},
		&entity.InvoiceItem{},

		// Purchasing
		&entity.PurchaseOrder{},
		&entity.PurchaseOrderItem{},

		// Stock ledger
		&entity.Item{},
		&entity.Warehouse{},
		&entity.ProductItemWhMap{},
		&entity.StockMove{},
		&entity.StockLevel{},

		// System
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// usernames are unique regardless of case
	if err := db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_lower ON users (lower(username))").Error; err != nil {
		return fmt.Errorf("failed to create username index: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}

// DefaultTeamCode is the team created on an empty database.
const DefaultTeamCode = "HQ"

// SeedDefaultData seeds permissions, roles, a default team and, when
// configured, an admin account. It is safe to run on every start.
func SeedDefaultData(db *gorm.DB, admin config.AdminConfig, log *logrus.Logger) error {
	log.Info("seeding default data")

	if err := seedRBAC(db); err != nil {
		return err
	}

	var teams int64
	if err := db.Model(&entity.Team{}).Count(&teams).Error; err != nil {
		return err
	}
	if teams == 0 {
		if err := db.Create(&entity.Team{Code: DefaultTeamCode, Name: "Head Office"}).Error; err != nil {
			return fmt.Errorf("failed to create default team: %w", err)
		}
	}

	if admin.Username != "" && admin.Password != "" {
		created, err := seedAdmin(db, admin)
		if err != nil {
			log.WithError(err).Warn("failed to seed admin user")
		} else if created {
			log.WithField("username", strings.ToLower(admin.Username)).Info("admin user created")
		}
	}

	log.Info("default data seeding completed")
	return nil
}
