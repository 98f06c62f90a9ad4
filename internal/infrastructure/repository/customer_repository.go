package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/svs-ops-api/internal/domain/entity"
	domainRepo "github.com/sangkips/svs-ops-api/internal/domain/repository"
	"gorm.io/gorm"
)

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *gorm.DB) domainRepo.TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Team, error) {
	var team entity.Team
	err := conn(ctx, r.db).First(&team, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &team, err
}

func (r *teamRepository) List(ctx context.Context) ([]entity.Team, error) {
	var teams []entity.Team
	err := conn(ctx, r.db).Order("code").Find(&teams).Error
	return teams, err
}

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return conn(ctx, r.db).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customer entity.Customer
	err := conn(ctx, r.db).First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) List(ctx context.Context, search string, limit int) ([]entity.Customer, error) {
	var customers []entity.Customer

	query := conn(ctx, r.db).Model(&entity.Customer{})
	if search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	err := query.Order("name").Limit(limit).Find(&customers).Error
	return customers, err
}
