package service

import (
	"context"
	"strings"

	"github.com/sangkips/svs-ops-api/internal/domain/entity"
	"github.com/sangkips/svs-ops-api/internal/domain/repository"
	"github.com/sangkips/svs-ops-api/pkg/apperror"
	"github.com/sangkips/svs-ops-api/pkg/utils"
)

const (
	DefaultCustomerLimit = 100
	MaxCustomerLimit     = 500
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
	settings     Settings
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository, settings Settings) *CustomerService {
	return &CustomerService{customerRepo: customerRepo, settings: settings.withDefaults()}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Code    string
	Name    string
	TaxID   *string
	Email   *string
	Phone   *string
	Address *string
}

// CreateCustomer creates a new customer. A code is generated when none is given.
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewBadRequestError("name required")
	}
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		code = utils.GenerateCode("C")
	}

	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	customer := &entity.Customer{
		Code:    code,
		Name:    name,
		TaxID:   input.TaxID,
		Email:   input.Email,
		Phone:   input.Phone,
		Address: input.Address,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, apperror.FromDB(err, "customer code already exists")
	}
	return customer, nil
}

// ListCustomers returns customers whose code or name contains search
func (s *CustomerService) ListCustomers(ctx context.Context, search string, limit int) ([]entity.Customer, error) {
	if limit <= 0 {
		limit = DefaultCustomerLimit
	}
	if limit > MaxCustomerLimit {
		limit = MaxCustomerLimit
	}

	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	customers, err := s.customerRepo.List(ctx, strings.TrimSpace(search), limit)
	if err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []entity.Customer{}
	}
	return customers, nil
}

// TeamService exposes sales teams
type TeamService struct {
	teamRepo repository.TeamRepository
	settings Settings
}

// NewTeamService creates a new team service
func NewTeamService(teamRepo repository.TeamRepository, settings Settings) *TeamService {
	return &TeamService{teamRepo: teamRepo, settings: settings.withDefaults()}
}

// ListTeams returns all teams ordered by code
func (s *TeamService) ListTeams(ctx context.Context) ([]entity.Team, error) {
	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if teams == nil {
		teams = []entity.Team{}
	}
	return teams, nil
}
