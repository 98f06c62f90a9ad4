package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/svs-ops-api/internal/domain/entity"
	"github.com/sangkips/svs-ops-api/internal/domain/repository"
	"github.com/sangkips/svs-ops-api/pkg/apperror"
	"github.com/sangkips/svs-ops-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ProductService handles product-related operations
type ProductService struct {
	productRepo repository.ProductRepository
	teamRepo    repository.TeamRepository
	settings    Settings
}

// NewProductService creates a new product service
func NewProductService(
	productRepo repository.ProductRepository,
	teamRepo repository.TeamRepository,
	settings Settings,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		teamRepo:    teamRepo,
		settings:    settings.withDefaults(),
	}
}

// UpsertProductInput represents the upsert product input
type UpsertProductInput struct {
	SKU         string
	Name        string
	Description string
	Unit        string
	PriceExVat  decimal.Decimal
	TeamID      *uuid.UUID
}

// UpsertProduct creates a product or overwrites the one with the same SKU
func (s *ProductService) UpsertProduct(ctx context.Context, input *UpsertProductInput) (*entity.Product, error) {
	sku := strings.TrimSpace(input.SKU)
	name := strings.TrimSpace(input.Name)
	if sku == "" || name == "" {
		return nil, apperror.NewBadRequestError("sku and name required")
	}
	if input.PriceExVat.IsNegative() {
		return nil, apperror.NewBadRequestError("price_ex_vat must not be negative")
	}

	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	if input.TeamID != nil {
		team, err := s.teamRepo.GetByID(ctx, *input.TeamID)
		if err != nil {
			return nil, err
		}
		if team == nil {
			return nil, apperror.NewNotFoundError("team")
		}
	}

	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		unit = entity.DefaultUnit
	}

	product := &entity.Product{
		TeamID:      input.TeamID,
		SKU:         sku,
		Name:        name,
		Description: input.Description,
		Unit:        unit,
		PriceExVat:  input.PriceExVat,
	}
	if err := s.productRepo.Upsert(ctx, product); err != nil {
		return nil, apperror.FromDB(err, "")
	}
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("product")
	}
	return product, nil
}

// ListProducts lists a team's products ordered by SKU
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	if params.TeamID == uuid.Nil {
		return nil, apperror.NewBadRequestError("team_id required")
	}
	if params.Pagination == nil {
		params.Pagination = &pagination.PaginationParams{}
	}
	params.Pagination.Validate()
	params.Search = strings.TrimSpace(params.Search)

	ctx, cancel := s.settings.withTimeout(ctx)
	defer cancel()

	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PageSize, total)
	return pagination.NewPaginatedResult(products, pag), nil
}
