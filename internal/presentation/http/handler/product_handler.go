package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/svs-ops-api/internal/application/service"
	"github.com/sangkips/svs-ops-api/internal/domain/repository"
	"github.com/sangkips/svs-ops-api/internal/presentation/http/dto/request"
	"github.com/sangkips/svs-ops-api/internal/presentation/http/dto/response"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List handles listing the products of a team
func (h *ProductHandler) List(c *gin.Context) {
	var filter request.ProductFilterRequest
	if !bindQuery(c, &filter) {
		return
	}

	params := &repository.ProductFilterParams{
		Pagination: pageParams(filter.Page, filter.PageSize),
		Search:     filter.Search,
	}
	if filter.TeamID != "" {
		teamID, err := uuid.Parse(filter.TeamID)
		if err != nil {
			response.BadRequest(c, "team_id must be a UUID")
			return
		}
		params.TeamID = teamID
	}

	result, err := h.productService.ListProducts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

// Upsert handles creating or replacing a product by SKU
func (h *ProductHandler) Upsert(c *gin.Context) {
	var req request.UpsertProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.UpsertProduct(c.Request.Context(), &service.UpsertProductInput{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Unit:        req.Unit,
		PriceExVat:  req.PriceExVat,
		TeamID:      req.TeamID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, product)
}

// Get handles getting a single product
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, product)
}
