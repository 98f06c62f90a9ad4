package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/svs-ops-api/internal/application/service"
	"github.com/sangkips/svs-ops-api/internal/presentation/http/dto/request"
	"github.com/sangkips/svs-ops-api/internal/presentation/http/dto/response"
)

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// List handles listing customers
func (h *CustomerHandler) List(c *gin.Context) {
	var filter request.CustomerFilterRequest
	if !bindQuery(c, &filter) {
		return
	}

	customers, err := h.customerService.ListCustomers(c.Request.Context(), filter.Search, filter.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, customers)
}

// Create handles creating a customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var req request.CreateCustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), &service.CreateCustomerInput{
		Code:    req.Code,
		Name:    req.Name,
		TaxID:   req.TaxID,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, customer)
}

// TeamHandler handles team-related HTTP requests
type TeamHandler struct {
	teamService *service.TeamService
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teamService *service.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// List handles listing teams
func (h *TeamHandler) List(c *gin.Context) {
	teams, err := h.teamService.ListTeams(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, teams)
}
