package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/svs-ops-api/internal/application/service"
	"github.com/sangkips/svs-ops-api/internal/presentation/http/dto/request"
	"github.com/sangkips/svs-ops-api/internal/presentation/http/dto/response"
)

// OrderHandler handles sale order HTTP requests
type OrderHandler struct {
	orderService   *service.OrderService
	invoiceService *service.InvoiceService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService, invoiceService *service.InvoiceService) *OrderHandler {
	return &OrderHandler{orderService: orderService, invoiceService: invoiceService}
}

// List handles listing sale orders, newest first
// @Summary List sale orders
// @Tags sales-orders
// @Produce json
// @Param status query string false "draft or confirmed"
// @Router /sales-orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var filter request.ListFilterRequest
	if !bindQuery(c, &filter) {
		return
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), filter.Status, pageParams(filter.Page, filter.PageSize))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

// Create handles creating a draft sale order
// @Summary Create sale order
// @Tags sales-orders
// @Accept json
// @Produce json
// @Param request body request.CreateOrderRequest true "Order"
// @Param Idempotency-Key header string false "Replay protection key"
// @Router /sales-orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req request.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	items := make([]service.OrderItemInput, 0, len(req.Items))
	for i := range req.Items {
		it := &req.Items[i]
		items = append(items, service.OrderItemInput{
			ProductID:   it.ProductID,
			Description: it.Description,
			Qty:         it.Qty,
			Unit:        it.Unit,
			UnitPrice:   it.Price(),
		})
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &service.CreateOrderInput{
		TeamID:     req.TeamID,
		CustomerID: req.CustomerID,
		Currency:   req.Currency,
		Items:      items,
		CreatedBy:  GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, order)
}

// Get handles getting a sale order with its items
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, order)
}

// Confirm handles moving a draft order to confirmed
func (h *OrderHandler) Confirm(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	order, err := h.orderService.ConfirmOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, order)
}

// IssueInvoice handles issuing an invoice for the order in the path
func (h *OrderHandler) IssueInvoice(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req request.IssueInvoiceRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	req.SOID = id

	issueInvoice(c, h.invoiceService, &req)
}

// InvoiceHandler handles invoice HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Create handles issuing an invoice for the order named in the body
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req request.IssueInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}
	issueInvoice(c, h.invoiceService, &req)
}

func issueInvoice(c *gin.Context, svc *service.InvoiceService, req *request.IssueInvoiceRequest) {
	lines := make([]service.InvoiceLineInput, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, service.InvoiceLineInput{SaleOrderItemID: it.SOItemID, Qty: it.Qty})
	}

	invoice, err := svc.IssueInvoice(c.Request.Context(), &service.IssueInvoiceInput{
		SaleOrderID: req.SOID,
		Type:        req.Type,
		Status:      req.Status,
		Items:       lines,
		CreatedBy:   GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, invoice)
}

// List handles listing invoices, optionally for one sale order
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter request.ListFilterRequest
	if !bindQuery(c, &filter) {
		return
	}

	var soID *uuid.UUID
	if filter.SOID != "" {
		id, err := uuid.Parse(filter.SOID)
		if err != nil {
			response.BadRequest(c, "so_id must be a UUID")
			return
		}
		soID = &id
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), filter.Status, soID, pageParams(filter.Page, filter.PageSize))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

// Get handles getting an invoice with its items
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, invoice)
}
