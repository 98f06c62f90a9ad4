package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/svs-ops-api/internal/application/service"
	"github.com/sangkips/svs-ops-api/internal/presentation/http/dto/request"
	"github.com/sangkips/svs-ops-api/internal/presentation/http/dto/response"
)

// PurchaseHandler handles purchase order HTTP requests
type PurchaseHandler struct {
	purchaseService *service.PurchaseService
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(purchaseService *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// List handles listing purchase orders, newest first
// @Summary List purchase orders
// @Tags purchase-orders
// @Produce json
// @Param q query string false "Vendor or number contains"
// @Param status query string false "ordered or received"
// @Router /purchase-orders [get]
func (h *PurchaseHandler) List(c *gin.Context) {
	var filter request.PurchaseListRequest
	if !bindQuery(c, &filter) {
		return
	}

	result, err := h.purchaseService.ListPurchaseOrders(c.Request.Context(), filter.Search, filter.Status, pageParams(filter.Page, filter.PageSize))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

// Create handles creating a purchase order
// @Summary Create purchase order
// @Tags purchase-orders
// @Accept json
// @Produce json
// @Param request body request.CreatePurchaseOrderRequest true "Purchase order"
// @Param Idempotency-Key header string false "Replay protection key"
// @Router /purchase-orders [post]
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req request.CreatePurchaseOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	items := make([]service.PurchaseItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.PurchaseItemInput{ProductID: it.ProductID, Qty: it.Qty, PriceExVat: it.PriceExVat})
	}

	po, err := h.purchaseService.CreatePurchaseOrder(c.Request.Context(), &service.CreatePurchaseOrderInput{
		TeamID:    req.TeamID,
		Vendor:    req.Vendor,
		Notes:     req.Notes,
		Items:     items,
		CreatedBy: GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, po)
}

// Get handles getting a purchase order with its items
func (h *PurchaseHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	po, err := h.purchaseService.GetPurchaseOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, po)
}

// Receive handles booking a purchase order into stock. The body is optional.
func (h *PurchaseHandler) Receive(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req request.ReceivePurchaseOrderRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	receipt, err := h.purchaseService.ReceivePurchaseOrder(c.Request.Context(), &service.ReceivePurchaseOrderInput{
		ID:         id,
		Note:       req.Note,
		ReceivedBy: GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, receipt)
}
