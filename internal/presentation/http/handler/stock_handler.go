package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/svs-ops-api/internal/application/service"
	"github.com/sangkips/svs-ops-api/internal/domain/entity"
	"github.com/sangkips/svs-ops-api/internal/presentation/http/dto/request"
	"github.com/sangkips/svs-ops-api/internal/presentation/http/dto/response"
	"github.com/sangkips/svs-ops-api/pkg/xlsx"
)

// StockMoveResponse acknowledges a booked stock move
type StockMoveResponse struct {
	OK   bool              `json:"ok"`
	Move *entity.StockMove `json:"move"`
}

// StockHandler handles stock ledger HTTP requests
type StockHandler struct {
	stockService *service.StockService
}

// NewStockHandler creates a new stock handler
func NewStockHandler(stockService *service.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// Levels handles reading the stock levels of a SKU
func (h *StockHandler) Levels(c *gin.Context) {
	levels, err := h.stockService.GetLevels(c.Request.Context(), c.Query("sku"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, levels)
}

// Receive handles a goods receipt
func (h *StockHandler) Receive(c *gin.Context) {
	var req request.ReceiveStockRequest
	if !bindJSON(c, &req) {
		return
	}

	move, err := h.stockService.Receive(c.Request.Context(), &service.ReceiveStockInput{
		SKU:       req.SKU,
		Qty:       req.Qty,
		UnitCost:  req.UnitCost,
		RefNo:     req.RefNo,
		Note:      req.Note,
		CreatedBy: GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, StockMoveResponse{OK: true, Move: move})
}

// Adjust handles a manual stock correction
func (h *StockHandler) Adjust(c *gin.Context) {
	var req request.AdjustStockRequest
	if !bindJSON(c, &req) {
		return
	}

	move, err := h.stockService.Adjust(c.Request.Context(), &service.AdjustStockInput{
		SKU:       req.SKU,
		Qty:       req.Qty,
		Note:      req.Note,
		CreatedBy: GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, StockMoveResponse{OK: true, Move: move})
}

// Card handles the stock card of a SKU
func (h *StockHandler) Card(c *gin.Context) {
	q, ok := bindCardQuery(c)
	if !ok {
		return
	}

	card, err := h.stockService.StockCard(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, card)
}

// ExportCard handles downloading the stock card as an .xlsx workbook
func (h *StockHandler) ExportCard(c *gin.Context) {
	q, ok := bindCardQuery(c)
	if !ok {
		return
	}

	// rendered to a buffer so a failure can still produce a JSON error
	var buf bytes.Buffer
	if err := h.stockService.ExportStockCard(c.Request.Context(), q, &buf); err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, service.StockCardFilename(q.SKU)))
	c.Data(http.StatusOK, xlsx.ContentType, buf.Bytes())
}

func bindCardQuery(c *gin.Context) (*service.StockCardQuery, bool) {
	var req request.StockCardRequest
	if !bindQuery(c, &req) {
		return nil, false
	}
	return &service.StockCardQuery{
		SKU:       req.SKU,
		Warehouse: req.Warehouse,
		DateFrom:  req.DateFrom,
		DateTo:    req.DateTo,
		Limit:     req.Limit,
	}, true
}

// ReportHandler handles read-only report HTTP requests
type ReportHandler struct {
	stockService *service.StockService
}

// NewReportHandler creates a new report handler
func NewReportHandler(stockService *service.StockService) *ReportHandler {
	return &ReportHandler{stockService: stockService}
}

// StockTrend handles the daily on-hand trend of a SKU
func (h *ReportHandler) StockTrend(c *gin.Context) {
	var req request.StockTrendRequest
	if !bindQuery(c, &req) {
		return
	}

	points, err := h.stockService.StockTrend(c.Request.Context(), req.SKU, req.Days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"sku": req.SKU, "points": points})
}

// StockBalance handles the on-hand position of every SKU
func (h *ReportHandler) StockBalance(c *gin.Context) {
	rows, err := h.stockService.StockBalance(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"rows": rows})
}

// StockValuation handles the value of the stock on hand
// @Param method query string false "fifo (default), avg or moving_avg"
func (h *ReportHandler) StockValuation(c *gin.Context) {
	report, err := h.stockService.StockValuation(c.Request.Context(), c.Query("method"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}
