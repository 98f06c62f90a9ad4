package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/svs-ops-api/internal/config"
	"github.com/sangkips/svs-ops-api/internal/domain/enum"
	domainRepo "github.com/sangkips/svs-ops-api/internal/domain/repository"
	"github.com/sangkips/svs-ops-api/internal/presentation/http/handler"
	"github.com/sangkips/svs-ops-api/internal/presentation/http/middleware"
	"github.com/sangkips/svs-ops-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	Team      *handler.TeamHandler
	Customer  *handler.CustomerHandler
	Product   *handler.ProductHandler
	Order     *handler.OrderHandler
	Invoice   *handler.InvoiceHandler
	Purchase  *handler.PurchaseHandler
	Stock     *handler.StockHandler
	Report    *handler.ReportHandler
	Dashboard *handler.DashboardHandler
	User      *handler.UserHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	Log             *logrus.Logger
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.UserRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.RecoveryMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	api := router.Group("/api")
	{
		api.GET("/health", h.Health.Check)
		api.POST("/auth/login", h.Auth.Login)
		api.GET("/auth/me", h.Auth.Me)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
		Log:  deps.Log,
	})

	protected.POST("/auth/change-password", h.Auth.ChangePassword)

	protected.GET("/teams", h.Team.List)

	protected.GET("/customers", h.Customer.List)
	protected.POST("/customers", middleware.RequirePermission(enum.PermCustomerManage), h.Customer.Create)

	registerProductRoutes(protected, h)

	registerOrderRoutes(protected.Group("/sales-orders"), h, idempotent)
	legacy := protected.Group("/sale-orders")
	legacy.Use(middleware.Deprecated())
	registerOrderRoutes(legacy, h, idempotent)

	registerInvoiceRoutes(protected, h, idempotent)
	registerPurchaseRoutes(protected, h, idempotent)
	registerStockRoutes(protected, h)
	registerReportRoutes(protected, h)

	protected.GET("/dashboard/summary", middleware.RequirePermission(enum.PermDashView), h.Dashboard.Summary)

	registerUserRoutes(protected, h)
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	view := middleware.RequirePermission(enum.PermProductView)
	manage := middleware.RequirePermission(enum.PermProductManage)

	products := protected.Group("/products")
	{
		products.GET("", view, h.Product.List)
		products.POST("", manage, h.Product.Upsert)
		products.GET("/:id", view, h.Product.Get)
	}
}

func registerOrderRoutes(orders *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	view := middleware.RequirePermission(enum.PermSOView)

	orders.GET("", view, h.Order.List)
	orders.POST("", middleware.RequirePermission(enum.PermSOCreate), idempotent, h.Order.Create)
	orders.GET("/:id", view, h.Order.Get)
	orders.POST("/:id/confirm", middleware.RequirePermission(enum.PermSOConfirm), h.Order.Confirm)
	orders.POST("/:id/issue-iv", middleware.RequirePermission(enum.PermIVCreate), idempotent, h.Order.IssueInvoice)
}

func registerInvoiceRoutes(protected *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	view := middleware.RequirePermission(enum.PermIVView)

	invoices := protected.Group("/invoices")
	{
		invoices.GET("", view, h.Invoice.List)
		invoices.POST("", middleware.RequirePermission(enum.PermIVCreate), idempotent, h.Invoice.Create)
		invoices.GET("/:id", view, h.Invoice.Get)
	}
}

func registerPurchaseRoutes(protected *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	view := middleware.RequirePermission(enum.PermPOView)

	pos := protected.Group("/purchase-orders")
	{
		pos.GET("", view, h.Purchase.List)
		pos.POST("", middleware.RequirePermission(enum.PermPOCreate), idempotent, h.Purchase.Create)
		pos.GET("/:id", view, h.Purchase.Get)
		pos.POST("/:id/receive", middleware.RequirePermission(enum.PermPOReceive), h.Purchase.Receive)
	}
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers) {
	reports := protected.Group("/reports")
	reports.Use(middleware.RequirePermission(enum.PermReportView))
	{
		reports.GET("/stock-trend", h.Report.StockTrend)
		reports.GET("/stock/balance", h.Report.StockBalance)
		reports.GET("/stock/valuation", h.Report.StockValuation)
	}
}

func registerStockRoutes(protected *gin.RouterGroup, h *Handlers) {
	view := middleware.RequirePermission(enum.PermStockView)

	protected.GET("/stock-levels", view, h.Stock.Levels)

	stock := protected.Group("/stock")
	{
		stock.POST("/in", middleware.RequirePermission(enum.PermStockReceive), h.Stock.Receive)
		stock.POST("/adj", middleware.RequirePermission(enum.PermStockAdjust), h.Stock.Adjust)
		stock.GET("/card", view, h.Stock.Card)
		stock.GET("/card/export", view, h.Stock.ExportCard)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	view := middleware.RequirePermission(enum.PermUserView)
	manage := middleware.RequirePermission(enum.PermUserManage)

	users := protected.Group("/users")
	{
		users.GET("", view, h.User.List)
		users.POST("", manage, h.User.Create)
		users.PATCH("/:id", manage, h.User.Update)
		users.DELETE("/:id", manage, h.User.Delete)
		users.PUT("/:id/roles", manage, h.User.SetRoles)
	}
	protected.GET("/roles", view, h.User.ListRoles)
}
