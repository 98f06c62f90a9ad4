package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/svs-ops-api/internal/application/service"
	"github.com/sangkips/svs-ops-api/internal/config"
	"github.com/sangkips/svs-ops-api/internal/infrastructure/database"
	"github.com/sangkips/svs-ops-api/internal/infrastructure/repository"
	"github.com/sangkips/svs-ops-api/internal/presentation/http/handler"
	"github.com/sangkips/svs-ops-api/internal/presentation/http/middleware"
	"github.com/sangkips/svs-ops-api/internal/presentation/http/routes"
	"github.com/sangkips/svs-ops-api/pkg/logger"
	"github.com/sangkips/svs-ops-api/pkg/utils"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.App.LogLevel, os.Stdout)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgresDB(&cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.WithError(err).Fatal("database handle")
	}
	defer sqlDB.Close()

	if err := database.AutoMigrate(db, log); err != nil {
		log.WithError(err).Fatal("run migrations")
	}
	if err := database.SeedDefaultData(db, cfg.Admin, log); err != nil {
		log.WithError(err).Warn("seed default data")
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.Issuer)
	settings := service.Settings{
		Location:         cfg.App.Location(),
		OperationTimeout: cfg.App.OperationTimeout,
	}

	// Repositories
	tx := repository.NewTransactor(db)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewSaleOrderRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)
	stockRepo := repository.NewStockRepository(db)
	purchaseRepo := repository.NewPurchaseOrderRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Services
	numbering := service.NewNumberingService(sequenceRepo, settings)
	authService := service.NewAuthService(userRepo, jwtManager, settings)
	userService := service.NewUserService(userRepo, roleRepo, settings)
	teamService := service.NewTeamService(teamRepo, settings)
	customerService := service.NewCustomerService(customerRepo, settings)
	productService := service.NewProductService(productRepo, teamRepo, settings)
	orderService := service.NewOrderService(tx, orderRepo, teamRepo, customerRepo, numbering, settings)
	invoiceService := service.NewInvoiceService(tx, orderRepo, invoiceRepo, numbering, settings)
	stockService := service.NewStockService(tx, productRepo, stockRepo, settings)
	purchaseService := service.NewPurchaseService(tx, purchaseRepo, teamRepo, productRepo, numbering, stockService, settings)
	dashboardService := service.NewDashboardService(orderRepo, invoiceRepo, stockRepo, settings)

	handlers := &routes.Handlers{
		Health:    handler.NewHealthHandler(cfg.App.Name, sqlDB),
		Auth:      handler.NewAuthHandler(authService),
		Team:      handler.NewTeamHandler(teamService),
		Customer:  handler.NewCustomerHandler(customerService),
		Product:   handler.NewProductHandler(productService),
		Order:     handler.NewOrderHandler(orderService, invoiceService),
		Invoice:   handler.NewInvoiceHandler(invoiceService),
		Purchase:  handler.NewPurchaseHandler(purchaseService),
		Stock:     handler.NewStockHandler(stockService),
		Report:    handler.NewReportHandler(stockService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		User:      handler.NewUserHandler(userService),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfigFor(cfg.RateLimit.Requests, cfg.RateLimit.Duration))
	go rateLimiter.Run(ctx)
	go middleware.PurgeExpiredIdempotencyKeys(ctx, idempotencyRepo, time.Hour, log)

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		Log:             log,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(map[string]interface{}{
			"service":  cfg.App.Name,
			"env":      cfg.App.Env,
			"port":     cfg.App.Port,
			"database": cfg.Database.Redacted(),
			"timezone": settings.Location.String(),
		}).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown")
	}
}
