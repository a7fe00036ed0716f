package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/climasgama/pos-terminal/internal/application/service"
	"github.com/climasgama/pos-terminal/internal/config"
	domainRepo "github.com/climasgama/pos-terminal/internal/domain/repository"
	"github.com/climasgama/pos-terminal/internal/infrastructure/database"
	"github.com/climasgama/pos-terminal/internal/infrastructure/metrics"
	"github.com/climasgama/pos-terminal/internal/infrastructure/repository"
	"github.com/climasgama/pos-terminal/internal/infrastructure/upstream"
	"github.com/climasgama/pos-terminal/internal/presentation/http/handler"
	"github.com/climasgama/pos-terminal/internal/presentation/http/middleware"
	"github.com/climasgama/pos-terminal/internal/presentation/http/routes"
	"github.com/climasgama/pos-terminal/pkg/layout"
	"github.com/climasgama/pos-terminal/pkg/printer"
	"github.com/climasgama/pos-terminal/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

// idle tickets are dropped after this long
const cartIdleTimeout = 12 * time.Hour

func main() {
	// Load configuration
	cfg := config.Load()
	log := config.ConfigureLogger(cfg.Log)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Shared state across terminals when redis is configured
	var (
		locker       domainRepo.Locker       = repository.NewMemoryLocker()
		catalogCache domainRepo.CatalogCache = repository.NewMemoryCatalogCache()
	)
	if cfg.Redis.Enabled() {
		client, err := database.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, using in-process locks and catalog cache")
		} else {
			defer client.Close()
			locker = repository.NewRedisLocker(client)
			catalogCache = repository.NewRedisCatalogCache(client)
		}
	}

	// Idempotency keys live in postgres when a database is configured
	idempotencyRepo := repository.NewMemoryIdempotencyRepository()
	if cfg.Database.Enabled() {
		db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to database")
		}
		if err := database.AutoMigrate(db); err != nil {
			log.WithError(err).Fatal("Failed to run migrations")
		}
		idempotencyRepo = repository.NewIdempotencyRepository(db)
	}

	// Backend client and session tokens
	backend := upstream.NewClient(&cfg.Upstream, m)
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer)
	if !jwtManager.Verifies() {
		log.Warn("JWT_SECRET not set, bearer tokens are decoded without signature checks")
	}

	// Thermal printer
	thermalPrinter, err := printer.New(printer.Config{
		Type:     cfg.Printer.Type,
		USBPath:  cfg.Printer.USBPath,
		Address:  cfg.Printer.Address,
		SpoolDir: cfg.Printer.SpoolDir,
	})
	if err != nil {
		log.WithError(err).Warn("Failed to initialize printer, printing disabled")
		thermalPrinter = printer.NewNullPrinter()
	}
	defer thermalPrinter.Close()

	// Initialize services
	measurer := layout.NewFpdfMeasurer()
	catalogService := service.NewCatalogService(backend, catalogCache, cfg.Upstream.CatalogMaxAge)
	cartService := service.NewCartService(catalogService)
	receiptService := service.NewReceiptService(&cfg.Receipt, measurer, m)
	saleService := service.NewSaleService(cartService, catalogService, backend, locker, cfg.Redis.LockTTL, receiptService, m)
	quotationService := service.NewQuotationService(backend, cartService, receiptService)
	reportService := service.NewReportService(backend, catalogService, measurer, &cfg.Receipt, m)
	pricingService := service.NewPricingService(backend)
	printerService := service.NewPrinterService(thermalPrinter, &cfg.Printer, receiptService, m)

	// Initialize handlers
	handlers := &routes.Handlers{
		Catalog:   handler.NewCatalogHandler(catalogService, cfg.Upstream.MaxSearchItems),
		Cart:      handler.NewCartHandler(cartService, saleService),
		Sale:      handler.NewSaleHandler(saleService, receiptService, printerService),
		Quotation: handler.NewQuotationHandler(quotationService),
		Report:    handler.NewReportHandler(reportService),
		Pricing:   handler.NewPricingHandler(pricingService),
		Printer:   handler.NewPrinterHandler(printerService, saleService, quotationService, receiptService),
	}

	rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfigFrom(&cfg.RateLimit))
	defer rateLimiter.Stop()

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Logger:          log,
		Gatherer:        registry,
	})

	go cleanupLoop(ctx, cartService, idempotencyRepo)

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.WithFields(logrus.Fields{
		"port":     port,
		"env":      cfg.App.Env,
		"upstream": cfg.Upstream.BaseURL,
		"printer":  cfg.Printer.Type,
	}).Infof("Starting %s server", cfg.App.Name)

	errCh := make(chan error, 1)
	go func() { errCh <- router.Run(":" + port) }()

	select {
	case err := <-errCh:
		log.WithError(err).Fatal("Failed to start server")
	case <-ctx.Done():
		log.Info("Shutting down")
	}
}

// cleanupLoop drops idle tickets and expired idempotency keys.
func cleanupLoop(ctx context.Context, carts *service.CartService, keys domainRepo.IdempotencyRepository) {
	log := config.GetLogger()
	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := carts.Sweep(cartIdleTimeout); n > 0 {
				log.WithField("carts", n).Info("idle carts dropped")
			}
			if err := keys.DeleteExpired(ctx); err != nil {
				config.LogError(log, "main", "cleanupLoop", "idempotency cleanup failed", nil, err)
			}
		}
	}
}
