package routes

import (
	"github.com/climasgama/pos-terminal/internal/config"
	"github.com/climasgama/pos-terminal/internal/domain/entity"
	domainRepo "github.com/climasgama/pos-terminal/internal/domain/repository"
	"github.com/climasgama/pos-terminal/internal/presentation/http/handler"
	"github.com/climasgama/pos-terminal/internal/presentation/http/middleware"
	"github.com/climasgama/pos-terminal/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Catalog   *handler.CatalogHandler
	Cart      *handler.CartHandler
	Sale      *handler.SaleHandler
	Quotation *handler.QuotationHandler
	Report    *handler.ReportHandler
	Pricing   *handler.PricingHandler
	Printer   *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.UserRateLimiter
	Logger          *logrus.Logger
	// Gatherer backs /metrics when metrics are enabled.
	Gatherer prometheus.Gatherer
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	if deps.Cfg.Metrics.Enabled && deps.Gatherer != nil {
		router.GET(deps.Cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Catalog
	registerCatalogRoutes(protected, h)

	// Tickets
	registerCartRoutes(protected, h, deps)

	// Sales
	registerSaleRoutes(protected, h)

	// Quotations
	registerQuotationRoutes(protected, h)

	// Reports (Admin)
	registerReportRoutes(protected, h)

	// Margin ranges (Admin)
	registerPricingRoutes(protected, h)

	// Printer
	registerPrinterRoutes(protected, h)
}

func registerCatalogRoutes(protected *gin.RouterGroup, h *Handlers) {
	catalog := protected.Group("/catalog")
	{
		catalog.GET("", h.Catalog.List)
		catalog.POST("/refresh", h.Catalog.Refresh)
		catalog.GET("/search", h.Catalog.Search)
		catalog.GET("/lookup", h.Catalog.Lookup)
		catalog.GET("/products/:id", h.Catalog.Get)
	}
}

func registerCartRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	carts := protected.Group("/carts")
	{
		carts.POST("", h.Cart.Create)
		carts.GET("/:id", h.Cart.Get)
		carts.DELETE("/:id", h.Cart.Delete)
		carts.POST("/:id/items", h.Cart.AddItem)
		carts.PUT("/:id/items/:productId", h.Cart.SetQuantity)
		carts.DELETE("/:id/items/:productId", h.Cart.RemoveItem)
		carts.POST("/:id/clear", h.Cart.Clear)
		carts.PUT("/:id/payment", h.Cart.SetPayment)
		carts.PUT("/:id/customer", h.Cart.SetCustomer)
		// Sale submission replays the stored answer on a retried key
		carts.POST("/:id/submit", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo:     deps.IdempotencyRepo,
			Required: true,
		}), h.Cart.Submit)
		carts.POST("/:id/quotation", h.Quotation.Save)
	}
}

func registerSaleRoutes(protected *gin.RouterGroup, h *Handlers) {
	sales := protected.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		sales.GET("/:id", h.Sale.Get)
		sales.GET("/:id/receipt.pdf", h.Sale.ReceiptPDF)
		sales.POST("/:id/print", h.Sale.Print)
	}
}

func registerQuotationRoutes(protected *gin.RouterGroup, h *Handlers) {
	quotations := protected.Group("/quotations")
	{
		quotations.GET("", h.Quotation.List)
		quotations.GET("/:id", h.Quotation.Get)
		quotations.DELETE("/:id", h.Quotation.Delete)
		quotations.GET("/:id/pdf", h.Quotation.Export)
		quotations.POST("/:id/open", h.Quotation.Open)
	}
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers) {
	reports := protected.Group("/reports")
	reports.Use(middleware.RequireRole(entity.RoleAdmin))
	{
		reports.GET("/cash-cut", h.Report.CashCut)
		reports.GET("/cash-cut/export", h.Report.ExportCashCut)
		reports.GET("/inventory", h.Catalog.Inventory)
		reports.GET("/inventory/export", h.Report.ExportInventory)
	}
}

func registerPricingRoutes(protected *gin.RouterGroup, h *Handlers) {
	ranges := protected.Group("/margin-ranges")
	ranges.Use(middleware.RequireRole(entity.RoleAdmin))
	{
		ranges.GET("", h.Pricing.List)
		ranges.POST("", h.Pricing.Create)
		ranges.GET("/suggest", h.Pricing.Suggest)
		ranges.PUT("/:id", h.Pricing.Update)
		ranges.DELETE("/:id", h.Pricing.Delete)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printerGroup := protected.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/test", h.Printer.TestPrint)
		printerGroup.POST("/receipt", h.Printer.PrintReceipt)
	}
}
