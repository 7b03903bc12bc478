package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/renovia/pos-ledger-api/internal/config"
	domainRepo "github.com/renovia/pos-ledger-api/internal/domain/repository"
	"github.com/renovia/pos-ledger-api/internal/presentation/http/handler"
	"github.com/renovia/pos-ledger-api/internal/presentation/http/middleware"
	"github.com/renovia/pos-ledger-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Product   *handler.ProductHandler
	Sale      *handler.SaleHandler
	Return    *handler.ReturnHandler
	Invoice   *handler.InvoiceHandler
	Dashboard *handler.DashboardHandler
	Report    *handler.ReportHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Everything behind seller authentication
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-seller rate limiter
		rateLimiter := middleware.NewSellerRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerProtectedRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotency := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
	})

	products := rg.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/low-stock", h.Product.LowStock)
		products.GET("/:id", h.Product.Get)
		products.POST("", h.Product.Create)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
		products.POST("/:id/adjust-stock", h.Product.AdjustStock)
	}

	sales := rg.Group("/sales")
	{
		// A replayed sale must not debit stock twice
		sales.POST("", idempotency, h.Sale.Create)
		sales.GET("", h.Sale.List)
		sales.GET("/:id", h.Sale.Get)
		sales.GET("/:id/receipt", h.Sale.Receipt)
		sales.PATCH("/:id/refund", h.Sale.Refund)
	}

	returns := rg.Group("/returns")
	{
		returns.POST("", idempotency, h.Return.Create)
		returns.GET("", h.Return.List)
		returns.GET("/:id", h.Return.Get)
		returns.PATCH("/:id/approve", h.Return.Approve)
		returns.PATCH("/:id/reject", h.Return.Reject)
		returns.PATCH("/:id/complete", h.Return.Complete)
	}

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", idempotency, h.Invoice.Create)
		invoices.GET("", h.Invoice.List)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.PATCH("/:id", h.Invoice.Update)
		invoices.PATCH("/:id/send", h.Invoice.Send)
		invoices.PATCH("/:id/pay", h.Invoice.Pay)
		invoices.PATCH("/:id/cancel", h.Invoice.Cancel)
	}

	rg.GET("/dashboard", h.Dashboard.Stats)
	rg.GET("/reports", h.Report.Get)
	rg.GET("/accounting/export", h.Report.Export)
}
