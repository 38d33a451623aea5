package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/b3yield/internal/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	// requestTimeout bounds every request handled by the router.
	requestTimeout = 10 * time.Second
	// maxBodyBytes fits a full price batch with room to spare.
	maxBodyBytes = 2 << 20
)

// NewRouter builds the Gin engine for the pricing API. Health probes are
// mounted separately by app.InitializeApp.
//
// Routes:
//   - POST /api/v1/bills/price, /api/v1/bonds/price
//   - POST /api/v1/bonds/cashflows
//   - POST /api/v1/yield
//   - POST /api/v1/prices/batch
//   - POST /api/v1/sweep
//   - GET  /api/v1/quotations
//   - GET  /swagger/*any
func NewRouter(handler *Handler) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.RateLimiter(),
		middleware.Timeout(requestTimeout),
	)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	pricing := v1.Group("", middleware.BodyLimit(maxBodyBytes))
	{
		pricing.POST("/bills/price", handler.PriceBill)
		pricing.POST("/bonds/price", handler.PriceBond)
		pricing.POST("/bonds/cashflows", handler.BondCashFlows)
		pricing.POST("/yield", handler.Yield)
		pricing.POST("/prices/batch", handler.PriceBatch)
		pricing.POST("/sweep", handler.Sweep)
	}
	v1.GET("/quotations", handler.GetQuotations)

	return router
}
