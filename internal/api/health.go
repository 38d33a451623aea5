package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/b3yield/internal/numeric"
)

// readyTimeout bounds the store check behind /readyz.
const readyTimeout = 2 * time.Second

// HealthHandler serves /healthz and /readyz. Readiness depends on the
// quotation store and reports the calendars and decimal precision the
// pricing engine was started with.
type HealthHandler struct {
	ping      func(ctx context.Context) error
	calendars []string
}

// NewHealthHandler builds a HealthHandler. ping is usually db.PingContext;
// nil skips the store check.
func NewHealthHandler(ping func(ctx context.Context) error, calendars ...string) *HealthHandler {
	return &HealthHandler{ping: ping, calendars: calendars}
}

// Register mounts the probes on r.
func (h *HealthHandler) Register(r *gin.Engine) {
	// @Summary      Liveness probe
	// @Description  Always returns OK if the service is running
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]string
	// @Router       /healthz [get]
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// @Summary      Readiness probe
	// @Description  Returns ready when the quotation store answers
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]interface{}
	// @Failure      503  {object}  map[string]string
	// @Router       /readyz [get]
	r.GET("/readyz", func(c *gin.Context) {
		if h.ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
			defer cancel()
			if err := h.ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "reason": "quotation store unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":            "ready",
			"calendars":         h.calendars,
			"decimal_precision": numeric.DecimalPrecision,
		})
	})
}
