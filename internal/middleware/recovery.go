package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/b3yield/internal/domain/dto"
	"github.com/guttosm/b3yield/internal/logger"
)

var errPanic = errors.New("unexpected failure while pricing")

// RecoveryMiddleware turns a panic into a 500 JSON error. The panic value
// and stack go to the log only.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Component("http").Error().
					Str("request_id", requestID(c)).
					Str("method", c.Request.Method).
					Str("path", c.FullPath()).
					Str("panic", fmt.Sprintf("%v", r)).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				c.AbortWithStatusJSON(http.StatusInternalServerError,
					dto.NewErrorResponse("Internal server error", errPanic).WithRequestID(requestID(c)))
			}
		}()

		c.Next()
	}
}
