package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/b3yield/internal/domain/dto"
	"github.com/guttosm/b3yield/internal/logger"
)

// ErrorHandler renders errors attached with c.Error as a 500 JSON response
// when the handler did not write a body itself.
var ErrorHandler gin.HandlerFunc = func(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}
	err := c.Errors.Last().Err
	logger.L().Error().
		Str("request_id", requestID(c)).
		Str("path", c.Request.URL.Path).
		Err(err).
		Msg("unhandled error")
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", err).WithRequestID(requestID(c)))
}

// AbortWithError stops the chain and writes a JSON error carrying the request id.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		logger.L().Error().Str("request_id", requestID(c)).Int("status", status).Err(err).Msg(message)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err).WithRequestID(requestID(c)))
}

func requestID(c *gin.Context) string {
	rid, _ := c.Get(RequestIDKey)
	return toString(rid)
}
