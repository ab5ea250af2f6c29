package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const apiKeyHeader = "X-API-Key"

var errInvalidAPIKey = errors.New("missing or invalid API key")

// apiKeyMiddleware rejects any request whose shared-secret header does not
// match the configured key exactly. Rejection happens before any request
// processing, so an unauthorized call leaves no history record.
func apiKeyMiddleware(apiKey string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		provided := ctx.GetHeader(apiKeyHeader)
		if provided == "" || provided != apiKey {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(errInvalidAPIKey))
			return
		}
		ctx.Next()
	}
}
