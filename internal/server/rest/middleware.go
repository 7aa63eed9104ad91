package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/odsregistry/internal/common"
	"github.com/dmitrijs2005/odsregistry/internal/logging"
	"github.com/dmitrijs2005/odsregistry/internal/server/auth"
)

// contextIdentityKey stores the resolved auth.Identity in the gin context.
const contextIdentityKey = "auth.identity"

// RequireAuth rejects requests without a valid proof of identity.
func RequireAuth(issuer auth.Issuer, log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := issuer.Resolve(c)
		switch {
		case err == nil:
			c.Set(contextIdentityKey, id)
			c.Next()
		case errors.Is(err, common.ErrNoCredentials):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgTokenMissing})
		case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgTokenInvalid})
		default:
			log.Error(c.Request.Context(), "resolve identity failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": msgServerError})
		}
	}
}

// OptionalAuth attaches the identity when the request proves one and lets
// every request through.
func OptionalAuth(issuer auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := issuer.Resolve(c); err == nil {
			c.Set(contextIdentityKey, id)
		}
		c.Next()
	}
}

func identityFrom(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(contextIdentityKey)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}

// RequestLogger tags every request with an id, echoed in the
// X-Request-ID header, and logs it once the handler chain returns.
func RequestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(common.RequestIDHeaderName)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(common.RequestIDHeaderName, reqID)

		c.Next()

		log.Info(c.Request.Context(), "http request",
			"request_id", reqID,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
