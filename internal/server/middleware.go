package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/manav03panchal/jobtrack/internal/auth"
	"github.com/manav03panchal/jobtrack/internal/logging"
)

// ctxUserKey holds the authenticated user id in the gin context.
const ctxUserKey = "jobtrack.user"

// requestIDHeader is echoed back on every response.
const requestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an id and logs it once it completes.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = logging.GenerateRequestID()
		}
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), id))

		c.Next()

		log := logging.FromContext(c.Request.Context())
		args := []any{
			logging.KeyMethod, c.Request.Method,
			logging.KeyPath, c.FullPath(),
			logging.KeyStatus, c.Writer.Status(),
			logging.KeyDuration, time.Since(start),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Error("request failed", args...)
			return
		}
		log.Info("request", args...)
	}
}

// Authenticate rejects requests without a valid bearer token and records the
// token subject as the requesting user. A nil validator rejects everything.
func Authenticate(v *auth.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" || v == nil {
			unauthorized(c)
			return
		}

		claims, err := v.Validate(strings.TrimSpace(token))
		if err != nil {
			logging.FromContext(c.Request.Context()).Debug("token rejected", logging.KeyError, err)
			unauthorized(c)
			return
		}

		c.Set(ctxUserKey, claims.Subject)
		c.Request = c.Request.WithContext(logging.WithUserID(c.Request.Context(), claims.Subject))
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
}

// currentUser returns the id set by Authenticate.
func currentUser(c *gin.Context) string {
	return c.GetString(ctxUserKey)
}
