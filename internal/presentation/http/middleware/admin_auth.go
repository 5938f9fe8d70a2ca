// Package middleware provides HTTP middleware for the presentation layer.
package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studio-one/portfolio-api/internal/domain/user"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/logging"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/performance"
)

const identityKey = "identity"

// AdminAuthorizer resolves an Authorization header to a privileged caller.
type AdminAuthorizer interface {
	AuthorizeAdmin(header string) (user.Identity, error)
}

// AdminAuthMiddleware rejects callers without a valid token (401) or without
// admin rights (403) and stores the identity for handlers.
func AdminAuthMiddleware(auth AdminAuthorizer, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		marker := perfTracker.StartOperation("middleware_admin_auth", "unknown")
		defer marker.Complete()
		marker.AddMetadata("path", c.Request.URL.Path)
		marker.AddMetadata("method", c.Request.Method)

		identity, err := auth.AuthorizeAdmin(c.GetHeader("Authorization"))
		if err != nil {
			marker.SetError(err)
			status, msg := http.StatusUnauthorized, "Authentication required"
			if errors.Is(err, user.ErrForbidden) {
				status, msg = http.StatusForbidden, "Admin access required"
			}
			logger.Auth().Warn("Admin route rejected",
				"path", c.Request.URL.Path,
				"status", status,
				"requestId", GetRequestID(c))
			c.AbortWithStatusJSON(status, gin.H{"error": msg})
			return
		}

		marker.ActorID = identity.ID
		logger.Auth().Debug("Admin identity resolved", "userId", identity.ID, "role", identity.Role, "duration", time.Since(start))
		c.Set(identityKey, identity)
		c.Next()
	}
}

// GetIdentity retrieves the caller stored by AdminAuthMiddleware.
func GetIdentity(c *gin.Context) (user.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return user.Identity{}, false
	}
	identity, ok := value.(user.Identity)
	return identity, ok
}
