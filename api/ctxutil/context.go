// Package ctxutil moves request-scoped values between gin and the request
// context handed to the application layer.
package ctxutil

import (
	"storefront/domain/user"
	"storefront/infrastructure/persistence"

	"github.com/gin-gonic/gin"
)

// IdentityKey gin context key of the authenticated user.Identity
const IdentityKey = "identity"

// WithIdentity stores the authenticated caller for handlers and logging
func WithIdentity(c *gin.Context, id user.Identity) {
	c.Set(IdentityKey, id)
}

// Identity returns the caller set by the auth middleware
func Identity(c *gin.Context) (user.Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return user.Identity{}, false
	}
	id, ok := v.(user.Identity)
	return id, ok
}

// WithRequestID attaches requestID to the request context for SQL and
// service logging
func WithRequestID(c *gin.Context, requestID string) {
	c.Request = c.Request.WithContext(persistence.ContextWithRequestID(c.Request.Context(), requestID))
}
