package http

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/allisson/rememberme/internal/identity/domain"
)

// principalKey is a context key type for storing the resolved principal.
type principalKey struct{}

// transportKey is the gin context key holding the request's cookie transport.
const transportKey = "identity.cookie_transport"

// WithPrincipal stores the resolved principal in the context.
func WithPrincipal(ctx context.Context, principal *domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipal retrieves the resolved principal from the context.
// Returns (nil, false) for anonymous requests.
func GetPrincipal(ctx context.Context) (*domain.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(*domain.Principal)
	return principal, ok && principal != nil
}

// transportFor returns the transport created by the identity middleware, or a fresh
// one when the route is not behind it.
func transportFor(c *gin.Context, config CookieConfig) *CookieTransport {
	if value, ok := c.Get(transportKey); ok {
		if transport, ok := value.(*CookieTransport); ok {
			return transport
		}
	}
	transport := NewCookieTransport(c, config)
	c.Set(transportKey, transport)
	return transport
}
