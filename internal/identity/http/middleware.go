package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/rememberme/internal/errors"
	"github.com/allisson/rememberme/internal/httputil"
	"github.com/allisson/rememberme/internal/identity/domain"
	identityUseCase "github.com/allisson/rememberme/internal/identity/usecase"
)

// ResolveIdentityMiddleware resolves the request principal from the session cookie or
// the remember-me pair and stores it in the request context.
//
// Resolution failures never abort the request: store errors are logged and the
// request continues anonymous. Suspected theft is logged at WARN.
func ResolveIdentityMiddleware(
	useCase identityUseCase.IdentityUseCase,
	config CookieConfig,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		transport := transportFor(c, config)

		resolution, err := useCase.Resolve(ctx, transport)
		if err != nil {
			logger.ErrorContext(ctx, "identity resolution failed",
				slog.String("request_id", requestid.Get(c)),
				slog.Any("error", err))
		}

		if resolution != nil {
			switch resolution.Outcome {
			case domain.OutcomeSuspectedTheft:
				logger.WarnContext(ctx, "suspected remember-me credential theft",
					slog.String("request_id", requestid.Get(c)),
					slog.String("user_id", resolution.UserID.String()),
					slog.String("client_ip", c.ClientIP()))
			case domain.OutcomeStaleUser:
				logger.InfoContext(ctx, "identity points at a deleted user",
					slog.String("request_id", requestid.Get(c)),
					slog.String("user_id", resolution.UserID.String()))
			}

			if err == nil && resolution.Authenticated() {
				c.Request = c.Request.WithContext(WithPrincipal(ctx, resolution.Principal))
			}
		}

		c.Next()
	}
}

// RequireAuthentication rejects anonymous requests with 401 Unauthorized.
// MUST be used after ResolveIdentityMiddleware.
func RequireAuthentication(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetPrincipal(c.Request.Context()); !ok {
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects non-admin principals with 403 Forbidden and anonymous
// requests with 401 Unauthorized.
func RequireAdmin(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok {
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}
		if !principal.IsAdmin() {
			logger.Debug("admin access denied", slog.String("user_id", principal.UserID.String()))
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GuestOnly redirects authenticated requests to location with 303 See Other.
func GuestOnly(location string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetPrincipal(c.Request.Context()); ok {
			c.Redirect(http.StatusSeeOther, location)
			c.Abort()
			return
		}
		c.Next()
	}
}
