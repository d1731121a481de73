package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/rememberme/internal/errors"
	"github.com/allisson/rememberme/internal/httputil"
	"github.com/allisson/rememberme/internal/identity/http/dto"
	identityUseCase "github.com/allisson/rememberme/internal/identity/usecase"
	customValidation "github.com/allisson/rememberme/internal/validation"
)

// AuthHandler handles login and logout.
type AuthHandler struct {
	identityUseCase identityUseCase.IdentityUseCase
	cookies         CookieConfig
	logger          *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(
	useCase identityUseCase.IdentityUseCase,
	cookies CookieConfig,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		identityUseCase: useCase,
		cookies:         cookies,
		logger:          logger,
	}
}

// LoginHandler authenticates with email and password.
// POST /login - Guest only. Sets the session cookie and, when remember is true, the
// token and secret cookies. Returns 200 OK with the principal.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	principal, err := h.identityUseCase.Login(
		c.Request.Context(),
		transportFor(c, h.cookies),
		identityUseCase.LoginInput{
			Email:    req.Email,
			Password: req.Password,
			Remember: req.Remember,
		},
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPrincipalToResponse(principal))
}

// LogoutHandler ends the current session and revokes every remember-me credential of
// the principal.
// POST /logout - Returns 204 No Content once the session is destroyed.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	principal, _ := GetPrincipal(c.Request.Context())

	if err := h.identityUseCase.Logout(c.Request.Context(), transportFor(c, h.cookies), principal); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// LogoutEverywhereHandler additionally destroys every other session of the principal.
// POST /logout/all - Requires authentication. Returns 204 No Content.
func (h *AuthHandler) LogoutEverywhereHandler(c *gin.Context) {
	principal, ok := GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	err := h.identityUseCase.LogoutEverywhere(c.Request.Context(), transportFor(c, h.cookies), principal)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// WhoAmIHandler returns the principal of the request.
// GET /session - Requires authentication.
func (h *AuthHandler) WhoAmIHandler(c *gin.Context) {
	principal, ok := GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPrincipalToResponse(principal))
}
