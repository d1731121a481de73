// Package http provides the HTTP server, its router and cross-cutting middleware.
package http

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/allisson/rememberme/internal/config"
	identityHTTP "github.com/allisson/rememberme/internal/identity/http"
	identityUseCase "github.com/allisson/rememberme/internal/identity/usecase"
	"github.com/allisson/rememberme/internal/metrics"
	userHTTP "github.com/allisson/rememberme/internal/user/http"
)

const readinessTimeout = 2 * time.Second

// Server is the public HTTP server.
type Server struct {
	db          *sql.DB
	redisClient redis.UniversalClient
	server      *http.Server
	logger      *slog.Logger
	router      *gin.Engine
}

// NewServer creates the HTTP server. The router is attached by SetupRouter.
func NewServer(
	db *sql.DB,
	redisClient redis.UniversalClient,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:          db,
		redisClient: redisClient,
		logger:      logger,
		server:      newHTTPServer(host, port),
	}
}

// SetupRouter registers middleware and routes.
//
// Every route except the probes runs behind identity resolution, so a valid session
// or remember-me pair is honored (and rotated) before any handler executes.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	identity identityUseCase.IdentityUseCase,
	authHandler *identityHTTP.AuthHandler,
	userHandler *userHTTP.UserHandler,
	metricsProvider *metrics.Provider,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if cors := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); cors != nil {
		router.Use(cors)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	app := router.Group("/")
	app.Use(identityHTTP.ResolveIdentityMiddleware(identity, CookieConfigFrom(cfg), s.logger))

	guest := app.Group("/")
	guest.Use(identityHTTP.GuestOnly("/profile"))
	{
		guest.POST("/register", userHandler.RegisterHandler)

		login := []gin.HandlerFunc{}
		if cfg.RateLimitLoginEnabled {
			login = append(login, identityHTTP.LoginRateLimitMiddleware(
				ctx,
				cfg.RateLimitLoginRequestsPerSec,
				cfg.RateLimitLoginBurst,
				s.logger,
			))
		}
		login = append(login, authHandler.LoginHandler)
		guest.POST("/login", login...)
	}

	app.POST("/logout", authHandler.LogoutHandler)

	authenticated := app.Group("/")
	authenticated.Use(identityHTTP.RequireAuthentication(s.logger))
	{
		authenticated.POST("/logout/all", authHandler.LogoutEverywhereHandler)
		authenticated.GET("/session", authHandler.WhoAmIHandler)
		authenticated.GET("/profile", userHandler.GetProfileHandler)
		authenticated.PUT("/profile", userHandler.UpdateProfileHandler)
	}

	admin := app.Group("/")
	admin.Use(identityHTTP.RequireAdmin(s.logger))
	{
		admin.GET("/users", userHandler.ListHandler)
	}

	s.router = router
}

// CookieConfigFrom maps configuration onto the identity cookie settings.
func CookieConfigFrom(cfg *config.Config) identityHTTP.CookieConfig {
	return identityHTTP.CookieConfig{
		SessionName: cfg.SessionCookieName,
		TokenName:   cfg.RememberTokenCookieName,
		SecretName:  cfg.RememberSecretCookieName,
		Domain:      cfg.CookieDomain,
		Secure:      cfg.CookieSecure,
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the database and Redis are reachable.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	components := gin.H{"database": "ok", "redis": "ok"}
	ready := true

	if s.db == nil || s.db.PingContext(ctx) != nil {
		components["database"] = "error"
		ready = false
	}
	if s.redisClient == nil || s.redisClient.Ping(ctx).Err() != nil {
		components["redis"] = "error"
		ready = false
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router
	return listenAndServe(s.server, "http server", s.logger)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
