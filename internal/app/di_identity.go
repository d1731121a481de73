package app

import (
	"fmt"

	"github.com/allisson/rememberme/internal/http"
	identityHTTP "github.com/allisson/rememberme/internal/identity/http"
	identityUseCase "github.com/allisson/rememberme/internal/identity/usecase"
	sessionRepository "github.com/allisson/rememberme/internal/session/repository"
)

// SessionRepository returns the Redis-backed session store.
func (c *Container) SessionRepository() (*sessionRepository.RedisSessionRepository, error) {
	var err error
	c.sessionRepositoryInit.Do(func() {
		c.sessionRepository, err = c.initSessionRepository()
		if err != nil {
			c.initErrors["sessionRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionRepository"]; exists {
		return nil, storedErr
	}
	return c.sessionRepository, nil
}

// IdentityUseCase returns the identity resolver combining sessions, credentials and users.
func (c *Container) IdentityUseCase() (identityUseCase.IdentityUseCase, error) {
	var err error
	c.identityUseCaseInit.Do(func() {
		c.identityUseCase, err = c.initIdentityUseCase()
		if err != nil {
			c.initErrors["identityUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["identityUseCase"]; exists {
		return nil, storedErr
	}
	return c.identityUseCase, nil
}

// AuthHandler returns the login/logout HTTP handler.
func (c *Container) AuthHandler() (*identityHTTP.AuthHandler, error) {
	var err error
	c.authHandlerInit.Do(func() {
		c.authHandler, err = c.initAuthHandler()
		if err != nil {
			c.initErrors["authHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authHandler"]; exists {
		return nil, storedErr
	}
	return c.authHandler, nil
}

func (c *Container) initSessionRepository() (*sessionRepository.RedisSessionRepository, error) {
	client, err := c.RedisClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get redis client for session repository: %w", err)
	}
	return sessionRepository.NewRedisSessionRepository(client, "", c.config.SessionLifetime), nil
}

func (c *Container) initIdentityUseCase() (identityUseCase.IdentityUseCase, error) {
	engine, err := c.RotationEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to get rotation engine for identity use case: %w", err)
	}

	sessions, err := c.SessionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get session repository for identity use case: %w", err)
	}

	users, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for identity use case: %w", err)
	}

	baseUseCase := identityUseCase.NewIdentityUseCase(engine, sessions, users)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for identity use case: %w", err)
		}
		return identityUseCase.NewIdentityUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initAuthHandler() (*identityHTTP.AuthHandler, error) {
	useCase, err := c.IdentityUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get identity use case for auth handler: %w", err)
	}
	return identityHTTP.NewAuthHandler(useCase, http.CookieConfigFrom(c.config), c.Logger()), nil
}
