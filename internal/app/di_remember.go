package app

import (
	"fmt"

	"github.com/allisson/rememberme/internal/config"
	rememberRepository "github.com/allisson/rememberme/internal/remember/repository"
	rememberService "github.com/allisson/rememberme/internal/remember/service"
	rememberUseCase "github.com/allisson/rememberme/internal/remember/usecase"
)

// CredentialService returns the service generating and verifying remember-me pairs.
func (c *Container) CredentialService() rememberService.CredentialService {
	c.credentialServiceInit.Do(func() {
		c.credentialService = rememberService.NewCredentialService()
	})
	return c.credentialService
}

// CredentialRepository returns the credential repository selected by CredentialStore and DBDriver.
func (c *Container) CredentialRepository() (rememberUseCase.CredentialRepository, error) {
	var err error
	c.credentialRepositoryInit.Do(func() {
		c.credentialRepository, err = c.initCredentialRepository()
		if err != nil {
			c.initErrors["credentialRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialRepository"]; exists {
		return nil, storedErr
	}
	return c.credentialRepository, nil
}

// RotationEngine returns the remember-me rotation engine.
func (c *Container) RotationEngine() (rememberUseCase.RotationEngine, error) {
	var err error
	c.rotationEngineInit.Do(func() {
		c.rotationEngine, err = c.initRotationEngine()
		if err != nil {
			c.initErrors["rotationEngine"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["rotationEngine"]; exists {
		return nil, storedErr
	}
	return c.rotationEngine, nil
}

func (c *Container) initCredentialRepository() (rememberUseCase.CredentialRepository, error) {
	if c.config.CredentialStore == config.CredentialStoreRedis {
		client, err := c.RedisClient()
		if err != nil {
			return nil, fmt.Errorf("failed to get redis client for credential repository: %w", err)
		}
		return rememberRepository.NewRedisCredentialRepository(client, ""), nil
	}
	if c.config.CredentialStore != config.CredentialStoreDatabase {
		return nil, fmt.Errorf("unsupported credential store: %s", c.config.CredentialStore)
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for credential repository: %w", err)
	}
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for credential repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return rememberRepository.NewPostgreSQLCredentialRepository(db, txManager), nil
	case "mysql":
		return rememberRepository.NewMySQLCredentialRepository(db, txManager), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initRotationEngine() (rememberUseCase.RotationEngine, error) {
	credentialRepository, err := c.CredentialRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential repository for rotation engine: %w", err)
	}

	engine := rememberUseCase.NewRotationEngine(
		credentialRepository,
		c.CredentialService(),
		c.config.RememberLifetime,
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for rotation engine: %w", err)
		}
		return rememberUseCase.NewRotationEngineWithMetrics(engine, businessMetrics), nil
	}

	return engine, nil
}
