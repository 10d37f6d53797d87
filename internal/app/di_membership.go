package app

import (
	"fmt"

	membershipHTTP "github.com/allisson/membertoken/internal/membership/http"
	membershipRepository "github.com/allisson/membertoken/internal/membership/repository"
	membershipService "github.com/allisson/membertoken/internal/membership/service"
	membershipUseCase "github.com/allisson/membertoken/internal/membership/usecase"
)

// TokenService returns the membership token service.
func (c *Container) TokenService() (membershipService.TokenService, error) {
	var err error
	c.tokenServiceInit.Do(func() {
		c.tokenService, err = c.initTokenService()
		if err != nil {
			c.setInitError("tokenService", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("tokenService"); storedErr != nil {
		return nil, storedErr
	}
	return c.tokenService, nil
}

// IssuerKeyService returns the issuer API key service.
func (c *Container) IssuerKeyService() membershipService.IssuerKeyService {
	c.issuerKeyServiceInit.Do(func() {
		c.issuerKeyService = membershipService.NewIssuerKeyService()
	})
	return c.issuerKeyService
}

// IssuanceLogRepository returns the issuance log repository based on database driver.
func (c *Container) IssuanceLogRepository() (membershipUseCase.IssuanceLogRepository, error) {
	var err error
	c.issuanceLogRepoInit.Do(func() {
		c.issuanceLogRepo, err = c.initIssuanceLogRepository()
		if err != nil {
			c.setInitError("issuanceLogRepo", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("issuanceLogRepo"); storedErr != nil {
		return nil, storedErr
	}
	return c.issuanceLogRepo, nil
}

// TokenUseCase returns the token use case.
func (c *Container) TokenUseCase() (membershipUseCase.TokenUseCase, error) {
	var err error
	c.tokenUseCaseInit.Do(func() {
		c.tokenUseCase, err = c.initTokenUseCase()
		if err != nil {
			c.setInitError("tokenUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("tokenUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.tokenUseCase, nil
}

// IssuanceLogUseCase returns the issuance log use case.
func (c *Container) IssuanceLogUseCase() (membershipUseCase.IssuanceLogUseCase, error) {
	var err error
	c.issuanceLogUseCaseInit.Do(func() {
		c.issuanceLogUseCase, err = c.initIssuanceLogUseCase()
		if err != nil {
			c.setInitError("issuanceLogUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("issuanceLogUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.issuanceLogUseCase, nil
}

// TokenHandler returns the token HTTP handler.
func (c *Container) TokenHandler() (*membershipHTTP.TokenHandler, error) {
	var err error
	c.tokenHandlerInit.Do(func() {
		c.tokenHandler, err = c.initTokenHandler()
		if err != nil {
			c.setInitError("tokenHandler", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("tokenHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.tokenHandler, nil
}

// IssuanceLogHandler returns the issuance log HTTP handler.
func (c *Container) IssuanceLogHandler() (*membershipHTTP.IssuanceLogHandler, error) {
	var err error
	c.issuanceLogHandlerInit.Do(func() {
		c.issuanceLogHandler, err = c.initIssuanceLogHandler()
		if err != nil {
			c.setInitError("issuanceLogHandler", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("issuanceLogHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.issuanceLogHandler, nil
}

// initTokenService creates the token service with the configured maximum age.
func (c *Container) initTokenService() (membershipService.TokenService, error) {
	cipher, err := c.Cipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get cipher for token service: %w", err)
	}

	var opts []membershipService.Option
	if c.config.TokenMaxAge > 0 {
		opts = append(opts, membershipService.WithMaxAge(c.config.TokenMaxAge))
	}

	return membershipService.NewTokenService(cipher, c.DigestService(), c.RandomGenerator(), opts...), nil
}

// initIssuanceLogRepository creates the issuance log repository based on the database driver.
func (c *Container) initIssuanceLogRepository() (membershipUseCase.IssuanceLogRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for issuance log repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return membershipRepository.NewPostgreSQLIssuanceLogRepository(db), nil
	case "mysql":
		return membershipRepository.NewMySQLIssuanceLogRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initTokenUseCase creates the token use case. The issuance log and its database are
// only wired when ISSUANCE_LOG_ENABLED is set.
func (c *Container) initTokenUseCase() (membershipUseCase.TokenUseCase, error) {
	tokenService, err := c.TokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to get token service for token use case: %w", err)
	}

	var baseUseCase membershipUseCase.TokenUseCase
	if c.config.IssuanceLogEnabled {
		txManager, err := c.TxManager()
		if err != nil {
			return nil, fmt.Errorf("failed to get tx manager for token use case: %w", err)
		}

		issuanceLogRepo, err := c.IssuanceLogRepository()
		if err != nil {
			return nil, fmt.Errorf("failed to get issuance log repository for token use case: %w", err)
		}

		baseUseCase = membershipUseCase.NewTokenUseCase(txManager, tokenService, c.DigestService(), issuanceLogRepo)
	} else {
		baseUseCase = membershipUseCase.NewTokenUseCase(nil, tokenService, c.DigestService(), nil)
	}

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for token use case: %w", err)
		}
		return membershipUseCase.NewTokenUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initIssuanceLogUseCase creates the issuance log use case.
func (c *Container) initIssuanceLogUseCase() (membershipUseCase.IssuanceLogUseCase, error) {
	issuanceLogRepo, err := c.IssuanceLogRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get issuance log repository for issuance log use case: %w", err)
	}

	baseUseCase := membershipUseCase.NewIssuanceLogUseCase(issuanceLogRepo)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for issuance log use case: %w", err)
		}
		return membershipUseCase.NewIssuanceLogUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initTokenHandler creates the token HTTP handler with all its dependencies.
func (c *Container) initTokenHandler() (*membershipHTTP.TokenHandler, error) {
	tokenUseCase, err := c.TokenUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get token use case for token handler: %w", err)
	}

	return membershipHTTP.NewTokenHandler(tokenUseCase, c.Logger()), nil
}

// initIssuanceLogHandler creates the issuance log HTTP handler with all its dependencies.
func (c *Container) initIssuanceLogHandler() (*membershipHTTP.IssuanceLogHandler, error) {
	issuanceLogUseCase, err := c.IssuanceLogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get issuance log use case for issuance log handler: %w", err)
	}

	return membershipHTTP.NewIssuanceLogHandler(issuanceLogUseCase, c.Logger()), nil
}
