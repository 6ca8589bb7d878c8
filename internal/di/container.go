package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	domain "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/domain"
	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/platform/config"
	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/repositories"
	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/services"
)

// Services bundles the service-layer contracts that handlers and the scheduler rely upon.
type Services struct {
	Repricing services.RepricingService
	System    services.SystemService
}

// Dependencies are the collaborators built outside the repository registry.
type Dependencies struct {
	Logger    *zap.Logger
	Vendors   []domain.OwnVendor
	Publisher services.PriceChangePublisher
	Telemetry services.RepricingTelemetry
	Build     services.BuildInfo
}

// Container wires repositories and services for runtime use.
type Container struct {
	Config       config.Config
	Repositories repositories.Registry
	Services     Services
}

// NewContainer constructs the runtime dependencies. Tests can supply in-memory registries.
func NewContainer(_ context.Context, cfg config.Config, reg repositories.Registry, deps Dependencies) (*Container, error) {
	if reg == nil {
		return nil, errors.New("repositories registry is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	engine := services.NewRepricingEngine(services.RepricingEngineDeps{
		Logger:     logger.Named("engine"),
		StrictMode: cfg.Engine.Strict,
	})
	repricing, err := services.NewRepricingService(services.RepricingServiceDeps{
		Engine:    engine,
		Settings:  reg.VendorSettings(),
		Snapshots: reg.OfferSnapshots(),
		Audits:    reg.DecisionAudits(),
		Publisher: deps.Publisher,
		Telemetry: deps.Telemetry,
		Vendors:   deps.Vendors,
		Logger:    logger.Named("repricing"),
		Workers:   cfg.Engine.Workers,
		Clock:     time.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("build repricing service: %w", err)
	}

	svc := Services{Repricing: repricing}
	if healthRepo := reg.Health(); healthRepo != nil {
		system, err := services.NewSystemService(services.SystemServiceDeps{
			HealthRepository: healthRepo,
			Clock:            time.Now,
			Build:            deps.Build,
		})
		if err != nil {
			return nil, fmt.Errorf("build system service: %w", err)
		}
		svc.System = system
	}

	return &Container{
		Config:       cfg,
		Repositories: reg,
		Services:     svc,
	}, nil
}

// Close releases repository clients.
func (c *Container) Close(ctx context.Context) error {
	if c == nil || c.Repositories == nil {
		return nil
	}
	return c.Repositories.Close(ctx)
}
