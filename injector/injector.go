//go:build wireinject
// +build wireinject

package injector

import (
	"github.com/google/wire"
	"github.com/safatanc/gsalt-console/internal/app/deliveries"
	"github.com/safatanc/gsalt-console/internal/app/middlewares"
	"github.com/safatanc/gsalt-console/internal/app/services"
	"github.com/safatanc/gsalt-console/internal/infrastructures"
	"github.com/safatanc/gsalt-console/pkg/ratelimit"
)

// Infrastructure providers
var infrastructureSet = wire.NewSet(
	infrastructures.NewDatabase,
	infrastructures.NewRedisClient,
	infrastructures.NewRedisStore,
	infrastructures.NewValidator,
	wire.Value("gsalt-console"),
	wire.Bind(new(ratelimit.RateLimiter), new(*ratelimit.RedisRateLimiter)),
	ratelimit.NewRedisRateLimiter,
	wire.Bind(new(services.KVStore), new(*infrastructures.RedisStore)),
)

// Service providers
var serviceSet = wire.NewSet(
	services.NewAPIClient,
	services.NewResourceRegistry,
	services.NewSessionService,
	services.NewQueryStore,
	services.NewAuditService,
	services.NewListSessionService,
)

// Middleware providers
var middlewareSet = wire.NewSet(
	middlewares.NewAuthMiddleware,
	wire.Bind(new(middlewares.SessionResolver), new(*services.SessionService)),
	middlewares.NewRateLimitMiddleware,
)

// Handler providers
var handlerSet = wire.NewSet(
	deliveries.NewHealthHandler,
	deliveries.NewListHandler,
	deliveries.NewAuditHandler,
	wire.Struct(new(Application), "*"),
)

// InitializeApplication initializes the application with all its dependencies
func InitializeApplication(config *infrastructures.AppConfig) (*Application, error) {
	wire.Build(
		infrastructureSet,
		serviceSet,
		middlewareSet,
		handlerSet,
	)
	return &Application{}, nil
}
