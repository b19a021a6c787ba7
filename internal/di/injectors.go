//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"signin/internal"
	"signin/internal/controllers"
	"signin/internal/models"
	"signin/internal/providers"
	"signin/internal/remote"
	"signin/internal/services"
	"signin/internal/storage"
	"signin/internal/structures"
)

var coreSet = wire.NewSet(
	providers.NewConfigProvider,
	providers.NewLogProvider,
	providers.NewMetricsProvider,

	storage.NewCompressor,
	storage.NewKeyValueStore,
	models.NewRecordStore,
	models.NewProfileStore,
	remote.NewForwarder,
	services.NewIdentifierClock,
	services.ProvideSignInService,

	wire.Bind(new(services.RecordStoreInterface), new(*models.RecordStore)),
	wire.Bind(new(services.ProfileStoreInterface), new(*models.ProfileStore)),
	wire.Bind(new(services.ForwarderInterface), new(*remote.Forwarder)),
	wire.Bind(new(services.SignInServiceInterface), new(*services.SignInService)),
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		coreSet,
		providers.NewInstrumentedCacheProvider,

		controllers.NewSignInController,
		controllers.NewProfileController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewHandler,
		internal.NewApp,
	)

	return nil, nil
}

func InitCore(cfg *structures.CliFlags) (*Core, error) {

	wire.Build(
		coreSet,
		wire.Struct(new(Core), "*"),
	)

	return nil, nil
}
