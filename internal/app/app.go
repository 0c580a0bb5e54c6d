package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"voltride/internal/api"
	"voltride/internal/cli"
	"voltride/internal/config"
	"voltride/internal/identity"
	"voltride/internal/session"
	"voltride/internal/storage"
	"voltride/internal/trips"
)

// App wires the client's dependency graph.
type App struct {
	store      *identity.Store
	controller *session.Controller
	rental     *api.Client
	repl       *cli.REPL
	cron       *cron.Cron
	redis      *storage.RedisStore
	timeout    time.Duration
	logger     *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	httpClient := api.NewDefaultHTTPClient(cfg.HTTPTimeout())
	rental := api.NewClient(cfg.API.BaseURL, httpClient)

	var snapshots storage.SnapshotStore
	var redisStore *storage.RedisStore
	if cfg.Snapshot.Backend == config.BackendRedis {
		store, err := storage.NewRedisStore(cfg.Snapshot.Redis.Addr, cfg.Snapshot.Redis.Password)
		if err != nil {
			return nil, err
		}
		snapshots = store
		redisStore = store
	} else {
		snapshots = storage.NewFileStore(cfg.Snapshot.Path)
	}

	store := identity.NewStore(snapshots, identity.NewSealer(cfg.Snapshot.Secret), logger)
	controller := session.NewController(store, rental, logger)
	service := trips.NewService(rental, store, controller, logger)

	a := &App{
		store:      store,
		controller: controller,
		rental:     rental,
		repl:       cli.NewREPL(service, rental, store, controller, logger),
		cron:       cron.New(),
		redis:      redisStore,
		timeout:    cfg.HTTPTimeout(),
		logger:     logger,
	}

	if _, err := a.cron.AddFunc(cfg.Refresh.CronSpec, a.refreshJob); err != nil {
		return nil, err
	}

	return a, nil
}

// Run rehydrates the session, validates it against the service, starts the
// background refresh, and hands control to the terminal front end.
func (a *App) Run(ctx context.Context) error {
	if a.store.Rehydrate(ctx) {
		checkCtx, cancel := context.WithTimeout(ctx, a.timeout)
		a.store.ValidateOnStartup(checkCtx, a.rental)
		cancel()

		if err := a.controller.RefreshActiveTrip(ctx); err != nil {
			a.logger.Warn("startup trip discovery failed", zap.Error(err))
		}
	}

	a.cron.Start()
	defer a.cron.Stop()

	return a.repl.Run(ctx)
}

// Close releases held resources.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis store", zap.Error(err))
		}
	}
}

// refreshJob keeps the tracked trip and wallet fresh while someone is logged
// in. A superseded result is discarded by the controller's provenance check.
func (a *App) refreshJob() {
	if _, ok := a.store.Current(); !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	if err := a.controller.RefreshActiveTrip(ctx); err != nil {
		a.logger.Debug("periodic trip refresh failed", zap.Error(err))
	}
}
