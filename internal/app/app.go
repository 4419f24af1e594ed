package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"roadwatch/internal/cache"
	"roadwatch/internal/config"
	"roadwatch/internal/db"
	httpserver "roadwatch/internal/http"
	"roadwatch/internal/http/handlers"
	"roadwatch/internal/repository"
	"roadwatch/internal/service"
	"roadwatch/internal/ws"
)

const (
	subscriberPingInterval = 30 * time.Second
	subscriberWriteTimeout = 10 * time.Second
	schemaTimeout          = 10 * time.Second
)

// App wires roadwatch dependencies.
type App struct {
	server   *httpserver.Server
	registry *ws.Registry
	db       *sql.DB
	redis    *redis.Client
	logger   *zap.Logger
}

// New constructs application components.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(cfg.Database.DSN, db.Pool{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return nil, err
	}

	recordRepo := repository.NewRecordRepository(sqlDB)

	schemaCtx, cancel := context.WithTimeout(context.Background(), schemaTimeout)
	defer cancel()
	if err := recordRepo.EnsureSchema(schemaCtx); err != nil {
		sqlDB.Close()
		return nil, err
	}

	var (
		redisClient *redis.Client
		recordCache service.RecordCache
	)
	if cfg.Redis.Addr != "" {
		redisClient, err = cache.NewClient(cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			logger.Warn("redis unavailable, running without record cache", zap.Error(err))
		} else {
			recordCache = cache.NewRecordCache(redisClient, time.Duration(cfg.Redis.CacheTTLHours)*time.Hour)
		}
	}

	registry := ws.NewRegistry(subscriberPingInterval)
	dispatcher := ws.NewDispatcher(registry, logger)
	streamServer := ws.NewServer(registry, subscriberWriteTimeout, logger)

	recordsService := service.NewRecordsService(recordRepo, dispatcher, recordCache, logger)

	routes := httpserver.Routes{
		Records: handlers.NewRecordsHandler(recordsService, logger),
		Stream:  streamServer.HandleWS,
		Health:  handlers.NewHealthHandler(),
	}

	router := httpserver.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server:   server,
		registry: registry,
		db:       sqlDB,
		redis:    redisClient,
		logger:   logger,
	}, nil
}

// Run starts the keep-alive loop and serves HTTP requests until ctx ends.
func (a *App) Run(ctx context.Context) error {
	go a.registry.Start(ctx)
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis client", zap.Error(err))
		}
	}
}
