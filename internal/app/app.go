package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taskport/worker-match-system/config"
	"github.com/taskport/worker-match-system/internal/adapter/bookingapi"
	"github.com/taskport/worker-match-system/internal/adapter/http/server"
	wshandler "github.com/taskport/worker-match-system/internal/adapter/http/ws"
	"github.com/taskport/worker-match-system/internal/adapter/locationiq"
	repo "github.com/taskport/worker-match-system/internal/adapter/postgres"
	rabbitadapter "github.com/taskport/worker-match-system/internal/adapter/rabbit"
	rediscache "github.com/taskport/worker-match-system/internal/adapter/redis"
	"github.com/taskport/worker-match-system/internal/service/discovery"
	"github.com/taskport/worker-match-system/internal/service/dispatch"
	"github.com/taskport/worker-match-system/pkg/logger"
	"github.com/taskport/worker-match-system/pkg/postgres"
	"github.com/taskport/worker-match-system/pkg/rabbit"
	"github.com/taskport/worker-match-system/pkg/wsgeo"
)

type App struct {
	postgresDB *postgres.PostgreDB
	redisDB    *goredis.Client
	rabbitMQ   *rabbit.RabbitMQ
	connHub    *wsgeo.ConnectionHub
	httpServer *server.API

	cfg config.Config
	log logger.Logger
}

func NewApplication(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	postgresDB, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		log.Error(ctx, "failed to setup database", err)
		return nil, err
	}

	redisDB := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
	})
	if err := redisDB.Ping(ctx).Err(); err != nil {
		log.Error(ctx, "failed to connect to redis", err)
		return nil, err
	}

	rabbitMQ, err := rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
	if err != nil {
		log.Error(ctx, "failed to connect to rabbitmq", err)
		return nil, err
	}

	connHub := wsgeo.NewConnHub(log)

	workerRepo := repo.NewWorkerRepo(postgresDB.Pool)
	geocoder := rediscache.NewCachedGeocoder(
		locationiq.New(cfg.Geocoder),
		redisDB,
		cfg.Redis.CacheTTL,
		log,
	)
	deviceGateway := wshandler.NewDeviceGateway(connHub)

	discoveryService := discovery.New(workerRepo, geocoder, deviceGateway, cfg.Search, log)

	bookingClient := bookingapi.New(cfg.Booking)
	outcomeProducer := rabbitadapter.NewDispatchProducer(rabbitMQ)
	dispatchService := dispatch.New(workerRepo, bookingClient, outcomeProducer, cfg.Dispatch, log)

	httpServer, err := server.New(cfg, discoveryService, dispatchService, connHub, log)
	if err != nil {
		log.Error(ctx, "failed to setup http server", err)
		return nil, err
	}

	return &App{
		postgresDB: postgresDB,
		redisDB:    redisDB,
		rabbitMQ:   rabbitMQ,
		connHub:    connHub,
		httpServer: httpServer,
		cfg:        cfg,
		log:        log,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.httpServer.Run(ctx, errCh)
	defer func() {
		a.close(ctx)
		a.log.Info(ctx, "worker-match service closed")
	}()

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	a.log.Info(ctx, "worker-match service started")

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		a.log.Info(ctx, "shutting down application", "signal", sig.String())
		return nil
	}
}

func (a *App) close(ctx context.Context) {
	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			a.log.Warn(ctx, "failed to gracefully close http server", "error", err.Error())
		}
	}

	if a.connHub != nil {
		a.connHub.Close()
	}

	if a.rabbitMQ != nil {
		if err := a.rabbitMQ.Close(ctx); err != nil {
			a.log.Warn(ctx, "failed to gracefully close rabbitmq", "error", err.Error())
		}
	}

	if a.redisDB != nil {
		if err := a.redisDB.Close(); err != nil {
			a.log.Warn(ctx, "failed to close redis client", "error", err.Error())
		}
	}

	if a.postgresDB != nil && a.postgresDB.Pool != nil {
		a.postgresDB.Pool.Close()
	}
}
