package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/taskport/worker-match-system/config"
	"github.com/taskport/worker-match-system/internal/adapter/http/handler"
	"github.com/taskport/worker-match-system/internal/adapter/http/middleware"
	"github.com/taskport/worker-match-system/pkg/logger"
	wrap "github.com/taskport/worker-match-system/pkg/logger/wrapper"
	"github.com/taskport/worker-match-system/pkg/wsgeo"
)

const serviceName = "worker-match"

const serverIPAddress = "%s:%s"

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	cfg  config.Config
	log  logger.Logger
}

type handlers struct {
	search      *handler.Search
	location    *handler.Location
	dispatch    *handler.Dispatch
	requesterWS *handler.RequesterWS
	health      *handler.Health
}

func New(
	cfg config.Config,
	discoveryService handler.DiscoveryService,
	dispatchService handler.DispatchService,
	connHub *wsgeo.ConnectionHub,
	log logger.Logger,
) (*API, error) {
	if discoveryService == nil || dispatchService == nil {
		return nil, errors.New("discovery and dispatch services are required")
	}

	addr := fmt.Sprintf(serverIPAddress, "0.0.0.0", cfg.Server.Port)

	routes := &handlers{
		search:      handler.NewSearch(discoveryService, log),
		location:    handler.NewLocation(discoveryService, log),
		dispatch:    handler.NewDispatch(dispatchService, log),
		requesterWS: handler.NewRequesterWS(connHub, log),
		health:      handler.NewHealth(serviceName),
	}

	mid := middleware.NewMiddleware(cfg.Auth, log)

	api := &API{
		mux:    http.NewServeMux(),
		routes: routes,
		m:      mid,
		addr:   addr,
		cfg:    cfg,
		log:    log,
	}

	setupRoutes(api.mux, api.routes, api.m)

	api.server = &http.Server{
		Addr:    api.addr,
		Handler: api.withMiddleware(),
	}

	return api, nil
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// withMiddleware applies middlewares to the mux
func (a *API) withMiddleware() http.Handler {
	return a.m.Recover(a.m.RequestID(a.m.Metrics(serviceName)(a.m.Logging(a.m.Auth(a.mux)))))
}
