package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"signin/internal/controllers"
	"signin/internal/providers"
	"signin/internal/remote"
	"signin/internal/storage/interfaces"
	"signin/internal/structures"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	WebServer *http.Server
	conf      *structures.Config
	logger    providers.Logger
	store     interfaces.KeyValueStore
}

// NewHandler assembles the HTTP handler tree: request ids and access logs
// wrap everything, metrics wrap only the API routes.
func NewHandler(healthController *controllers.HealthController, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) http.Handler {
	// Inner mux: API routes
	apiMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		apiMux.Handle(route.Url, route.Handler)
	}

	// Wrap API routes with metrics middleware
	instrumentedAPI := providers.MetricsMiddleware(metrics, apiMux)

	// Outer mux: infrastructure + instrumented API
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)

	return providers.RequestIDMiddleware(providers.AccessLogMiddleware(logger, mux))
}

func NewApp(handler http.Handler, conf *structures.Config, logger providers.Logger, store interfaces.KeyValueStore) *App {
	return &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      handler,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: writeTimeout(conf),
			IdleTimeout:  60 * time.Second,
		},
		conf:   conf,
		logger: logger,
		store:  store,
	}
}

// Run serves until SIGINT/SIGTERM or ctx is done, then drains in-flight
// requests and closes the store.
func (app *App) Run(ctx context.Context) error {
	logger := app.logger
	logger.Infof(providers.TypeApp, "Starting %s", app.conf.AppName)
	if app.conf.Remote.Enabled {
		logger.Infof(providers.TypeApp, "Remote sync enabled: %s", app.conf.Remote.BaseURL)
	} else {
		logger.Infof(providers.TypeApp, "Remote sync disabled, records are kept locally only")
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof(providers.TypeApp, "Listening HTTP clients on %s:%d", app.conf.WebServer.Host, app.conf.WebServer.Port)
		if err := app.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
		logger.Infof(providers.TypeApp, "Shutdown signal received")
	case <-ctx.Done():
		logger.Infof(providers.TypeApp, "Context cancelled, shutting down")
	case err := <-serverErr:
		app.closeStore()
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), writeTimeout(app.conf))
	defer cancel()

	if err := app.WebServer.Shutdown(shutdownCtx); err != nil {
		app.closeStore()
		return err
	}
	app.closeStore()
	logger.Infof(providers.TypeApp, "gracefully stopped")
	return nil
}

// writeTimeout leaves room for a full remote forward plus the local write
// and the response.
func writeTimeout(conf *structures.Config) time.Duration {
	return max(10*time.Second, remote.Timeout(conf)+5*time.Second)
}

func (app *App) closeStore() {
	if err := app.store.Close(); err != nil {
		app.logger.Errorf(providers.TypeApp, "Closing store: %v", err)
	}
}
