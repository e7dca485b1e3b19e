// Command blobaudit-web serves the Datafeed scanner in the browser.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blobaudit.dev/pkg/auth"
	"blobaudit.dev/pkg/blobstore/memory"
	"blobaudit.dev/pkg/config"
	"blobaudit.dev/pkg/consistency"
	"blobaudit.dev/pkg/datafeed"
	"blobaudit.dev/pkg/logging"
	"blobaudit.dev/pkg/metrics"
	"blobaudit.dev/pkg/session"
	"blobaudit.dev/pkg/web"
)

const (
	configFolder    = "./configs"
	sweepInterval   = 10 * time.Minute
	shutdownTimeout = 30 * time.Second
)

func main() {
	logger := logging.NewLogger(logging.INFO)

	settings := config.Load(config.NewEnvFile(configFolder, logger))
	logger.ChangeLevel(logging.GetLevelFromString(settings.LogLevel))

	if err := settings.ValidateWeb(); err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}

	policy, err := consistency.ParseExtraPolicy(settings.ExtraPolicy)
	if err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}

	m := metrics.New()

	sessions := session.NewStore(session.DefaultTTL)

	cookies, err := session.NewCookies(sessions, settings.SessionSecret, settings.IsProduction())
	if err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}

	opts := &web.Options{
		Logger:        logger,
		Metrics:       m,
		Sessions:      sessions,
		Cookies:       cookies,
		ScanMode:      datafeed.ModeDim,
		ExtraPolicy:   policy,
		SchemaExclude: settings.SchemaExclude,
		Container:     settings.Container,
		Demo:          settings.IsDemo(),
	}

	if settings.IsDemo() {
		store := memory.New()
		if err := memory.SeedDemo(store); err != nil {
			logger.Fatalf("seeding demo data: %v", err)
		}

		opts.Authenticator = auth.Demo{}
		opts.Stores = web.SharedStore(store)

		logger.Warn("running in demo mode with mock data")
	} else {
		opts.Authenticator = auth.NewOAuth(settings.ClientID, settings.ClientSecret, settings.TenantID)
		opts.Stores = web.AzureStores(settings.AccountURL(), settings.Container, m)
	}

	if masters, err := consistency.LoadMasters(settings.MastersFile); err != nil {
		logger.Warnf("consistency checks disabled: %v", err)
	} else {
		opts.Masters = masters
	}

	srv := web.New(opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go srv.SweepSessions(ctx, sweepInterval)

	httpSrv := &http.Server{
		Addr:              ":" + settings.HTTPPort,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("error while shutting down http server, err: %v", err)
		}
	}()

	logger.Logf("Starting server on port: %s", settings.HTTPPort)

	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorf("error while listening to http server, err: %v", err)
	}
}
