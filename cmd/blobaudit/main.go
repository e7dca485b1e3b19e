// Command blobaudit browses the storage container from the terminal and audits its Datafeed
// folders.
package main

import (
	"context"
	"os"
	"os/signal"

	"blobaudit.dev/pkg/auth"
	"blobaudit.dev/pkg/blobstore"
	"blobaudit.dev/pkg/blobstore/azure"
	"blobaudit.dev/pkg/blobstore/memory"
	"blobaudit.dev/pkg/cli"
	"blobaudit.dev/pkg/config"
	"blobaudit.dev/pkg/logging"
	"blobaudit.dev/pkg/terminal"
)

const configFolder = "./configs"

func main() {
	logger := logging.New(logging.INFO, os.Stderr, os.Stderr)

	settings := config.Load(config.NewEnvFile(configFolder, logger))
	logger.ChangeLevel(logging.GetLevelFromString(settings.LogLevel))

	if err := settings.Validate(); err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := terminal.New()

	app := cli.New(out, logger)
	register(app, &commands{
		settings: settings,
		connect: func(ctx context.Context) (blobstore.Store, error) {
			return connect(ctx, settings, out)
		},
	})

	code := app.Run(ctx, os.Args[1:])

	stop()
	os.Exit(code)
}

// connect opens the container and checks that it can be read. Demo mode serves the seeded
// in-memory dataset instead.
func connect(ctx context.Context, s *config.Settings, out *terminal.Out) (blobstore.Store, error) {
	if s.IsDemo() {
		store := memory.New()
		if err := memory.SeedDemo(store); err != nil {
			return nil, err
		}

		out.Warn("demo mode: using mock data, no Azure connection")

		return store, nil
	}

	cfg, err := auth.StoreConfig(s)
	if err != nil {
		return nil, err
	}

	client, err := azure.NewContainerClient(cfg)
	if err != nil {
		return nil, err
	}

	store := azure.New(client, nil)

	if err := store.Ping(ctx); err != nil {
		return nil, err
	}

	return store, nil
}
