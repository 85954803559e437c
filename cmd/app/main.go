package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"recipe-costing/internal/adapters/cli"
	"recipe-costing/internal/app"
	"recipe-costing/internal/config"
	"recipe-costing/internal/logging"
	"recipe-costing/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(cli.ExitCommandError)
	}
	// Logs go to stderr so they never mix with command output.
	logger := logging.New(cfg.LogLevel, "text")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var h *store.Handle
	open := func(ctx context.Context) (*store.Handle, error) {
		if h != nil {
			return h, nil
		}
		opened, err := store.Open(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		h = opened
		return h, nil
	}

	env := cli.Env{
		Service: func(ctx context.Context) (app.ApplicationService, error) {
			h, err := open(ctx)
			if err != nil {
				return nil, err
			}
			return app.NewFromStore(h.Store, logger, nil), nil
		},
	}
	if cfg.StoreDriver == config.DriverPostgres {
		env.ApplySchema = func(ctx context.Context) error {
			h, err := open(ctx)
			if err != nil {
				return err
			}
			return h.ApplySchema(ctx)
		}
	}

	code := cli.Execute(ctx, cli.NewRootCommand(env))
	h.Close()
	os.Exit(code)
}
