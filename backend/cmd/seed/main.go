package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/itchan-dev/authcore/backend/internal/seed"
	"github.com/itchan-dev/authcore/backend/internal/setup"
	"github.com/itchan-dev/authcore/shared/config"
	"github.com/itchan-dev/authcore/shared/logger"
	sharedpg "github.com/itchan-dev/authcore/shared/storage/pg"
)

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "backend/config", "path to folder with configs")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := setup.SetupDependencies(ctx, cfg, sharedpg.LightweightConnectionConfig())
	if err != nil {
		logger.Log.Error("failed to setup dependencies", "error", err)
		os.Exit(1)
	}
	defer deps.Storage.Cleanup()

	res, err := seed.Run(ctx, deps.Auth, seed.DemoUsers)
	if err != nil {
		logger.Log.Error("seeding failed", "error", err, "created", res.Created)
		os.Exit(1)
	}
	logger.Log.Info("seeding finished", "created", res.Created, "skipped", res.Skipped)
}
