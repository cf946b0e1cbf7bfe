package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/publimatch/publimatch-cli/internal/buildinfo"
	"github.com/publimatch/publimatch-cli/internal/client/cli"
	"github.com/publimatch/publimatch-cli/internal/client/config"
	"github.com/publimatch/publimatch-cli/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	app.Run(ctx)

}
