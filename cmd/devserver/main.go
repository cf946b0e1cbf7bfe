package main

import (
	"context"
	"crypto/rand"
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/publimatch/publimatch-cli/internal/devserver"
	"github.com/publimatch/publimatch-cli/internal/logging"
)

func main() {

	addr := flag.String("a", ":3000", "listen address")
	flag.Parse()

	ctx := context.Background()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		log.Error(ctx, "secret generation failed", "error", err)
		os.Exit(1)
	}

	srv := devserver.NewServer(log, secret)

	log.Info(ctx, "dev server listening", "addr", *addr)
	if err := http.ListenAndServe(*addr, srv.Router()); err != nil {
		log.Error(ctx, "server stopped", "error", err)
		os.Exit(1)
	}

}
