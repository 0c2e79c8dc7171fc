package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joshnies/bygg/config"
	"github.com/joshnies/bygg/lib/console"
	"github.com/joshnies/bygg/lib/server"
	"github.com/urfave/cli/v2"
)

// Serve project exports over HTTP until interrupted.
func Serve(c *cli.Context) error {
	cfg := config.I

	addr := c.String("listen")
	if addr == "" {
		addr = cfg.Server.Listen
	}

	exporter, err := newExporter(cfg)
	if err != nil {
		return err
	}

	srv := &server.Server{
		Exporter:       exporter,
		BytesPerSecond: cfg.Export.BytesPerSecond,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	console.Info("Serving exports of %s on %s", cfg.Storage.UploadsRoot, addr)
	console.Verbose("Projects file: %s", cfg.Storage.ProjectsFile)
	if cfg.Export.BytesPerSecond > 0 {
		console.Verbose("Bandwidth cap per export: %d B/s", cfg.Export.BytesPerSecond)
	}

	if err := srv.ListenAndServe(ctx, addr, cfg.Server.ShutdownTimeout); err != nil {
		return console.Error("Server stopped: %v", err)
	}

	console.Success("Server stopped")
	return nil
}
