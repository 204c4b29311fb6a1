// Command inventory applies the inventory schema migrations.
package main

import (
	"context"
	"embed"
	"os"
	"os/signal"
	"syscall"

	"github.com/ghuser/mrpcapacity/pkg/config"
	"github.com/ghuser/mrpcapacity/pkg/logger"
	"github.com/ghuser/mrpcapacity/pkg/migrator"
)

//go:embed *.sql
var MigrationsFS embed.FS

const versionTable = "inventory_goose_db_version"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg)

	if err := migrator.Run(ctx, cfg.DatabaseURL, versionTable, MigrationsFS); err != nil {
		log.Error("migration failed", "context", "inventory", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied", "context", "inventory")
}
