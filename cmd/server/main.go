package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/expungepa/petition-builder/internal/cache"
	"github.com/expungepa/petition-builder/internal/config"
	"github.com/expungepa/petition-builder/internal/database"
	"github.com/expungepa/petition-builder/internal/server"
	"github.com/expungepa/petition-builder/pkg/logger"
)

func main() {
	var migrate bool
	flag.BoolVar(&migrate, "migrate", false, "Run database migrations")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to initialize database", "error", err)
	}

	if migrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal("Failed to run migrations", "error", err)
		}
		if err := database.RunMigrations(db); err != nil {
			log.Fatal("Failed to create indexes", "error", err)
		}
		log.Info("Database migrations completed successfully")
		return
	}

	cacheService := cache.NewCache(cfg.CacheSize, cfg.CacheTTL)

	srv := server.New(cfg, db, cacheService, log)

	log.Info("Starting Petition Builder",
		"host", cfg.Host,
		"port", cfg.Port,
		"portal", cfg.PortalName,
	)

	if err := srv.Run(); err != nil {
		log.Fatal("Server failed to start", "error", err)
	}
}
