package main

import (
	"flag"
	"log"
	"os"

	"github.com/olagu/console/internal/config"
	"github.com/olagu/console/internal/database"
	"github.com/olagu/console/internal/migration"
	"github.com/olagu/console/pkg/logger"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	configPath := flag.String("config", "configs/config.local.yaml", "config file path")
	dryRun := flag.Bool("dry-run", false, "show which tables would be created without executing")
	verbose := flag.Bool("verbose", false, "verbose SQL logging")
	flag.Parse()

	config.LoadDotEnv()
	logger.InitStructured(os.Getenv("APP_ENV"))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	switch cfg.Store.Driver {
	case "mysql", "sqlite":
	default:
		logger.Info("store driver %q needs no migration", cfg.Store.Driver)
		return
	}

	logLevel := gormlogger.Warn
	if *verbose {
		logLevel = gormlogger.Info
	}

	db, err := database.Open(cfg, logLevel)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get underlying DB: %v", err)
	}
	defer sqlDB.Close()

	missing, err := migration.Pending(db)
	if err != nil {
		log.Fatalf("Failed to inspect schema: %v", err)
	}

	if *dryRun {
		if len(missing) == 0 {
			log.Println("[dry-run] schema is up to date")
			return
		}
		log.Printf("[dry-run] would create: %v", missing)
		return
	}

	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	logger.Info("migration complete (created: %v)", missing)
}
