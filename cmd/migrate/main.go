package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"saas_billing/internal/config"
	"saas_billing/internal/logger"
	"saas_billing/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.GinMode, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		log.Fatal("open embedded migrations", zap.Error(err))
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, migrateURL(cfg.DatabaseURL))
	if err != nil {
		log.Fatal("initialize migrations", zap.Error(err))
	}
	defer func() {
		if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
			log.Warn("close migration resources", zap.NamedError("source", sourceErr), zap.NamedError("database", dbErr))
		}
	}()

	switch command := os.Args[1]; command {
	case "up":
		report(log, m.Up(), "migrations applied")

	case "down":
		report(log, m.Steps(-1), "last migration rolled back")

	case "goto":
		if len(os.Args) < 3 {
			log.Fatal("goto requires a version")
		}
		version, err := strconv.ParseUint(os.Args[2], 10, 64)
		if err != nil {
			log.Fatal("invalid version", zap.String("version", os.Args[2]), zap.Error(err))
		}
		report(log, m.Migrate(uint(version)), "migrated to version")

	case "status":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			log.Info("no migrations applied")
			return
		}
		if err != nil {
			log.Fatal("read migration version", zap.Error(err))
		}
		log.Info("migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))

	default:
		printUsage()
		os.Exit(1)
	}
}

func report(log *zap.Logger, err error, msg string) {
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("no change: database is up to date")
		return
	}
	if err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	log.Info(msg)
}

// migrateURL rewrites a postgres:// URL to the scheme registered by the pgx/v5
// migrate driver.
func migrateURL(databaseURL string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(databaseURL, prefix) {
			return "pgx5://" + strings.TrimPrefix(databaseURL, prefix)
		}
	}
	return databaseURL
}

func printUsage() {
	fmt.Println("Usage: migrate <command>")
	fmt.Println("Commands:")
	fmt.Println("  up     - apply all pending migrations")
	fmt.Println("  down   - roll back the last migration")
	fmt.Println("  goto N - migrate to version N")
	fmt.Println("  status - print the current migration version")
}
