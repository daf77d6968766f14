package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pushtimer/pushtimer/internal/api"
	"github.com/pushtimer/pushtimer/internal/config"
	"github.com/pushtimer/pushtimer/internal/ledger"
	"github.com/pushtimer/pushtimer/internal/lockfile"
	"github.com/pushtimer/pushtimer/internal/scheduler"
	"github.com/pushtimer/pushtimer/internal/store"
)

// Default configuration constants
const (
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "pushups.db"
	// DefaultShutdownTimeout bounds how long we wait for in-flight requests on exit
	DefaultShutdownTimeout = 5 * time.Second
)

func main() {
	initializeLogger()

	env := loadEnvironmentConfig()
	flags := parseCommandLineFlags(env)

	// One instance per state directory; a second would double-fire reminders.
	lock, err := lockfile.Acquire(*flags.stateDir)
	if err != nil {
		slog.Error("Failed to acquire state directory lock", "error", err)
		os.Exit(1)
	}
	defer lock.Release()

	cfg, err := config.Load(filepath.Join(*flags.configDir, config.DefaultFileName))
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	st, err := openStore(*flags.dbDSN)
	if err != nil {
		slog.Error("Failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	led, err := ledger.New(st, cfg.Mode())
	if err != nil {
		slog.Error("Failed to create ledger", "error", err)
		os.Exit(1)
	}

	sched := scheduler.New(led, newConsoleNotifier(led, cfg.DailyGoal), scheduler.Options{
		Interval:        cfg.Interval(),
		GracePeriod:     cfg.GracePeriod(),
		DecisionTimeout: cfg.DecisionTimeout(),
		SnoozeDelay:     cfg.SnoozeDelay(),
		RecapSchedule:   cfg.RecapSchedule,
		DailyGoal:       cfg.DailyGoal,
	})
	if err := sched.Start(); err != nil {
		slog.Error("Failed to start reminder scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()
	if *flags.paused {
		sched.Pause()
	}

	srv := api.NewServer(led, sched, api.WithAddr(*flags.apiAddr))
	if !*flags.noQR {
		srv.PrintSyncQR()
	}

	httpServer := &http.Server{Addr: srv.Addr(), Handler: srv}
	go func() {
		slog.Info("Sync server starting", "addr", srv.Addr(), "url", srv.SyncURL())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Sync server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Sync server forced to shut down", "error", err)
	}
	slog.Info("pushtimer exited")
}

// envConfig holds environment configuration
type envConfig struct {
	StateDir  string
	ConfigDir string
	DBDSN     string
	APIAddr   string
}

// cliFlags holds command line flag values
type cliFlags struct {
	stateDir  *string
	configDir *string
	dbDSN     *string
	apiAddr   *string
	noQR      *bool
	paused    *bool
}

// initializeLogger sets up structured logging
func initializeLogger() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() envConfig {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	env := envConfig{
		StateDir:  os.Getenv("PUSHTIMER_STATE_DIR"),
		ConfigDir: os.Getenv("PUSHTIMER_CONFIG_DIR"),
		DBDSN:     os.Getenv("PUSHTIMER_DB_DSN"),
		APIAddr:   os.Getenv("PUSHTIMER_API_ADDR"),
	}
	if env.DBDSN == "" {
		env.DBDSN = os.Getenv("DATABASE_URL")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		slog.Warn("Failed to resolve home directory, using working directory", "error", err)
		home = "."
	}
	if env.StateDir == "" {
		env.StateDir = filepath.Join(home, ".local", "share", "pushtimer")
	}
	if env.ConfigDir == "" {
		env.ConfigDir = filepath.Join(home, ".config", "pushtimer")
	}
	if env.DBDSN == "" {
		env.DBDSN = filepath.Join(env.StateDir, DefaultDBFileName)
	}
	if env.APIAddr == "" {
		env.APIAddr = api.DefaultAddr
	}

	slog.Debug("environment loaded",
		"state_dir", env.StateDir, "config_dir", env.ConfigDir,
		"db_dsn_set", env.DBDSN != "", "api_addr", env.APIAddr)
	return env
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(env envConfig) cliFlags {
	flags := cliFlags{
		stateDir:  flag.String("state-dir", env.StateDir, "state directory for pushtimer data (overrides $PUSHTIMER_STATE_DIR)"),
		configDir: flag.String("config-dir", env.ConfigDir, "configuration directory (overrides $PUSHTIMER_CONFIG_DIR)"),
		dbDSN:     flag.String("db-dsn", env.DBDSN, "database DSN: SQLite file path or PostgreSQL URL (overrides $PUSHTIMER_DB_DSN or $DATABASE_URL)"),
		apiAddr:   flag.String("api-addr", env.APIAddr, "sync server listen address (overrides $PUSHTIMER_API_ADDR)"),
		noQR:      flag.Bool("no-qr", false, "do not print the sync URL QR code at startup"),
		paused:    flag.Bool("paused", false, "start with the reminder timer paused"),
	}
	flag.Parse()

	// Keep the default DB next to the state dir when only -state-dir changed.
	if *flags.dbDSN == filepath.Join(env.StateDir, DefaultDBFileName) && *flags.stateDir != env.StateDir {
		*flags.dbDSN = filepath.Join(*flags.stateDir, DefaultDBFileName)
	}

	slog.Debug("flags parsed",
		"state_dir", *flags.stateDir, "config_dir", *flags.configDir,
		"db_dsn_set", *flags.dbDSN != "", "api_addr", *flags.apiAddr,
		"no_qr", *flags.noQR, "paused", *flags.paused)
	return flags
}

// openStore selects the store backend by DSN type.
func openStore(dsn string) (store.Store, error) {
	if store.DetectDSNType(dsn) == "postgres" {
		slog.Debug("Detected PostgreSQL DSN, configuring PostgreSQL store")
		return store.NewPostgresStore(store.WithPostgresDSN(dsn))
	}
	slog.Debug("Detected SQLite DSN, configuring SQLite store", "db_path", dsn)
	return store.NewSQLiteStore(store.WithSQLiteDSN(dsn))
}
