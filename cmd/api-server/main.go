package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/protomem/shift-tracker/internal/clock"
	"github.com/protomem/shift-tracker/internal/database"
	"github.com/protomem/shift-tracker/internal/env"
	"github.com/protomem/shift-tracker/internal/observability"
	"github.com/protomem/shift-tracker/internal/tracking"
	"github.com/protomem/shift-tracker/internal/version"
)

var (
	_cfgFile     = flag.String("cfg", "", "path to config file")
	_showVersion = flag.Bool("version", false, "display version and exit")
)

func main() {
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	err := run(logger)
	if err != nil {
		trace := string(debug.Stack())
		logger.Error(err.Error(), "trace", trace)
		os.Exit(1)
	}
}

type config struct {
	httpHost string
	httpPort int
	db       struct {
		dsn         string
		automigrate bool
	}
	tracking struct {
		idleThresholdMinutes  int
		cleanupThresholdHours int
	}
}

type application struct {
	config config
	db     *database.DB
	logger *slog.Logger
	wg     sync.WaitGroup

	sessions   *tracking.WorkSessionManager
	heartbeats *tracking.HeartbeatActivityTracker
	overseer   *tracking.AdminOverseer
	metrics    *observability.Metrics
}

func run(logger *slog.Logger) error {
	var cfg config

	if *_cfgFile != "" {
		err := env.Load(*_cfgFile)
		if err != nil {
			return err
		}
	}

	cfg.httpHost = env.GetString("HTTP_HOST", "localhost")
	cfg.httpPort = env.GetInt("HTTP_PORT", 8080)
	cfg.db.dsn = env.GetString("DB_DSN", "postgres:postgres@localhost:5432/postgres")
	cfg.db.automigrate = env.GetBool("DB_AUTOMIGRATE", true)
	cfg.tracking.idleThresholdMinutes = env.GetInt("IDLE_THRESHOLD_MINUTES", 5)
	cfg.tracking.cleanupThresholdHours = env.GetInt("CLEANUP_THRESHOLD_HOURS", 12)

	if *_showVersion {
		fmt.Printf("version: %s\n", version.Get())
		return nil
	}

	db, err := database.New(logger, cfg.db.dsn, cfg.db.automigrate)
	if err != nil {
		return err
	}
	defer db.Close()

	clk := clock.NewSystem()
	sessionDAO := database.NewSessionDAO(logger, db)
	presenceDAO := database.NewPresenceDAO(logger, db)

	app := &application{
		config:     cfg,
		db:         db,
		logger:     logger,
		sessions:   tracking.NewWorkSessionManager(logger, clk, sessionDAO),
		heartbeats: tracking.NewHeartbeatActivityTracker(logger, clk, presenceDAO, time.Duration(cfg.tracking.idleThresholdMinutes)*time.Minute),
		overseer:   tracking.NewAdminOverseer(logger, clk, sessionDAO, presenceDAO),
		metrics:    observability.NewMetrics(prometheus.DefaultRegisterer),
	}

	return app.serveHTTP()
}
