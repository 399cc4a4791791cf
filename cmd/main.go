package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solarsync/internal/chart"
	"solarsync/internal/dashboard"
	"solarsync/internal/handlers"
	"solarsync/internal/logger"
	"solarsync/internal/repository"
	"solarsync/internal/repository/db"
	"solarsync/internal/server"
	"solarsync/internal/telemetry"
	"solarsync/internal/view"

	"github.com/spf13/viper"
)

func main() {
	// load config.yml
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(viper.GetString("log_level"))

	// open the local preference cache
	prefsDB, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := prefsDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(prefsDB)
	charts := chart.NewManager(viper.GetInt("chart.capacity"), log.Named("chart"))
	console := view.NewConsole(os.Stdout)

	client, err := telemetry.NewClient(telemetry.Options{
		BaseURL:     viper.GetString("backend.base_url"),
		Path:        viper.GetString("backend.ws_path"),
		BaseDelay:   viper.GetDuration("reconnect.base_delay"),
		MaxAttempts: viper.GetInt("reconnect.max_attempts"),
	}, log.Named("telemetry"))
	if err != nil {
		log.Fatalw("failed to build telemetry client", "err", err)
	}

	ctrl := dashboard.NewController(dashboard.Config{
		BaseURL:      viper.GetString("backend.base_url"),
		PollInterval: viper.GetDuration("poll.interval"),
	}, client, charts, console, repos.Prefs, nil, log.Named("dashboard"))

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctrl.RestorePreferences(ctx)

	// prime the non-live charts from history, best-effort
	if hours := viper.GetInt("history.hours"); hours > 0 {
		go func() {
			if err := ctrl.LoadHistory(ctx, hours); err != nil {
				log.Warnw("failed to load chart history", "err", err)
			}
		}()
	}

	client.Connect()
	go ctrl.Run(ctx)

	// start the local status server
	srv := &server.Server{}
	statusHandler := handlers.NewHandler(client, charts, log.Named("http"))
	runHTTPServer(srv, viper.GetString("status_port"), statusHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, client, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// openDB initializes the SQLite preference cache using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "solarsync.db")
		dbPath = "solarsync.db"
	}
	return db.InitDB(dbPath)
}

// runHTTPServer runs the local status server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8090"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting status server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, client *telemetry.Client, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down...")

	// stop background goroutines and close the socket cleanly
	cancel()
	client.Disconnect()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("status server forced to shutdown", "err", err)
	}
}
