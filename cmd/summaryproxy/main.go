// Command summaryproxy runs the summary proxy as a standalone HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/teilomillet/summaryproxy/config"
	"github.com/teilomillet/summaryproxy/errors"
	"github.com/teilomillet/summaryproxy/server"
	"github.com/teilomillet/summaryproxy/server/handlers"
	"github.com/teilomillet/summaryproxy/server/metrics"
	"github.com/teilomillet/summaryproxy/server/upstream"
	"go.uber.org/zap"
)

var (
	configFile = flag.String("config", "summaryproxy.yaml", "Path to configuration file")
	validate   = flag.Bool("validate", false, "Validate configuration and exit")
	version    = flag.Bool("version", false, "Print version and exit")
)

const Version = "v0.1.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("summaryproxy %s\n", Version)
		os.Exit(0)
	}

	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *validate {
		fmt.Println("Configuration is valid")
		os.Exit(0)
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Critical error: Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to sync logger: %v\n", syncErr)
		}
	}()
	errors.SetLogger(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	models, err := upstream.NewModels(ctx, cfg.Upstream)
	if err != nil {
		logger.Fatal("Failed to create upstream client", zap.Error(err))
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.NewMetrics()
	}

	client := upstream.NewClient(models, cfg.Upstream.Model, logger)
	handler := handlers.NewSummaryHandler(client, logger, m)
	router := server.NewRouter(cfg, handler, m, logger)
	srv := server.NewServer(cfg.Server, router, logger)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("Shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()

	logger.Info("Starting summaryproxy",
		zap.String("version", Version),
		zap.Int("port", cfg.Server.Port),
		zap.String("model", cfg.Upstream.Model),
	)
	if err := srv.Start(ctx); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}

// loadConfig reads path when it exists and falls back to defaults plus the
// environment otherwise.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return config.FromEnv()
		}
		return nil, err
	}
	return config.LoadFile(path)
}
