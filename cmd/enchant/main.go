// Command enchant runs the illustrated chapter pipeline server: it accepts
// ingested works over HTTP, schedules each chapter through the pipeline in
// order, and generates reference and scene images along the way.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/novelenchant/enchant/pkg/api"
	"github.com/novelenchant/enchant/pkg/config"
	"github.com/novelenchant/enchant/pkg/database"
	"github.com/novelenchant/enchant/pkg/imagegen"
	"github.com/novelenchant/enchant/pkg/imagemodel"
	"github.com/novelenchant/enchant/pkg/objectstore"
	"github.com/novelenchant/enchant/pkg/pipeline"
	"github.com/novelenchant/enchant/pkg/reference"
	"github.com/novelenchant/enchant/pkg/repo"
	"github.com/novelenchant/enchant/pkg/scheduler"
	"github.com/novelenchant/enchant/pkg/textmodel"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configDir := flag.String("config-dir",
		getEnv("CONFIG_DIR", "./deploy/config"),
		"Path to configuration directory (styles.yaml, retry-policies.yaml, .env)")
	flag.Parse()

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("warning: could not load %s: %v (continuing with existing environment)", envPath, err)
	} else {
		log.Printf("loaded environment from %s", envPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Initialize(*configDir)
	if err != nil {
		log.Fatalf("failed to initialize configuration: %v", err)
	}
	stats := cfg.Stats()
	slog.Info("configuration loaded", "style_presets", stats.StylePresets, "retry_policies", stats.RetryPolicies)

	dbConfig, err := database.LoadConfigFromEnv()
	if err != nil {
		log.Fatalf("failed to load database config: %v", err)
	}
	dbClient, err := database.NewClient(ctx, dbConfig)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			slog.Error("error closing database client", "error", err)
		}
	}()
	slog.Info("connected to database")

	dataRepo := repo.New(dbClient.Client)

	store, err := objectstore.NewFSStore(getEnv("OBJECT_STORE_ROOT", "./data/objects"), cfg.Env.ObjectStoreBucket)
	if err != nil {
		log.Fatalf("failed to initialize object store: %v", err)
	}

	textClient := textmodel.NewHTTPClient(cfg.Env.TextModelEndpoint, cfg.Env.TextModelAPIKey)
	textClient.HTTPClient.Timeout = cfg.Env.TextModelDeadline
	if textPolicy, err := cfg.GetRetryPolicy("text"); err == nil {
		textClient.RetryPolicy = textPolicy
	}

	imageClient := imagemodel.NewHTTPClient(cfg.Env.ImageModelEndpoint, cfg.Env.ImageModelAPIKey)
	imageClient.HTTPClient.Timeout = cfg.Env.ImageModelDeadline

	referenceMgr := &reference.Manager{
		ImageClient: imageClient,
		Store:       store,
		NewID:       uuid.NewString,
		NewPath: func() string {
			return filepath.Join("references", uuid.NewString()+".png")
		},
	}

	imageGen := &imagegen.Generator{
		Client: dataRepo,
		Image:  imageClient,
		NewID:  uuid.NewString,
		Logger: slog.Default(),
	}

	pl := &pipeline.Pipeline{
		Repo:       dataRepo,
		TextModel:  textClient,
		ImageModel: imageClient,
		Reference:  referenceMgr,
		ImageGen:   imageGen,
		Styles:     cfg.StylePresets,
		Config:     cfg.PipelineConfig(),
		NewID:      uuid.NewString,
		Logger:     slog.Default(),
	}

	sched := &scheduler.Scheduler{
		Repo:     dataRepo,
		Pipeline: pl,
		Config:   cfg.SchedulerConfig(),
		NewID:    uuid.NewString,
		Logger:   slog.Default(),
	}
	sched.Start(ctx)
	defer sched.Stop()

	server := api.NewServer(cfg, dbClient, dataRepo, sched)

	addr := cfg.Env.HTTPAddr
	go func() {
		slog.Info("http server listening", "addr", addr)
		if err := server.Start(addr); err != nil {
			slog.Error("http server stopped", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("error during server shutdown", "error", err)
	}
}
