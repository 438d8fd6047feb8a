package config

import "time"

// EnvConfig holds the environment-sourced primitives spec'd in the
// external interfaces section: model endpoints/keys, persistence and
// object-store connection details, worker count, and per-component
// minima. Populated by caarlos0/env from the process environment (see
// loader.go), after an optional .env file is loaded via godotenv in
// cmd/enchant.
type EnvConfig struct {
	// Text model (scene/entity extraction, quality assessment).
	TextModelEndpoint string        `env:"TEXT_MODEL_ENDPOINT,required"`
	TextModelAPIKey   string        `env:"TEXT_MODEL_API_KEY,required"`
	TextModelDeadline time.Duration `env:"TEXT_MODEL_DEADLINE" envDefault:"60s"`

	// Image model (reference + scene image generation).
	ImageModelEndpoint string        `env:"IMAGE_MODEL_ENDPOINT,required"`
	ImageModelAPIKey   string        `env:"IMAGE_MODEL_API_KEY,required"`
	ImageModelDeadline time.Duration `env:"IMAGE_MODEL_DEADLINE" envDefault:"300s"`

	// Persistence (see also pkg/database.LoadConfigFromEnv for the
	// connection-pool specific DB_* variables).
	PersistenceDeadline time.Duration `env:"PERSISTENCE_DEADLINE" envDefault:"30s"`

	// Object store.
	ObjectStoreBucket    string `env:"OBJECT_STORE_BUCKET,required"`
	ObjectStoreEndpoint  string `env:"OBJECT_STORE_ENDPOINT"`
	ObjectStoreRegion    string `env:"OBJECT_STORE_REGION" envDefault:"us-east-1"`
	ObjectStoreAccessKey string `env:"OBJECT_STORE_ACCESS_KEY"`
	ObjectStoreSecretKey string `env:"OBJECT_STORE_SECRET_KEY"`

	// Ingest API.
	HTTPAddr           string `env:"HTTP_ADDR" envDefault:":8080"`
	MaxUploadSizeBytes int64  `env:"MAX_UPLOAD_SIZE_BYTES" envDefault:"20971520"`

	// Chapter scheduler.
	WorkerCount int `env:"WORKER_COUNT" envDefault:"3"`

	// Optional distributed queue-depth cache (pkg/scheduler.QueueDepthCache).
	RedisURL string `env:"REDIS_URL"`

	// Optional directory holding styles.yaml and retry-policies.yaml, which
	// overlay the built-in style presets and retry policies (see loader.go,
	// builtin.go).
	ConfigDir string `env:"CONFIG_DIR"`

	// Per-component minima (§6).
	MinVisualScore             float64 `env:"MIN_VISUAL_SCORE" envDefault:"0.6"`
	MinImpactScore             float64 `env:"MIN_IMPACT_SCORE" envDefault:"0.4"`
	MinResolverConfidence      float64 `env:"MIN_RESOLVER_CONFIDENCE" envDefault:"0.5"`
	SimilarityThreshold        float64 `env:"SIMILARITY_THRESHOLD" envDefault:"0.6"`
	MaxModificationsPerRequest int     `env:"MAX_MODIFICATIONS_PER_REQUEST" envDefault:"5"`
	MaxAlternatives            int     `env:"MAX_ALTERNATIVES" envDefault:"3"`
	MaxScenesPerChunk          int     `env:"MAX_SCENES_PER_CHUNK" envDefault:"5"`

	// Chunking and prompt composition tuning (§4.1, §4.11).
	ChunkMaxSize    int `env:"CHUNK_MAX_SIZE" envDefault:"3000"`
	ChunkOverlap    int `env:"CHUNK_OVERLAP" envDefault:"200"`
	MaxPromptLength int `env:"MAX_PROMPT_LENGTH" envDefault:"2000"`
}
