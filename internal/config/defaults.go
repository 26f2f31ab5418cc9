package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort            = 8080
	DefaultServerReadTimeout     = 30 * time.Second
	DefaultServerWriteTimeout    = 120 * time.Second
	DefaultServerShutdownTimeout = 30 * time.Second
	DefaultSlowThreshold         = 2 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultStorageBackend = StorageMemory

	DefaultPostgresHost         = "localhost"
	DefaultPostgresPort         = 5432
	DefaultPostgresDBName       = "fra"
	DefaultPostgresSSLMode      = "disable"
	DefaultPostgresMaxOpenConns = 25
	DefaultPostgresMaxIdleConns = 5
	DefaultMigrationsPath       = "file://migrations"

	DefaultMongoURI            = "mongodb://localhost:27017"
	DefaultMongoDatabase       = "fra"
	DefaultMongoConnectTimeout = 10 * time.Second

	DefaultCacheBackend = CacheLocal
	DefaultCacheTTL     = 5 * time.Minute

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisPoolSize  = 10
	DefaultRedisKeyPrefix = "fra:"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "fra-reports"

	DefaultKafkaBroker          = "localhost:9092"
	DefaultKafkaGroupID         = "fra-worker"
	DefaultKafkaIngestedTopic   = "fra.records.ingested"
	DefaultKafkaExtractionTopic = "fra.extraction.requested"

	DefaultExtractionBaseURL   = "https://generativelanguage.googleapis.com"
	DefaultExtractionModel     = "gemini-2.5-flash"
	DefaultExtractionAPIKeyEnv = "GEMINI_API_KEY"
	DefaultExtractionTimeout   = 120 * time.Second
	DefaultMaxUploadBytes      = 10 << 20

	DefaultMetricsNamespace = "fra"
	DefaultMetricsSubsystem = "monitor"
)

// NewDefaultConfig returns a Config with every default applied.  It validates
// as-is: in-memory storage, local cache, no broker and no object storage.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every zero-value field in cfg with the service default.
// Explicitly configured (non-zero) values are left unchanged.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}
	if cfg.Server.SlowThreshold == 0 {
		cfg.Server.SlowThreshold = DefaultSlowThreshold
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Storage ───────────────────────────────────────────────────────────────
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = DefaultStorageBackend
	}
	pg := &cfg.Database.Postgres
	if pg.Host == "" {
		pg.Host = DefaultPostgresHost
	}
	if pg.Port == 0 {
		pg.Port = DefaultPostgresPort
	}
	if pg.DBName == "" {
		pg.DBName = DefaultPostgresDBName
	}
	if pg.SSLMode == "" {
		pg.SSLMode = DefaultPostgresSSLMode
	}
	if pg.MaxOpenConns == 0 {
		pg.MaxOpenConns = DefaultPostgresMaxOpenConns
	}
	if pg.MaxIdleConns == 0 {
		pg.MaxIdleConns = DefaultPostgresMaxIdleConns
	}
	if pg.MigrationsPath == "" {
		pg.MigrationsPath = DefaultMigrationsPath
	}
	mg := &cfg.Database.MongoDB
	if mg.URI == "" {
		mg.URI = DefaultMongoURI
	}
	if mg.Database == "" {
		mg.Database = DefaultMongoDatabase
	}
	if mg.ConnectTimeout == 0 {
		mg.ConnectTimeout = DefaultMongoConnectTimeout
	}

	// ── Cache ─────────────────────────────────────────────────────────────────
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = DefaultCacheBackend
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = DefaultRedisPoolSize
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.AutoOffsetReset == "" {
		cfg.Kafka.AutoOffsetReset = "earliest"
	}
	if cfg.Kafka.IngestedTopic == "" {
		cfg.Kafka.IngestedTopic = DefaultKafkaIngestedTopic
	}
	if cfg.Kafka.ExtractionTopic == "" {
		cfg.Kafka.ExtractionTopic = DefaultKafkaExtractionTopic
	}

	// ── Extraction ────────────────────────────────────────────────────────────
	if cfg.Extraction.BaseURL == "" {
		cfg.Extraction.BaseURL = DefaultExtractionBaseURL
	}
	if cfg.Extraction.Model == "" {
		cfg.Extraction.Model = DefaultExtractionModel
	}
	if cfg.Extraction.APIKeyEnv == "" {
		cfg.Extraction.APIKeyEnv = DefaultExtractionAPIKeyEnv
	}
	if cfg.Extraction.Timeout == 0 {
		cfg.Extraction.Timeout = DefaultExtractionTimeout
	}
	if cfg.Extraction.MaxUploadBytes == 0 {
		cfg.Extraction.MaxUploadBytes = DefaultMaxUploadBytes
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = DefaultMetricsSubsystem
	}
}

//Personal.AI order the ending
