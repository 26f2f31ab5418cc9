// Package config defines all configuration structures for the FRA monitoring
// service.  Plain data types and validation live here; loading is in loader.go.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
)

// Storage backends.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageMongoDB  = "mongodb"
)

// Cache backends.
const (
	CacheRedis = "redis"
	CacheLocal = "local"
	CacheNone  = "none"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	RateLimitRPS    int           `mapstructure:"rate_limit_rps"`
	SlowThreshold   time.Duration `mapstructure:"slow_threshold"`
}

// StorageConfig selects the record and holder store.
type StorageConfig struct {
	Backend string `mapstructure:"backend"` // "memory" | "postgres" | "mongodb"
	Seed    bool   `mapstructure:"seed"`    // load sample records into an empty store
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// MongoConfig holds MongoDB connection parameters.
type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// DatabaseConfig groups the database backends.
type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	MongoDB  MongoConfig    `mapstructure:"mongodb"`
}

// CacheConfig selects the statistics cache.
type CacheConfig struct {
	Backend string        `mapstructure:"backend"` // "redis" | "local" | "none"
	TTL     time.Duration `mapstructure:"ttl"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// MinIOConfig holds object storage parameters for archived uploads.
type MinIOConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Region    string `mapstructure:"region"`
}

// KafkaConfig holds broker parameters for ingestion events and extraction jobs.
type KafkaConfig struct {
	Enabled         bool     `mapstructure:"enabled"`
	Brokers         []string `mapstructure:"brokers"`
	GroupID         string   `mapstructure:"group_id"`
	AutoOffsetReset string   `mapstructure:"auto_offset_reset"` // "earliest" | "latest"
	IngestedTopic   string   `mapstructure:"ingested_topic"`
	ExtractionTopic string   `mapstructure:"extraction_topic"`
}

// ExtractionConfig holds the AI model client parameters.
type ExtractionConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Model          string        `mapstructure:"model"`
	APIKey         string        `mapstructure:"api_key"`
	APIKeyEnv      string        `mapstructure:"api_key_env"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
}

// MetricsConfig holds Prometheus parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Subsystem string `mapstructure:"subsystem"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.  Every component reads its
// settings from the relevant sub-struct.
type Config struct {
	Server     ServerConfig      `mapstructure:"server"`
	Log        logging.LogConfig `mapstructure:"log"`
	Storage    StorageConfig     `mapstructure:"storage"`
	Database   DatabaseConfig    `mapstructure:"database"`
	Cache      CacheConfig       `mapstructure:"cache"`
	Redis      RedisConfig       `mapstructure:"redis"`
	MinIO      MinIOConfig       `mapstructure:"minio"`
	Kafka      KafkaConfig       `mapstructure:"kafka"`
	Extraction ExtractionConfig  `mapstructure:"extraction"`
	Metrics    MetricsConfig     `mapstructure:"metrics"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// Only the sections selected by Storage.Backend, Cache.Backend and the
// Enabled flags are checked.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	switch c.Storage.Backend {
	case StorageMemory:
	case StoragePostgres:
		pg := c.Database.Postgres
		if pg.Host == "" {
			return fmt.Errorf("config: database.postgres.host is required")
		}
		if pg.Port < 1 || pg.Port > 65535 {
			return fmt.Errorf("config: database.postgres.port %d is out of range [1, 65535]", pg.Port)
		}
		if pg.User == "" {
			return fmt.Errorf("config: database.postgres.user is required")
		}
		if pg.DBName == "" {
			return fmt.Errorf("config: database.postgres.db_name is required")
		}
	case StorageMongoDB:
		if c.Database.MongoDB.URI == "" {
			return fmt.Errorf("config: database.mongodb.uri is required")
		}
		if c.Database.MongoDB.Database == "" {
			return fmt.Errorf("config: database.mongodb.database is required")
		}
	default:
		return fmt.Errorf("config: storage.backend %q is invalid; expected memory|postgres|mongodb", c.Storage.Backend)
	}

	switch c.Cache.Backend {
	case CacheNone, CacheLocal:
	case CacheRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("config: redis.addr is required")
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("config: redis.db must be >= 0, got %d", c.Redis.DB)
		}
	default:
		return fmt.Errorf("config: cache.backend %q is invalid; expected redis|local|none", c.Cache.Backend)
	}

	if c.MinIO.Enabled && (c.MinIO.Endpoint == "" || c.MinIO.Bucket == "") {
		return fmt.Errorf("config: minio.endpoint and minio.bucket are required when minio is enabled")
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
		}
		if c.Kafka.GroupID == "" {
			return fmt.Errorf("config: kafka.group_id is required")
		}
	}

	if c.Extraction.BaseURL == "" {
		return fmt.Errorf("config: extraction.base_url is required")
	}
	if c.Extraction.MaxUploadBytes <= 0 {
		return fmt.Errorf("config: extraction.max_upload_bytes must be > 0")
	}

	return nil
}

// ExtractionAPIKey returns the configured key, falling back to the
// environment variable named by APIKeyEnv.
func (c *Config) ExtractionAPIKey(getenv func(string) string) string {
	if c.Extraction.APIKey != "" {
		return c.Extraction.APIKey
	}
	if c.Extraction.APIKeyEnv != "" && getenv != nil {
		return getenv(c.Extraction.APIKeyEnv)
	}
	return ""
}

// Addr is the HTTP listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

//Personal.AI order the ending
