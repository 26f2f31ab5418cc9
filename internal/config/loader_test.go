package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
server:
  port: 8081
  cors_origins: ["http://localhost:3000"]
log:
  level: debug
  format: console
storage:
  backend: postgres
database:
  postgres:
    host: db
    user: fra
    password: secret
    db_name: fra
cache:
  backend: redis
  ttl: 2m
redis:
  addr: "redis:6379"
extraction:
  model: gemini-2.5-pro
  timeout: 45s
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FromFile_ValidConfig(t *testing.T) {
	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, StoragePostgres, cfg.Storage.Backend)
	assert.Equal(t, "db", cfg.Database.Postgres.Host)
	assert.Equal(t, DefaultPostgresPort, cfg.Database.Postgres.Port)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 45*time.Second, cfg.Extraction.Timeout)
	assert.Equal(t, "gemini-2.5-pro", cfg.Extraction.Model)
}

func TestLoad_FromFile_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrConfigFileNotFound)
}

func TestLoad_FromFile_InvalidYAML(t *testing.T) {
	_, err := Load(createTempConfigFile(t, "invalid_yaml: ["))
	assert.ErrorIs(t, err, ErrConfigParseError)
}

func TestLoad_FromFile_ValidationFailure(t *testing.T) {
	_, err := Load(createTempConfigFile(t, "storage:\n  backend: sqlite\n"))
	assert.ErrorIs(t, err, ErrConfigValidation)
}

func TestLoad_EnvOverride_NestedKey(t *testing.T) {
	t.Setenv("FRA_DATABASE_POSTGRES_HOST", "db-from-env")
	t.Setenv("FRA_SERVER_PORT", "9999")

	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)
	assert.Equal(t, "db-from-env", cfg.Database.Postgres.Host)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FRA_STORAGE_BACKEND", "mongodb")
	t.Setenv("FRA_DATABASE_MONGODB_URI", "mongodb://mongo:27017")
	t.Setenv("FRA_CACHE_BACKEND", "none")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, StorageMongoDB, cfg.Storage.Backend)
	assert.Equal(t, "mongodb://mongo:27017", cfg.Database.MongoDB.URI)
	assert.Equal(t, CacheNone, cfg.Cache.Backend)
	assert.Equal(t, DefaultMongoDatabase, cfg.Database.MongoDB.Database)
}

func TestLoadOrDefault_EmptyPathUsesEnv(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
}

func TestMustLoad_Panics(t *testing.T) {
	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "missing.yaml")) })
}

func TestWatch_InitialReadError(t *testing.T) {
	err := Watch(filepath.Join(t.TempDir(), "missing.yaml"), func(*Config) {}, nil)
	assert.ErrorIs(t, err, ErrConfigParseError)
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	path := createTempConfigFile(t, "log:\n  level: info\n")

	changed := make(chan *Config, 1)
	require.NoError(t, Watch(path, func(c *Config) {
		select {
		case changed <- c:
		default:
		}
	}, nil))

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))

	select {
	case cfg := <-changed:
		assert.Equal(t, "debug", cfg.Log.Level)
	case <-time.After(5 * time.Second):
		t.Skip("file watcher did not fire in time on this platform")
	}
}

func TestLoad_ShippedExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, StoragePostgres, cfg.Storage.Backend)
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.True(t, cfg.Kafka.Enabled)
	assert.True(t, cfg.MinIO.Enabled)
	assert.Equal(t, DefaultKafkaExtractionTopic, cfg.Kafka.ExtractionTopic)
	assert.Equal(t, int64(DefaultMaxUploadBytes), cfg.Extraction.MaxUploadBytes)
	assert.Equal(t, 30*time.Minute, cfg.Database.Postgres.ConnMaxLifetime)
}

//Personal.AI order the ending
