// Package app wires configuration into the stores, caches, messaging clients
// and services shared by the API server, the worker and the CLI.
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/turtacn/fra-monitor/internal/application/dashboard"
	"github.com/turtacn/fra-monitor/internal/application/extraction"
	"github.com/turtacn/fra-monitor/internal/application/registry"
	"github.com/turtacn/fra-monitor/internal/application/reporting"
	"github.com/turtacn/fra-monitor/internal/config"
	"github.com/turtacn/fra-monitor/internal/domain/fra"
	"github.com/turtacn/fra-monitor/internal/domain/patta"
	"github.com/turtacn/fra-monitor/internal/infrastructure/cache"
	"github.com/turtacn/fra-monitor/internal/infrastructure/database/memory"
	"github.com/turtacn/fra-monitor/internal/infrastructure/database/mongodb"
	"github.com/turtacn/fra-monitor/internal/infrastructure/database/postgres"
	"github.com/turtacn/fra-monitor/internal/infrastructure/database/postgres/repositories"
	redisclient "github.com/turtacn/fra-monitor/internal/infrastructure/database/redis"
	"github.com/turtacn/fra-monitor/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/fra-monitor/internal/infrastructure/storage/minio"
	"github.com/turtacn/fra-monitor/internal/intelligence/fraextract"
	httpserver "github.com/turtacn/fra-monitor/internal/interfaces/http"
	"github.com/turtacn/fra-monitor/internal/interfaces/http/handlers"
	"github.com/turtacn/fra-monitor/internal/interfaces/http/middleware"
)

// statsCache is what both cache backends offer.
type statsCache interface {
	dashboard.StatsCache
	extraction.CacheInvalidator
	Ping(ctx context.Context) error
}

// Container holds every initialised component.  Optional components are nil
// when their section is disabled.
type Container struct {
	Config *config.Config
	Logger logging.Logger

	Collector  prometheus.MetricsCollector
	AppMetrics *prometheus.AppMetrics

	Records fra.RecordRepository
	Holders patta.HolderRepository
	Cache   statsCache

	Postgres *postgres.Connection
	Mongo    *mongodb.Client
	Redis    *redisclient.Client
	MinIO    *minio.Client
	Archive  minio.DocumentArchive
	Producer *kafka.Producer
	Events   *kafka.EventPublisher

	Dashboard  dashboard.Service
	Registry   registry.Service
	Reporting  reporting.Service
	Extraction extraction.Service
	Dispatcher *extraction.Dispatcher

	checkers []handlers.HealthChecker
	limiter  *middleware.TokenBucketLimiter
	closers  []func(ctx context.Context) error
}

// New connects everything cfg enables.  On error the components opened so
// far are closed again.
func New(ctx context.Context, cfg *config.Config, log logging.Logger) (c *Container, err error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	c = &Container{Config: cfg, Logger: log}
	defer func() {
		if err != nil {
			_ = c.Close(context.Background())
			c = nil
		}
	}()

	if err = c.initMetrics(); err != nil {
		return nil, err
	}
	if err = c.initStores(ctx); err != nil {
		return nil, err
	}
	if err = c.initCache(ctx); err != nil {
		return nil, err
	}
	if err = c.initArchive(ctx); err != nil {
		return nil, err
	}
	if err = c.initMessaging(); err != nil {
		return nil, err
	}
	if err = c.initServices(); err != nil {
		return nil, err
	}
	if cfg.Storage.Seed {
		if err = c.Seed(ctx, time.Now()); err != nil {
			return nil, err
		}
	}

	log.Info("components initialised",
		logging.String("storage", cfg.Storage.Backend),
		logging.String("cache", cfg.Cache.Backend),
		logging.Bool("archive", c.Archive != nil),
		logging.Bool("kafka", c.Producer != nil),
		logging.Bool("metrics", c.Collector != nil),
	)
	return c, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Initialisation steps
// ─────────────────────────────────────────────────────────────────────────────

func (c *Container) initMetrics() error {
	if !c.Config.Metrics.Enabled {
		return nil
	}
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            c.Config.Metrics.Namespace,
		Subsystem:            c.Config.Metrics.Subsystem,
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, c.Logger)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	c.Collector = collector
	c.AppMetrics = prometheus.NewAppMetrics(collector)
	return nil
}

func (c *Container) initStores(ctx context.Context) error {
	switch c.Config.Storage.Backend {
	case config.StoragePostgres:
		pg := c.Config.Database.Postgres
		conn, err := postgres.NewConnection(pg, c.Logger)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		c.Postgres = conn
		c.onClose(func(context.Context) error { return conn.Close() })
		if pg.AutoMigrate {
			if err := conn.RunMigrations(pg.MigrationsPath); err != nil {
				return fmt.Errorf("postgres migrations: %w", err)
			}
		}
		c.Records = repositories.NewPostgresRecordRepo(conn, c.Logger)
		c.Holders = repositories.NewPostgresHolderRepo(conn, c.Logger)
		c.addCheck("postgres", conn.HealthCheck)

	case config.StorageMongoDB:
		client, err := mongodb.Connect(ctx, c.Config.Database.MongoDB, c.Logger)
		if err != nil {
			return fmt.Errorf("mongodb: %w", err)
		}
		c.Mongo = client
		c.onClose(client.Close)
		if err := mongodb.EnsureIndexes(ctx, client.Database()); err != nil {
			return fmt.Errorf("mongodb indexes: %w", err)
		}
		c.Records = mongodb.NewRecordRepo(client.Database(), c.Logger)
		c.Holders = mongodb.NewHolderRepo(client.Database(), c.Logger)
		c.addCheck("mongodb", client.HealthCheck)

	default:
		c.Records = memory.NewRecordStore()
		c.Holders = memory.NewHolderStore()
	}
	return nil
}

func (c *Container) initCache(ctx context.Context) error {
	// With Kafka enabled the worker takes its document locks from Redis,
	// whatever the statistics cache backend is.
	if c.Config.Cache.Backend == config.CacheRedis || (c.Config.Kafka.Enabled && c.Config.Redis.Addr != "") {
		client, err := redisclient.NewClient(c.Config.Redis, c.Logger)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		c.Redis = client
		c.onClose(func(context.Context) error { return client.Close() })
		c.addCheck("redis", client.HealthCheck)
	}

	switch c.Config.Cache.Backend {
	case config.CacheRedis:
		c.Cache = redisclient.NewRedisCache(c.Redis, c.Logger, redisclient.WithDefaultTTL(c.Config.Cache.TTL))
	case config.CacheLocal:
		c.Cache = cache.NewLocalCache(c.Config.Cache.TTL, c.Logger)
	}
	return nil
}

func (c *Container) initArchive(ctx context.Context) error {
	if !c.Config.MinIO.Enabled {
		return nil
	}
	client, err := minio.NewClient(c.Config.MinIO, c.Logger)
	if err != nil {
		return fmt.Errorf("minio: %w", err)
	}
	c.MinIO = client
	c.onClose(func(context.Context) error { return client.Close() })
	if err := client.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("minio bucket: %w", err)
	}
	c.Archive = minio.NewDocumentArchive(client, c.Logger)
	c.addCheck("minio", client.HealthCheck)
	return nil
}

func (c *Container) initMessaging() error {
	if !c.Config.Kafka.Enabled {
		return nil
	}
	producer, err := kafka.NewProducer(kafka.ProducerConfig{Brokers: c.Config.Kafka.Brokers}, c.Logger)
	if err != nil {
		return fmt.Errorf("kafka producer: %w", err)
	}
	c.Producer = producer
	c.onClose(func(context.Context) error { return producer.Close() })
	c.Events = kafka.NewEventPublisher(producer, c.Config.Kafka.IngestedTopic, c.Config.Kafka.ExtractionTopic)
	return nil
}

func (c *Container) initServices() error {
	var dashOpts []dashboard.Option
	if c.Cache != nil {
		dashOpts = append(dashOpts, dashboard.WithCache(c.Cache, c.Config.Cache.TTL))
	}
	if c.AppMetrics != nil {
		dashOpts = append(dashOpts, dashboard.WithMetrics(c.AppMetrics))
	}
	c.Dashboard = dashboard.NewService(c.Records, c.Logger.Named("dashboard"), dashOpts...)
	c.Registry = registry.NewService(c.Holders, c.Logger.Named("registry"))
	c.Reporting = reporting.NewService(c.Dashboard, c.Logger.Named("reporting"))

	extractor, err := c.newExtractor()
	if err != nil {
		return err
	}
	deps := extraction.Dependencies{
		Extractor:      extractor,
		Records:        c.Records,
		Metrics:        c.AppMetrics,
		Logger:         c.Logger.Named("extraction"),
		MaxUploadBytes: c.Config.Extraction.MaxUploadBytes,
	}
	if c.Archive != nil {
		deps.Archive = c.Archive
	}
	if c.Events != nil {
		deps.Publisher = c.Events
	}
	if c.Cache != nil {
		deps.Cache = c.Cache
	}
	svc, err := extraction.NewService(deps)
	if err != nil {
		return fmt.Errorf("extraction: %w", err)
	}
	c.Extraction = svc

	if c.Archive != nil && c.Events != nil {
		d, err := extraction.NewDispatcher(c.Archive, c.Events, c.Config.Extraction.MaxUploadBytes, c.Logger.Named("dispatch"))
		if err != nil {
			return fmt.Errorf("dispatcher: %w", err)
		}
		c.Dispatcher = d
	}
	return nil
}

// newExtractor builds the Gemini client.  Without an API key the service
// still starts and every upload fails as a model error.
func (c *Container) newExtractor() (fraextract.Extractor, error) {
	key := c.Config.ExtractionAPIKey(os.Getenv)
	if key == "" {
		c.Logger.Warn("no extraction API key configured, uploads will fail",
			logging.String("env", c.Config.Extraction.APIKeyEnv))
		return unconfiguredExtractor{env: c.Config.Extraction.APIKeyEnv}, nil
	}
	client, err := fraextract.NewClient(fraextract.Config{
		BaseURL: c.Config.Extraction.BaseURL,
		Model:   c.Config.Extraction.Model,
		APIKey:  key,
		Timeout: c.Config.Extraction.Timeout,
	}, fraextract.WithLogger(c.Logger.Named("gemini")))
	if err != nil {
		return nil, fmt.Errorf("extraction client: %w", err)
	}
	return client, nil
}

type unconfiguredExtractor struct{ env string }

func (u unconfiguredExtractor) Extract(context.Context, fraextract.Document) (*fraextract.Response, error) {
	return nil, fmt.Errorf("extraction model is not configured: set %s", u.env)
}

// ─────────────────────────────────────────────────────────────────────────────
// Operations
// ─────────────────────────────────────────────────────────────────────────────

// Seed loads the sample records when the record store is empty and reports
// how many were added.
func (c *Container) Seed(ctx context.Context, now time.Time) error {
	_, err := SeedRecords(ctx, c.Records, now, c.Logger)
	return err
}

// SeedRecords writes fra.SampleRecords into an empty store.  A store that
// already holds records is left alone.
func SeedRecords(ctx context.Context, repo fra.RecordRepository, now time.Time, log logging.Logger) (int, error) {
	n, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	if n > 0 {
		log.Info("record store not empty, skipping seed", logging.Int64("records", n))
		return 0, nil
	}
	samples := fra.SampleRecords(now)
	for i := range samples {
		if err := repo.Create(ctx, &samples[i]); err != nil {
			return i, fmt.Errorf("seed %s: %w", samples[i].State, err)
		}
	}
	log.Info("seeded sample records", logging.Int("records", len(samples)))
	return len(samples), nil
}

// HealthCheckers lists a probe per connected backend.
func (c *Container) HealthCheckers() []handlers.HealthChecker {
	return c.checkers
}

// Router assembles the HTTP API over the container's services.
func (c *Container) Router(version string) http.Handler {
	srv := c.Config.Server
	rl := middleware.RateLimitForRPS(srv.RateLimitRPS)
	c.limiter = middleware.NewLimiterFromConfig(rl)
	c.onClose(func(context.Context) error { c.limiter.Stop(); return nil })

	logCfg := middleware.DefaultLoggingConfig()
	if srv.SlowThreshold > 0 {
		logCfg.SlowThreshold = srv.SlowThreshold
	}
	corsCfg := middleware.DefaultCORSConfig()
	if len(srv.CORSOrigins) > 0 {
		corsCfg = middleware.CORSForOrigins(srv.CORSOrigins)
	}

	httpLog := c.Logger.Named("http")
	return httpserver.NewRouter(httpserver.RouterConfig{
		FRAHandler:       handlers.NewFRAHandler(c.Dashboard, httpLog),
		PattaHandler:     handlers.NewPattaHandler(c.Registry, httpLog),
		ExtractHandler:   handlers.NewExtractHandler(c.Extraction, c.Dispatcher, c.Config.Extraction.MaxUploadBytes, httpLog),
		ReportHandler:    handlers.NewReportHandler(c.Reporting, httpLog),
		HealthHandler:    handlers.NewHealthHandler(version, c.checkers...).WithMetrics(c.AppMetrics),
		CORS:             middleware.CORS(corsCfg),
		Logging:          middleware.RequestLogging(httpLog, logCfg),
		RateLimit:        middleware.RateLimit(c.limiter, rl),
		Logger:           httpLog,
		MetricsCollector: c.Collector,
		AppMetrics:       c.AppMetrics,
	})
}

// Serve runs the HTTP API on the configured address until ctx is done.
func (c *Container) Serve(ctx context.Context, version string) error {
	return httpserver.NewServer(c.Config.Server, c.Router(version), c.Logger.Named("server")).Run(ctx)
}

// Close releases components in reverse order of creation.
func (c *Container) Close(ctx context.Context) error {
	var first error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](ctx); err != nil {
			c.Logger.Warn("close failed", logging.Err(err))
			if first == nil {
				first = err
			}
		}
	}
	c.closers = nil
	return first
}

func (c *Container) onClose(fn func(ctx context.Context) error) {
	c.closers = append(c.closers, fn)
}

func (c *Container) addCheck(name string, fn func(ctx context.Context) error) {
	c.checkers = append(c.checkers, handlers.CheckFunc{Component: name, Fn: fn})
}

//Personal.AI order the ending
