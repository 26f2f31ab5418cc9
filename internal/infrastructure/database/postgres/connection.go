package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"github.com/turtacn/fra-monitor/internal/config"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/fra-monitor/pkg/errors"
)

const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 10
	defaultConnMaxLifetime = 30 * time.Minute
	connectTimeout         = 5 * time.Second

	// poolPressure is the in-use share of open connections above which the
	// health probe logs a warning.
	poolPressure = 0.8
)

var sqlOpen = sql.Open

// Connection owns the *sql.DB shared by the FRA record and patta holder
// repositories.
type Connection struct {
	db        *sql.DB
	logger    logging.Logger
	closeOnce sync.Once
	closeErr  error
}

// NewConnection opens the pool described by cfg and verifies it with a ping.
func NewConnection(cfg config.PostgresConfig, log logging.Logger) (*Connection, error) {
	db, err := sqlOpen("postgres", DSN(cfg))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to open database connection")
	}
	tunePool(db, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "database connection failed")
	}

	log.Info("postgres connected",
		logging.String("host", cfg.Host),
		logging.Int("port", cfg.Port),
		logging.String("database", cfg.DBName),
	)
	return &Connection{db: db, logger: log}, nil
}

// NewConnectionWithDB wraps an already opened pool, such as a sqlmock or a
// pgx stdlib handle.
func NewConnectionWithDB(db *sql.DB, log logging.Logger) *Connection {
	return &Connection{db: db, logger: log}
}

func tunePool(db *sql.DB, cfg config.PostgresConfig) {
	db.SetMaxOpenConns(positiveOr(cfg.MaxOpenConns, defaultMaxOpenConns))
	db.SetMaxIdleConns(positiveOr(cfg.MaxIdleConns, defaultMaxIdleConns))
	db.SetConnMaxLifetime(positiveOr(cfg.ConnMaxLifetime, defaultConnMaxLifetime))
}

func positiveOr[T int | time.Duration](v, def T) T {
	if v > 0 {
		return v
	}
	return def
}

func (c *Connection) DB() *sql.DB { return c.db }

func (c *Connection) Stats() sql.DBStats { return c.db.Stats() }

// HealthCheck pings the server.  A pool running near capacity is logged but
// still reported healthy.
func (c *Connection) HealthCheck(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "database health check failed")
	}
	if s := c.Stats(); s.OpenConnections > 0 {
		if usage := float64(s.InUse) / float64(s.OpenConnections); usage > poolPressure {
			c.logger.Warn("postgres pool under pressure",
				logging.Int("in_use", s.InUse),
				logging.Int("open", s.OpenConnections),
				logging.Float64("usage", usage),
			)
		}
	}
	return nil
}

// Close closes the pool once; later calls return the first result.
func (c *Connection) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.db.Close()
		if c.closeErr != nil {
			c.logger.Error("postgres close failed", logging.Err(c.closeErr))
			return
		}
		c.logger.Info("postgres connection closed")
	})
	return c.closeErr
}

// RunMigrations brings the schema up to date over this pool.  source is a
// golang-migrate source URL such as "file://migrations".
func (c *Connection) RunMigrations(source string) error {
	driver, err := migratepg.WithInstance(c.db, &migratepg.Config{})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create migration driver")
	}
	m, err := migrate.NewWithDatabaseInstance(source, "postgres", driver)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create migrate instance")
	}
	if err := up(m); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to run migrations")
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		c.logger.Warn("cannot read schema version", logging.Err(err))
	}
	c.logger.Info("schema migrated",
		logging.Int64("version", int64(version)),
		logging.Bool("dirty", dirty),
	)
	return nil
}

// DSN renders cfg as a lib/pq connection URL.  Statements time out after 30s
// and lock waits after 10s.
func DSN(cfg config.PostgresConfig) string {
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	q := url.Values{}
	q.Set("sslmode", sslmode)
	q.Set("statement_timeout", "30000")
	q.Set("lock_timeout", "10000")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     cfg.DBName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

//Personal.AI order the ending
