// Package mongodb stores FRA records and patta holders in MongoDB, one
// collection each.
package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/turtacn/fra-monitor/internal/config"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/fra-monitor/pkg/errors"
)

// Collection names.
const (
	RecordsCollection = "fra_records"
	HoldersCollection = "patta_holders"
)

// Client owns the driver client and the application database handle.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
	logger logging.Logger
}

// Connect dials MongoDB, pings the primary and ensures indexes exist.
func Connect(ctx context.Context, cfg config.MongoConfig, log logging.Logger) (*Client, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	opts := options.Client().ApplyURI(cfg.URI).
		SetMaxPoolSize(100).
		SetMinPoolSize(5).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout).
		SetRetryWrites(true).
		SetRetryReads(true).
		SetReadPreference(readpref.Primary())

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	mc, err := mongo.Connect(cctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to connect to mongodb")
	}
	if err := mc.Ping(cctx, readpref.Primary()); err != nil {
		_ = mc.Disconnect(context.Background())
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "mongodb ping failed")
	}

	c := &Client{client: mc, db: mc.Database(cfg.Database), logger: log}
	if err := EnsureIndexes(cctx, c.db); err != nil {
		_ = mc.Disconnect(context.Background())
		return nil, err
	}

	log.Info("Connected to MongoDB", logging.String("database", cfg.Database))
	return c, nil
}

// Database returns the application database.
func (c *Client) Database() *mongo.Database {
	return c.db
}

// HealthCheck pings the primary.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.client.Ping(ctx, readpref.Primary()); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "mongodb health check failed")
	}
	return nil
}

// Close disconnects the client.
func (c *Client) Close(ctx context.Context) error {
	if err := c.client.Disconnect(ctx); err != nil {
		c.logger.Error("Failed to disconnect from MongoDB", logging.Err(err))
		return err
	}
	c.logger.Info("Disconnected from MongoDB")
	return nil
}

// EnsureIndexes creates the list-order and lookup indexes.  Creating an index
// that already exists is a no-op on the server.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	recordIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "upload_date", Value: -1}}, Options: options.Index().SetName("upload_date_desc")},
		{Keys: bson.D{{Key: "year", Value: 1}, {Key: "month", Value: 1}}, Options: options.Index().SetName("year_month")},
		{Keys: bson.D{{Key: "state", Value: 1}}, Options: options.Index().SetName("state")},
	}
	if _, err := db.Collection(RecordsCollection).Indexes().CreateMany(ctx, recordIdx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create fra_records indexes")
	}

	holderIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}, Options: options.Index().SetName("created_at_desc")},
		{Keys: bson.D{{Key: "state", Value: 1}, {Key: "district", Value: 1}}, Options: options.Index().SetName("state_district")},
	}
	if _, err := db.Collection(HoldersCollection).Indexes().CreateMany(ctx, holderIdx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create patta_holders indexes")
	}
	return nil
}

func wrapInsertError(err error, entity string) error {
	if mongo.IsDuplicateKeyError(err) {
		return errors.Wrap(err, errors.ErrCodeConflict, entity+" already exists")
	}
	return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create "+entity)
}

//Personal.AI order the ending
