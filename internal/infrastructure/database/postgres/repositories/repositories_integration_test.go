//go:build integration

// Integration tests for the PostgreSQL repositories.  They require Docker
// and are gated behind the "integration" build tag.
package repositories_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/turtacn/fra-monitor/internal/domain/fra"
	"github.com/turtacn/fra-monitor/internal/domain/patta"
	"github.com/turtacn/fra-monitor/internal/infrastructure/database/postgres"
	"github.com/turtacn/fra-monitor/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
)

const migrationsPath = "file://../../../../../migrations"

// startPostgres launches a PostgreSQL 16 container, applies the schema and
// returns a connection over a pgx pool.
func startPostgres(t *testing.T) *postgres.Connection {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "fra_test",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/fra_test?sslmode=disable", host, port.Port())

	var pool *pgxpool.Pool
	require.Eventually(t, func() bool {
		pool, err = pgxpool.New(ctx, dsn)
		return err == nil && pool.Ping(ctx) == nil
	}, 30*time.Second, 500*time.Millisecond)
	t.Cleanup(pool.Close)

	conn := postgres.NewConnectionWithDB(stdlib.OpenDBFromPool(pool), logging.NewNopLogger())
	require.NoError(t, conn.RunMigrations(migrationsPath))
	return conn
}

func TestRecordRepo_PersistThenFetch(t *testing.T) {
	conn := startPostgres(t)
	repo := repositories.NewPostgresRecordRepo(conn, logging.NewNopLogger())
	ctx := context.Background()

	base := time.Date(2025, 6, 30, 10, 0, 0, 123456789, time.UTC)
	created := make([]fra.Record, 0, 5)
	for _, rec := range fra.SampleRecords(base) {
		rec := rec
		require.NoError(t, repo.Create(ctx, &rec))
		created = append(created, rec)
	}

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 5)
	want := fra.SampleRecords(base)
	assert.Equal(t, want[0].State, got[0].State, "newest upload first")
	assert.Equal(t, want[0].TotalClaimsReceived, got[0].TotalClaimsReceived)
	for _, c := range created {
		for _, g := range got {
			if g.ID != c.ID {
				continue
			}
			assert.True(t, c.UploadDate.Equal(g.UploadDate), "upload date survives the round trip")
			g.UploadDate = c.UploadDate
			assert.Equal(t, c, g)
		}
	}

	totals := fra.AggregateTotals(got)
	assert.Equal(t, fra.AggregateTotals(want), totals)
}

func TestRecordRepo_TableRejectsTotalRow(t *testing.T) {
	conn := startPostgres(t)
	_, err := conn.DB().ExecContext(context.Background(),
		`INSERT INTO fra_records (id, year, month, state) VALUES ('x', 2025, 'June', 'Grand Total')`)
	assert.Error(t, err)
}

func TestHolderRepo_PersistThenFetch(t *testing.T) {
	conn := startPostgres(t)
	repo := repositories.NewPostgresHolderRepo(conn, logging.NewNopLogger())
	ctx := context.Background()

	h := &patta.Holder{
		ClaimNumber: "CG/BST/17", ApplicantName: "Ramesh Netam", ApplicantAddress: "Para 2",
		Village: "Tokapal", District: "Bastar", State: "Chhattisgarh", ClaimType: patta.ClaimCommunity,
		LandArea: 40, LandDescription: "Village forest", Coordinates: &patta.Coordinates{Lat: 19.07, Lng: 82.03},
	}
	require.NoError(t, repo.Create(ctx, h))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, h.ID, got[0].ID)
	assert.Equal(t, *h.Coordinates, *got[0].Coordinates)
	assert.True(t, h.CreatedAt.Equal(got[0].CreatedAt))
	assert.True(t, h.UpdatedAt.Equal(got[0].UpdatedAt))
}

//Personal.AI order the ending
