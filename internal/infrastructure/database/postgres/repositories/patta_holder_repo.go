package repositories

import (
	"context"
	"time"

	"github.com/turtacn/fra-monitor/internal/domain/patta"
	"github.com/turtacn/fra-monitor/internal/infrastructure/database/postgres"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/fra-monitor/pkg/errors"
)

const holderColumns = `id, claim_number, applicant_name, applicant_address, village, district, state,
	claim_type, land_area, land_description, latitude, longitude, created_at, updated_at`

type postgresHolderRepo struct {
	conn     *postgres.Connection
	log      logging.Logger
	executor queryExecutor
	now      func() time.Time
}

// NewPostgresHolderRepo returns a patta.HolderRepository backed by
// patta_holders.
func NewPostgresHolderRepo(conn *postgres.Connection, log logging.Logger) patta.HolderRepository {
	return &postgresHolderRepo{
		conn:     conn,
		log:      log,
		executor: conn.DB(),
		now:      time.Now,
	}
}

func (r *postgresHolderRepo) Create(ctx context.Context, h *patta.Holder) error {
	if err := h.Validate(); err != nil {
		return err
	}
	patta.PrepareForCreate(h, r.now())
	h.CreatedAt, h.UpdatedAt = columnTime(h.CreatedAt), columnTime(h.UpdatedAt)

	query := `
		INSERT INTO patta_holders (` + holderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.executor.ExecContext(ctx, query,
		h.ID, h.ClaimNumber, h.ApplicantName, h.ApplicantAddress, h.Village, h.District, h.State,
		string(h.ClaimType), h.LandArea, h.LandDescription, h.Coordinates.Lat, h.Coordinates.Lng,
		h.CreatedAt, h.UpdatedAt,
	)
	if err != nil {
		r.log.Error("failed to insert patta holder", logging.String("claim_number", h.ClaimNumber), logging.Err(err))
		return wrapWriteError(err, "patta holder")
	}
	return nil
}

func (r *postgresHolderRepo) List(ctx context.Context) ([]patta.Holder, error) {
	query := `SELECT ` + holderColumns + ` FROM patta_holders ORDER BY created_at DESC, id`
	rows, err := r.executor.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list patta holders")
	}
	defer rows.Close()

	var out []patta.Holder
	for rows.Next() {
		h, err := scanHolder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate patta holders")
	}
	return out, nil
}

func (r *postgresHolderRepo) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.executor, "patta_holders")
}

func scanHolder(row scanner) (*patta.Holder, error) {
	var h patta.Holder
	var claimType string
	var coords patta.Coordinates
	err := row.Scan(
		&h.ID, &h.ClaimNumber, &h.ApplicantName, &h.ApplicantAddress, &h.Village, &h.District, &h.State,
		&claimType, &h.LandArea, &h.LandDescription, &coords.Lat, &coords.Lng, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan patta holder")
	}
	h.ClaimType = patta.ClaimType(claimType)
	h.Coordinates = &coords
	h.CreatedAt = h.CreatedAt.UTC()
	h.UpdatedAt = h.UpdatedAt.UTC()
	return &h, nil
}

//Personal.AI order the ending
