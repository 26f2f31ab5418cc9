package repositories

import (
	"context"
	"time"

	"github.com/turtacn/fra-monitor/internal/domain/fra"
	"github.com/turtacn/fra-monitor/internal/infrastructure/database/postgres"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/fra-monitor/pkg/errors"
)

const recordColumns = `id, report_date, year, month, state,
	individual_claims_received, community_claims_received, total_claims_received,
	individual_titles_distributed, community_titles_distributed, total_titles_distributed,
	claims_rejected, total_claims_disposed_off, percentage_claims_disposed_off,
	area_ha_ifr_titles_distributed, area_ha_cfr_titles_distributed,
	upload_date, file_name, file_size`

type postgresRecordRepo struct {
	conn     *postgres.Connection
	log      logging.Logger
	executor queryExecutor
	now      func() time.Time
}

// NewPostgresRecordRepo returns a fra.RecordRepository backed by fra_records.
func NewPostgresRecordRepo(conn *postgres.Connection, log logging.Logger) fra.RecordRepository {
	return &postgresRecordRepo{
		conn:     conn,
		log:      log,
		executor: conn.DB(),
		now:      time.Now,
	}
}

func (r *postgresRecordRepo) Create(ctx context.Context, rec *fra.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	fra.PrepareForCreate(rec, r.now())
	rec.UploadDate = columnTime(rec.UploadDate)

	query := `
		INSERT INTO fra_records (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	_, err := r.executor.ExecContext(ctx, query,
		rec.ID, rec.Date, rec.Year, rec.Month, rec.State,
		rec.IndividualClaimsReceived, rec.CommunityClaimsReceived, rec.TotalClaimsReceived,
		rec.IndividualTitlesDistributed, rec.CommunityTitlesDistributed, rec.TotalTitlesDistributed,
		rec.ClaimsRejected, rec.TotalClaimsDisposedOff, rec.PercentageClaimsDisposedOff,
		rec.AreaHaIFRTitlesDistributed, rec.AreaHaCFRTitlesDistributed,
		rec.UploadDate, rec.FileName, rec.FileSize,
	)
	if err != nil {
		r.log.Error("failed to insert fra record", logging.String("state", rec.State), logging.Err(err))
		return wrapWriteError(err, "fra record")
	}
	return nil
}

func (r *postgresRecordRepo) List(ctx context.Context) ([]fra.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM fra_records ORDER BY upload_date DESC, id`
	rows, err := r.executor.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list fra records")
	}
	defer rows.Close()

	var out []fra.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate fra records")
	}
	return out, nil
}

func (r *postgresRecordRepo) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.executor, "fra_records")
}

func scanRecord(row scanner) (*fra.Record, error) {
	var rec fra.Record
	err := row.Scan(
		&rec.ID, &rec.Date, &rec.Year, &rec.Month, &rec.State,
		&rec.IndividualClaimsReceived, &rec.CommunityClaimsReceived, &rec.TotalClaimsReceived,
		&rec.IndividualTitlesDistributed, &rec.CommunityTitlesDistributed, &rec.TotalTitlesDistributed,
		&rec.ClaimsRejected, &rec.TotalClaimsDisposedOff, &rec.PercentageClaimsDisposedOff,
		&rec.AreaHaIFRTitlesDistributed, &rec.AreaHaCFRTitlesDistributed,
		&rec.UploadDate, &rec.FileName, &rec.FileSize,
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan fra record")
	}
	rec.UploadDate = rec.UploadDate.UTC()
	return &rec, nil
}

//Personal.AI order the ending
