package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/turtacn/fra-monitor/internal/domain/fra"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/fra-monitor/pkg/errors"
)

type recordDoc struct {
	ID                          string    `bson:"_id"`
	Date                        string    `bson:"report_date"`
	Year                        int       `bson:"year"`
	Month                       string    `bson:"month"`
	State                       string    `bson:"state"`
	IndividualClaimsReceived    int64     `bson:"individual_claims_received"`
	CommunityClaimsReceived     int64     `bson:"community_claims_received"`
	TotalClaimsReceived         int64     `bson:"total_claims_received"`
	IndividualTitlesDistributed int64     `bson:"individual_titles_distributed"`
	CommunityTitlesDistributed  int64     `bson:"community_titles_distributed"`
	TotalTitlesDistributed      int64     `bson:"total_titles_distributed"`
	ClaimsRejected              int64     `bson:"claims_rejected"`
	TotalClaimsDisposedOff      int64     `bson:"total_claims_disposed_off"`
	PercentageClaimsDisposedOff float64   `bson:"percentage_claims_disposed_off"`
	AreaHaIFR                   float64   `bson:"area_ha_ifr_titles_distributed"`
	AreaHaCFR                   float64   `bson:"area_ha_cfr_titles_distributed"`
	UploadDate                  time.Time `bson:"upload_date"`
	FileName                    string    `bson:"file_name"`
	FileSize                    int64     `bson:"file_size"`
}

func toRecordDoc(r *fra.Record) recordDoc {
	return recordDoc{
		ID: r.ID, Date: r.Date, Year: r.Year, Month: r.Month, State: r.State,
		IndividualClaimsReceived:    r.IndividualClaimsReceived,
		CommunityClaimsReceived:     r.CommunityClaimsReceived,
		TotalClaimsReceived:         r.TotalClaimsReceived,
		IndividualTitlesDistributed: r.IndividualTitlesDistributed,
		CommunityTitlesDistributed:  r.CommunityTitlesDistributed,
		TotalTitlesDistributed:      r.TotalTitlesDistributed,
		ClaimsRejected:              r.ClaimsRejected,
		TotalClaimsDisposedOff:      r.TotalClaimsDisposedOff,
		PercentageClaimsDisposedOff: r.PercentageClaimsDisposedOff,
		AreaHaIFR:                   r.AreaHaIFRTitlesDistributed,
		AreaHaCFR:                   r.AreaHaCFRTitlesDistributed,
		UploadDate:                  r.UploadDate,
		FileName:                    r.FileName,
		FileSize:                    r.FileSize,
	}
}

func (d recordDoc) record() fra.Record {
	return fra.Record{
		ID: d.ID, Date: d.Date, Year: d.Year, Month: d.Month, State: d.State,
		IndividualClaimsReceived:    d.IndividualClaimsReceived,
		CommunityClaimsReceived:     d.CommunityClaimsReceived,
		TotalClaimsReceived:         d.TotalClaimsReceived,
		IndividualTitlesDistributed: d.IndividualTitlesDistributed,
		CommunityTitlesDistributed:  d.CommunityTitlesDistributed,
		TotalTitlesDistributed:      d.TotalTitlesDistributed,
		ClaimsRejected:              d.ClaimsRejected,
		TotalClaimsDisposedOff:      d.TotalClaimsDisposedOff,
		PercentageClaimsDisposedOff: d.PercentageClaimsDisposedOff,
		AreaHaIFRTitlesDistributed:  d.AreaHaIFR,
		AreaHaCFRTitlesDistributed:  d.AreaHaCFR,
		UploadDate:                  d.UploadDate.UTC(),
		FileName:                    d.FileName,
		FileSize:                    d.FileSize,
	}
}

type recordRepo struct {
	coll *mongo.Collection
	log  logging.Logger
	now  func() time.Time
}

// NewRecordRepo returns a fra.RecordRepository over the fra_records
// collection of db.
func NewRecordRepo(db *mongo.Database, log logging.Logger) fra.RecordRepository {
	return &recordRepo{coll: db.Collection(RecordsCollection), log: log, now: time.Now}
}

func (r *recordRepo) Create(ctx context.Context, rec *fra.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	fra.PrepareForCreate(rec, r.now())
	// BSON dates carry millisecond precision.
	rec.UploadDate = rec.UploadDate.Truncate(time.Millisecond)

	if _, err := r.coll.InsertOne(ctx, toRecordDoc(rec)); err != nil {
		r.log.Error("failed to insert fra record", logging.String("state", rec.State), logging.Err(err))
		return wrapInsertError(err, "fra record")
	}
	return nil
}

func (r *recordRepo) List(ctx context.Context) ([]fra.Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "upload_date", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list fra records")
	}
	defer cur.Close(ctx)

	var docs []recordDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to decode fra records")
	}
	out := make([]fra.Record, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.record())
	}
	return out, nil
}

func (r *recordRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count fra records")
	}
	return n, nil
}

//Personal.AI order the ending
