package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/turtacn/fra-monitor/internal/domain/patta"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/fra-monitor/pkg/errors"
)

type holderDoc struct {
	ID               string    `bson:"_id"`
	ClaimNumber      string    `bson:"claim_number"`
	ApplicantName    string    `bson:"applicant_name"`
	ApplicantAddress string    `bson:"applicant_address"`
	Village          string    `bson:"village"`
	District         string    `bson:"district"`
	State            string    `bson:"state"`
	ClaimType        string    `bson:"claim_type"`
	LandArea         float64   `bson:"land_area"`
	LandDescription  string    `bson:"land_description"`
	Location         geoPoint  `bson:"location"`
	CreatedAt        time.Time `bson:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at"`
}

// geoPoint is a GeoJSON point; coordinates are [longitude, latitude].
type geoPoint struct {
	Type        string     `bson:"type"`
	Coordinates [2]float64 `bson:"coordinates"`
}

type holderRepo struct {
	coll *mongo.Collection
	log  logging.Logger
	now  func() time.Time
}

// NewHolderRepo returns a patta.HolderRepository over the patta_holders
// collection of db.
func NewHolderRepo(db *mongo.Database, log logging.Logger) patta.HolderRepository {
	return &holderRepo{coll: db.Collection(HoldersCollection), log: log, now: time.Now}
}

func (r *holderRepo) Create(ctx context.Context, h *patta.Holder) error {
	if err := h.Validate(); err != nil {
		return err
	}
	patta.PrepareForCreate(h, r.now().Truncate(time.Millisecond))

	doc := holderDoc{
		ID: h.ID, ClaimNumber: h.ClaimNumber, ApplicantName: h.ApplicantName, ApplicantAddress: h.ApplicantAddress,
		Village: h.Village, District: h.District, State: h.State, ClaimType: string(h.ClaimType),
		LandArea: h.LandArea, LandDescription: h.LandDescription,
		Location:  geoPoint{Type: "Point", Coordinates: [2]float64{h.Coordinates.Lng, h.Coordinates.Lat}},
		CreatedAt: h.CreatedAt, UpdatedAt: h.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		r.log.Error("failed to insert patta holder", logging.String("claim_number", h.ClaimNumber), logging.Err(err))
		return wrapInsertError(err, "patta holder")
	}
	return nil
}

func (r *holderRepo) List(ctx context.Context) ([]patta.Holder, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list patta holders")
	}
	defer cur.Close(ctx)

	var docs []holderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to decode patta holders")
	}
	out := make([]patta.Holder, 0, len(docs))
	for _, d := range docs {
		out = append(out, patta.Holder{
			ID: d.ID, ClaimNumber: d.ClaimNumber, ApplicantName: d.ApplicantName, ApplicantAddress: d.ApplicantAddress,
			Village: d.Village, District: d.District, State: d.State, ClaimType: patta.ClaimType(d.ClaimType),
			LandArea: d.LandArea, LandDescription: d.LandDescription,
			Coordinates: &patta.Coordinates{Lat: d.Location.Coordinates[1], Lng: d.Location.Coordinates[0]},
			CreatedAt:   d.CreatedAt.UTC(), UpdatedAt: d.UpdatedAt.UTC(),
		})
	}
	return out, nil
}

func (r *holderRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count patta holders")
	}
	return n, nil
}

//Personal.AI order the ending
