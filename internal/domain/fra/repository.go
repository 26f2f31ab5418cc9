package fra

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RecordRepository defines the persistence contract for FRA records.  Records
// are immutable once stored, so the contract is create and read only.
type RecordRepository interface {
	// Create stores r, assigning ID and UploadDate when they are empty.
	Create(ctx context.Context, r *Record) error

	// List returns every stored record, newest UploadDate first.
	List(ctx context.Context) ([]Record, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int64, error)
}

// PrepareForCreate fills the store-assigned fields of r.  Backends call it at
// the start of Create so all of them assign identity the same way.
func PrepareForCreate(r *Record, now time.Time) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.UploadDate.IsZero() {
		r.UploadDate = now.UTC()
	}
}

//Personal.AI order the ending
