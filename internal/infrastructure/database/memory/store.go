// Package memory holds process-local record and holder stores used for
// development, the CLI and tests.  Contents are lost on restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/turtacn/fra-monitor/internal/domain/fra"
	"github.com/turtacn/fra-monitor/internal/domain/patta"
)

// RecordStore is a fra.RecordRepository backed by a slice.
type RecordStore struct {
	mu      sync.RWMutex
	records []fra.Record
	now     func() time.Time
}

func NewRecordStore() *RecordStore {
	return &RecordStore{now: time.Now}
}

func (s *RecordStore) Create(ctx context.Context, r *fra.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.Validate(); err != nil {
		return err
	}
	fra.PrepareForCreate(r, s.now())

	s.mu.Lock()
	s.records = append(s.records, *r)
	s.mu.Unlock()
	return nil
}

// List returns a copy ordered newest UploadDate first.  Records sharing an
// upload date keep insertion order.
func (s *RecordStore) List(ctx context.Context) ([]fra.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]fra.Record, len(s.records))
	copy(out, s.records)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UploadDate.After(out[j].UploadDate)
	})
	return out, nil
}

func (s *RecordStore) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.records)), nil
}

// HolderStore is a patta.HolderRepository backed by a slice.
type HolderStore struct {
	mu      sync.RWMutex
	holders []patta.Holder
	now     func() time.Time
}

func NewHolderStore() *HolderStore {
	return &HolderStore{now: time.Now}
}

func (s *HolderStore) Create(ctx context.Context, h *patta.Holder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := h.Validate(); err != nil {
		return err
	}
	patta.PrepareForCreate(h, s.now())

	stored := *h
	if h.Coordinates != nil {
		c := *h.Coordinates
		stored.Coordinates = &c
	}
	s.mu.Lock()
	s.holders = append(s.holders, stored)
	s.mu.Unlock()
	return nil
}

func (s *HolderStore) List(ctx context.Context) ([]patta.Holder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]patta.Holder, len(s.holders))
	for i, h := range s.holders {
		out[i] = h
		if h.Coordinates != nil {
			c := *h.Coordinates
			out[i].Coordinates = &c
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *HolderStore) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.holders)), nil
}

//Personal.AI order the ending
