// Package dashboard serves the filtered analytics views of the FRA record
// set: record listings, KPI statistics and the dashboard overview.
package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/turtacn/fra-monitor/internal/domain/fra"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/fra-monitor/pkg/errors"
)

// StatsKeyPrefix must match the prefix ingestion invalidates.
const StatsKeyPrefix = "stats:"

const defaultStatsTTL = 5 * time.Minute

// StatsCache memoises statistics per filter.
type StatsCache interface {
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error
}

// Statistics is the KPI block for a filter.  ClaimsDisposalRate repeats
// DisposalRate under the name older clients read.
type Statistics struct {
	fra.Totals
	ClaimsDisposalRate float64 `json:"claimsDisposalRate"`
}

// NewStatistics aggregates records into Statistics.
func NewStatistics(records []fra.Record) Statistics {
	t := fra.AggregateTotals(records)
	return Statistics{Totals: t, ClaimsDisposalRate: t.DisposalRate}
}

// StateProgress is one state's claims pipeline.
type StateProgress struct {
	State       string `json:"state"`
	Received    int64  `json:"received"`
	Distributed int64  `json:"distributed"`
	Pending     int64  `json:"pending"`
}

// Overview is everything the dashboard renders for one filter.
type Overview struct {
	Filter          fra.FilterState          `json:"filter"`
	Totals          Statistics               `json:"totals"`
	TopIFRStates    []fra.StateGroup         `json:"topIFRStates"`
	TopCFRStates    []fra.StateGroup         `json:"topCFRStates"`
	MonthlyTrend    []fra.TrendPoint         `json:"monthlyTrend"`
	StatusBreakdown []fra.StatusSlice        `json:"statusBreakdown"`
	StateProgress   []StateProgress          `json:"stateProgress"`
	ForestLand      []fra.ForestLandGroup    `json:"forestLand"`
	MapData         map[string]fra.MapMarker `json:"mapData"`
	AvailableYears  []int                    `json:"availableYears"`
	AvailableMonths []string                 `json:"availableMonths"`
	RecordCount     int                      `json:"recordCount"`
	Stale           bool                     `json:"stale"`
	RefreshedAt     time.Time                `json:"refreshedAt"`
}

// Snapshot is the last record set read from the store.
type Snapshot struct {
	Records     []fra.Record
	RefreshedAt time.Time
	Stale       bool
}

// Service defines the dashboard read operations.
type Service interface {
	List(ctx context.Context, filter fra.FilterState) ([]fra.Record, error)
	Statistics(ctx context.Context, filter fra.FilterState) (*Statistics, error)
	Overview(ctx context.Context, filter fra.FilterState) (*Overview, error)
	Refresh(ctx context.Context) (*Snapshot, error)
}

// Option customises the service.
type Option func(*serviceImpl)

// WithCache memoises Statistics in c for ttl.
func WithCache(c StatsCache, ttl time.Duration) Option {
	return func(s *serviceImpl) {
		s.cache = c
		if ttl > 0 {
			s.statsTTL = ttl
		}
	}
}

// WithMetrics records cache and store gauges.
func WithMetrics(m *prometheus.AppMetrics) Option {
	return func(s *serviceImpl) { s.metrics = m }
}

type serviceImpl struct {
	records  fra.RecordRepository
	cache    StatsCache
	statsTTL time.Duration
	metrics  *prometheus.AppMetrics
	logger   logging.Logger
	now      func() time.Time

	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewService creates a new dashboard Service.
func NewService(records fra.RecordRepository, log logging.Logger, opts ...Option) Service {
	if log == nil {
		log = logging.NewNopLogger()
	}
	s := &serviceImpl{
		records:  records,
		statsTTL: defaultStatsTTL,
		logger:   log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the stored records matched by filter, newest first.
func (s *serviceImpl) List(ctx context.Context, filter fra.FilterState) ([]fra.Record, error) {
	all, err := s.records.List(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return fra.Apply(all, filter), nil
}

// Statistics aggregates the records matched by filter.
func (s *serviceImpl) Statistics(ctx context.Context, filter fra.FilterState) (*Statistics, error) {
	load := func(ctx context.Context) (interface{}, error) {
		recs, err := s.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		st := NewStatistics(recs)
		return &st, nil
	}
	if s.cache == nil {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return v.(*Statistics), nil
	}

	missed := false
	var st Statistics
	err := s.cache.GetOrSet(ctx, StatsKeyPrefix+filter.Key(), &st, s.statsTTL, func(ctx context.Context) (interface{}, error) {
		missed = true
		return load(ctx)
	})
	if err != nil {
		return nil, err
	}
	prometheus.RecordCacheAccess(s.metrics, "statistics", !missed)
	return &st, nil
}

// Refresh reloads the snapshot.  When the store fails and a previous snapshot
// exists, that snapshot is returned flagged stale instead of an error.
func (s *serviceImpl) Refresh(ctx context.Context) (*Snapshot, error) {
	recs, err := s.records.List(ctx)
	if err != nil {
		prometheus.SetHealth(s.metrics, "records", false)
		s.mu.RLock()
		prev := s.snapshot
		s.mu.RUnlock()
		if prev == nil {
			return nil, storeError(err)
		}
		s.logger.Warn("refresh failed, serving last known good data",
			logging.Err(err), logging.Int("records", len(prev.Records)))
		stale := *prev
		stale.Stale = true
		return &stale, nil
	}

	snap := &Snapshot{Records: recs, RefreshedAt: s.now().UTC()}
	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	prometheus.SetHealth(s.metrics, "records", true)
	prometheus.SetStoredRecords(s.metrics, len(recs))
	out := *snap
	return &out, nil
}

// Overview refreshes the snapshot and derives every dashboard view for
// filter.  Facets come from the whole record set so the selectors keep
// offering values the current filter excludes.
func (s *serviceImpl) Overview(ctx context.Context, filter fra.FilterState) (*Overview, error) {
	snap, err := s.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return BuildOverview(snap, filter), nil
}

// BuildOverview derives the dashboard views for filter from snap.
func BuildOverview(snap *Snapshot, filter fra.FilterState) *Overview {
	recs := fra.Apply(snap.Records, filter)

	groups := fra.GroupByState(recs, fra.TotalPair)
	progress := make([]StateProgress, 0, len(groups))
	for _, g := range groups {
		progress = append(progress, StateProgress{
			State:       g.State,
			Received:    g.Claims,
			Distributed: g.Titles,
			Pending:     g.Pending(),
		})
	}

	markers := fra.MapData(recs)
	mapData := make(map[string]fra.MapMarker, len(markers))
	for _, m := range markers {
		mapData[m.Slug] = m
	}

	return &Overview{
		Filter:          filter,
		Totals:          NewStatistics(recs),
		TopIFRStates:    fra.TopStates(recs, fra.IndividualPair),
		TopCFRStates:    fra.TopStates(recs, fra.CommunityPair),
		MonthlyTrend:    fra.MonthlyTrend(recs),
		StatusBreakdown: fra.StatusBreakdown(recs),
		StateProgress:   progress,
		ForestLand:      fra.ForestLandByState(recs),
		MapData:         mapData,
		AvailableYears:  fra.AvailableYears(snap.Records),
		AvailableMonths: fra.AvailableMonths(snap.Records),
		RecordCount:     len(recs),
		Stale:           snap.Stale,
		RefreshedAt:     snap.RefreshedAt,
	}
}

func storeError(err error) error {
	return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "record store unavailable")
}

//Personal.AI order the ending
