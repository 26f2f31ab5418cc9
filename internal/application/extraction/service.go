// Package extraction provides the application service that turns an uploaded
// FRA progress report into persisted per-state records.
package extraction

import (
	"context"
	"fmt"
	"time"

	"github.com/turtacn/fra-monitor/internal/domain/fra"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/fra-monitor/internal/infrastructure/storage/minio"
	"github.com/turtacn/fra-monitor/internal/intelligence/fraextract"
	"github.com/turtacn/fra-monitor/pkg/errors"
)

// DefaultMaxUploadBytes is the upload ceiling when none is configured.
const DefaultMaxUploadBytes int64 = 10 << 20

// StatsKeyPrefix prefixes every cached statistics entry.  Ingestion drops
// all of them after a batch is saved.
const StatsKeyPrefix = "stats:"

// Ingestion sources, used as metric labels and in logs.
const (
	SourceUpload = "upload"
	SourceWorker = "worker"
	SourceCLI    = "cli"
)

// Archive stores original documents.
type Archive interface {
	Put(ctx context.Context, fileName string, data []byte) (*minio.ArchivedObject, error)
}

// EventPublisher announces persisted batches.
type EventPublisher interface {
	PublishRecordsIngested(ctx context.Context, ev *fra.RecordsIngestedEvent) error
}

// CacheInvalidator drops cached views derived from the record set.
type CacheInvalidator interface {
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
}

// Service ingests uploaded reports.
type Service interface {
	Ingest(ctx context.Context, upload *Upload) (*Result, error)
}

// Upload is one document to ingest.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
	// Source labels where the upload came from.  Empty means SourceUpload.
	Source string
	// ArchiveKey is set when the document is already archived, so it is not
	// stored a second time.
	ArchiveKey string
}

// SavedRecord pairs a persisted state with its store-assigned ID.
type SavedRecord struct {
	State    string `json:"state"`
	RecordID string `json:"recordId"`
}

// Result is the outcome of one successful ingestion.
type Result struct {
	Success      bool          `json:"success"`
	RecordsCount int           `json:"recordsCount"`
	States       []string      `json:"states"`
	SavedRecords []SavedRecord `json:"savedRecords"`
	FailedStates []string      `json:"failedStates"`
	Message      string        `json:"message"`
	PageCount    int           `json:"pageCount,omitempty"`
	ArchiveKey   string        `json:"archiveKey,omitempty"`
}

// Dependencies wires the service.  Archive, Publisher, Cache and Metrics
// are optional.
type Dependencies struct {
	Extractor fraextract.Extractor
	Records   fra.RecordRepository
	Archive   Archive
	Publisher EventPublisher
	Cache     CacheInvalidator
	Metrics   *prometheus.AppMetrics
	Logger    logging.Logger
	// MaxUploadBytes defaults to DefaultMaxUploadBytes.
	MaxUploadBytes int64
	Now            func() time.Time
}

type serviceImpl struct {
	deps Dependencies
}

// NewService creates a new extraction Service.
func NewService(deps Dependencies) (Service, error) {
	if deps.Extractor == nil {
		return nil, errors.New(errors.ErrCodeValidation, "extraction: extractor is required")
	}
	if deps.Records == nil {
		return nil, errors.New(errors.ErrCodeValidation, "extraction: record repository is required")
	}
	if deps.Logger == nil {
		deps.Logger = logging.NewNopLogger()
	}
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &serviceImpl{deps: deps}, nil
}

// Ingest validates the upload, asks the model for the state table and saves
// each state independently.  A state that fails to save is reported in
// FailedStates and does not fail the batch.  Errors returned here are already
// classified for the client.
func (s *serviceImpl) Ingest(ctx context.Context, upload *Upload) (*Result, error) {
	if upload == nil {
		return nil, errors.New(errors.ErrCodeDocumentMissing, errors.DefaultMessageForCode(errors.ErrCodeDocumentMissing))
	}
	source := upload.Source
	if source == "" {
		source = SourceUpload
	}
	log := s.deps.Logger.With(logging.String("file", upload.FileName), logging.String("source", source))

	if err := fraextract.CheckUpload(upload.ContentType, upload.Data, s.deps.MaxUploadBytes); err != nil {
		prometheus.RecordError(s.deps.Metrics, "extraction", string(errors.GetCode(err)))
		return nil, err
	}
	size := int64(len(upload.Data))
	prometheus.RecordUpload(s.deps.Metrics, size)

	result := &Result{
		Success:      true,
		States:       []string{},
		SavedRecords: []SavedRecord{},
		FailedStates: []string{},
		ArchiveKey:   upload.ArchiveKey,
	}

	info, err := fraextract.InspectPDF(upload.Data)
	if err != nil {
		log.Warn("pdf inspection failed, sending to model anyway", logging.Err(err))
	} else {
		result.PageCount = info.PageCount
	}

	if s.deps.Archive != nil && result.ArchiveKey == "" {
		obj, err := s.deps.Archive.Put(ctx, upload.FileName, upload.Data)
		if err != nil {
			log.Warn("archive failed", logging.Err(err))
		} else {
			result.ArchiveKey = obj.Key
		}
	}

	start := time.Now()
	resp, err := s.deps.Extractor.Extract(ctx, fraextract.Document{
		Name:     upload.FileName,
		MIMEType: "application/pdf",
		Data:     upload.Data,
	})
	if err != nil {
		classified := fraextract.Classify(err)
		prometheus.RecordExtraction(s.deps.Metrics, string(classified.Code), time.Since(start), 0)
		prometheus.RecordError(s.deps.Metrics, "extraction", string(classified.Code))
		log.Error("extraction failed", logging.Err(err), logging.String("code", string(classified.Code)))
		return nil, classified
	}

	records := fraextract.Normalize(resp, fraextract.Source{
		FileName: upload.FileName,
		FileSize: size,
		Now:      s.deps.Now(),
	})
	prometheus.RecordExtraction(s.deps.Metrics, "success", time.Since(start), len(records))

	saved := make([]fra.Record, 0, len(records))
	for i := range records {
		rec := records[i]
		if warn := rec.Inconsistencies(); len(warn) > 0 {
			log.Warn("extracted row is inconsistent",
				logging.String("state", rec.State), logging.Any("issues", warn))
		}
		if err := s.deps.Records.Create(ctx, &rec); err != nil {
			log.Error("save failed", logging.String("state", rec.State), logging.Err(err))
			result.FailedStates = append(result.FailedStates, rec.State)
			continue
		}
		saved = append(saved, rec)
		result.SavedRecords = append(result.SavedRecords, SavedRecord{State: rec.State, RecordID: rec.ID})
		result.States = append(result.States, rec.State)
	}
	prometheus.RecordSaved(s.deps.Metrics, source, len(saved), len(result.FailedStates))

	result.RecordsCount = len(result.SavedRecords)
	result.Message = fmt.Sprintf("Successfully extracted and saved FRA data for %d states", result.RecordsCount)

	s.afterSave(ctx, log, upload.FileName, saved, result.FailedStates)

	log.Info("ingestion complete",
		logging.Int("extracted", len(records)),
		logging.Int("saved", result.RecordsCount),
		logging.Int("failed", len(result.FailedStates)))
	return result, nil
}

// afterSave publishes the ingestion event and drops cached statistics.
// Neither failure is reported to the client since the records are stored.
func (s *serviceImpl) afterSave(ctx context.Context, log logging.Logger, fileName string, saved []fra.Record, failed []string) {
	if len(saved) == 0 {
		return
	}
	if s.deps.Publisher != nil {
		if err := s.deps.Publisher.PublishRecordsIngested(ctx, fra.NewRecordsIngestedEvent(fileName, saved, failed)); err != nil {
			log.Warn("publish ingestion event failed", logging.Err(err))
		}
	}
	if s.deps.Cache != nil {
		if n, err := s.deps.Cache.DeleteByPrefix(ctx, StatsKeyPrefix); err != nil {
			log.Warn("statistics cache invalidation failed", logging.Err(err))
		} else {
			log.Debug("statistics cache invalidated", logging.Int64("keys", n))
		}
	}
}

//Personal.AI order the ending
