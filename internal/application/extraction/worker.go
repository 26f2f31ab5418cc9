package extraction

import (
	"context"
	"time"

	"github.com/turtacn/fra-monitor/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/fra-monitor/pkg/errors"
	"github.com/turtacn/fra-monitor/pkg/types/common"
)

// ArchiveReader fetches archived documents.
type ArchiveReader interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// Locker is a lease that keeps two workers off the same document.
type Locker interface {
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
}

// LockFactory returns the lease for name.
type LockFactory func(name string) Locker

// JobHandler consumes extraction requests and runs them through the same
// ingest path as direct uploads.
type JobHandler struct {
	svc     Service
	archive ArchiveReader
	locks   LockFactory
	logger  logging.Logger
}

// NewJobHandler creates a JobHandler.  locks may be nil when only one worker
// runs.
func NewJobHandler(svc Service, archive ArchiveReader, locks LockFactory, log logging.Logger) *JobHandler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &JobHandler{svc: svc, archive: archive, locks: locks, logger: log}
}

// Handle implements common.MessageHandler.  A returned error is terminal: the
// consumer dead-letters the message and moves on.
func (h *JobHandler) Handle(ctx context.Context, msg *common.Message) error {
	req, err := kafka.DecodeExtractionRequest(msg)
	if err != nil {
		return err
	}
	if req.ObjectKey == "" {
		return errors.New(errors.ErrCodeValidation, "extraction request without object key").WithDetail(req.FileName)
	}
	log := h.logger.With(logging.String("object_key", req.ObjectKey), logging.String("event_id", req.ID))

	if h.locks != nil {
		lock := h.locks(req.ObjectKey)
		ok, err := lock.TryLock(ctx)
		if err != nil {
			return err
		}
		if !ok {
			log.Info("document already being processed, skipping")
			return nil
		}
		defer func() {
			// Release even when ctx is already cancelled.
			uctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := lock.Unlock(uctx); err != nil {
				log.Warn("release lock failed", logging.Err(err))
			}
		}()
	}

	data, err := h.archive.Get(ctx, req.ObjectKey)
	if err != nil {
		return err
	}

	res, err := h.svc.Ingest(ctx, &Upload{
		FileName:    req.FileName,
		ContentType: "application/pdf",
		Data:        data,
		Source:      SourceWorker,
		ArchiveKey:  req.ObjectKey,
	})
	if err != nil {
		return err
	}
	log.Info("extraction job done",
		logging.Int("saved", res.RecordsCount),
		logging.Int("failed", len(res.FailedStates)))
	return nil
}

//Personal.AI order the ending
