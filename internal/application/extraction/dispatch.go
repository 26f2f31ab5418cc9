package extraction

import (
	"context"

	"github.com/turtacn/fra-monitor/internal/domain/fra"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/fra-monitor/internal/intelligence/fraextract"
	"github.com/turtacn/fra-monitor/pkg/errors"
)

// JobPublisher queues archived documents for a worker.
type JobPublisher interface {
	RequestExtraction(ctx context.Context, ev *fra.ExtractionRequestedEvent) error
}

// Accepted acknowledges a queued document.
type Accepted struct {
	Success   bool   `json:"success"`
	FileName  string `json:"fileName"`
	ObjectKey string `json:"objectKey"`
	JobID     string `json:"jobId"`
	Message   string `json:"message"`
}

// Dispatcher archives an upload and hands it to the worker instead of
// extracting it in the request.
type Dispatcher struct {
	archive   Archive
	publisher JobPublisher
	maxBytes  int64
	logger    logging.Logger
}

func NewDispatcher(archive Archive, publisher JobPublisher, maxBytes int64, log logging.Logger) (*Dispatcher, error) {
	if archive == nil || publisher == nil {
		return nil, errors.New(errors.ErrCodeValidation, "dispatcher needs an archive and a publisher")
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Dispatcher{archive: archive, publisher: publisher, maxBytes: maxBytes, logger: log}, nil
}

// Dispatch applies the same upload rules as Ingest, stores the document and
// publishes an extraction request keyed by its object key.
func (d *Dispatcher) Dispatch(ctx context.Context, upload *Upload) (*Accepted, error) {
	if upload == nil {
		return nil, errors.New(errors.ErrCodeDocumentMissing, errors.DefaultMessageForCode(errors.ErrCodeDocumentMissing))
	}
	if err := fraextract.CheckUpload(upload.ContentType, upload.Data, d.maxBytes); err != nil {
		return nil, err
	}

	obj, err := d.archive.Put(ctx, upload.FileName, upload.Data)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "archive document")
	}

	ev := fra.NewExtractionRequestedEvent(upload.FileName, obj.Key, obj.Size)
	if err := d.publisher.RequestExtraction(ctx, ev); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMessagingError, "queue extraction")
	}

	d.logger.Info("extraction queued",
		logging.String("file", upload.FileName),
		logging.String("object_key", obj.Key),
		logging.String("job_id", ev.ID))
	return &Accepted{
		Success:   true,
		FileName:  upload.FileName,
		ObjectKey: obj.Key,
		JobID:     ev.ID,
		Message:   "Document queued for extraction",
	}, nil
}

//Personal.AI order the ending
