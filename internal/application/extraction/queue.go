package extraction

import (
	"context"
	"sync"
	"time"

	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/fra-monitor/pkg/errors"
)

// JobStatus is the lifecycle state of a queued file.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobError      JobStatus = "error"
)

// JobResult is the outcome of one queued file.
type JobResult struct {
	FileName     string        `json:"fileName"`
	FileSize     int64         `json:"fileSize"`
	Status       JobStatus     `json:"status"`
	RecordsCount int           `json:"recordsCount"`
	States       []string      `json:"states,omitempty"`
	FailedStates []string      `json:"failedStates,omitempty"`
	Error        string        `json:"error,omitempty"`
	Duration     time.Duration `json:"duration"`
}

// ProgressFunc observes every status change of a job.
type ProgressFunc func(JobResult)

// Queue runs uploads through a Service one at a time.  A failed file is
// terminal and the queue moves on to the next one.
type Queue struct {
	svc     Service
	metrics *prometheus.AppMetrics
	logger  logging.Logger

	mu      sync.Mutex
	results []JobResult
}

// NewQueue creates a Queue.  metrics may be nil.
func NewQueue(svc Service, metrics *prometheus.AppMetrics, log logging.Logger) *Queue {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Queue{svc: svc, metrics: metrics, logger: log}
}

// Run processes uploads in order and returns one result per upload.  Once ctx
// is done the remaining files are marked as errors without being sent.
func (q *Queue) Run(ctx context.Context, uploads []*Upload, progress ProgressFunc) []JobResult {
	results := make([]JobResult, len(uploads))
	for i, u := range uploads {
		results[i] = JobResult{FileName: u.FileName, FileSize: int64(len(u.Data)), Status: JobPending}
		notify(progress, results[i])
	}

	for i, u := range uploads {
		if err := ctx.Err(); err != nil {
			results[i].Status = JobError
			results[i].Error = errors.Wrap(err, errors.ErrCodeTimeout, "queue stopped").Error()
			prometheus.RecordQueueJob(q.metrics, string(JobError))
			notify(progress, results[i])
			continue
		}

		results[i].Status = JobProcessing
		notify(progress, results[i])

		start := time.Now()
		res, err := q.svc.Ingest(ctx, u)
		results[i].Duration = time.Since(start)
		if err != nil {
			results[i].Status = JobError
			results[i].Error = clientMessage(err)
			q.logger.Warn("queued file failed", logging.String("file", u.FileName), logging.Err(err))
		} else {
			results[i].Status = JobCompleted
			results[i].RecordsCount = res.RecordsCount
			results[i].States = res.States
			results[i].FailedStates = res.FailedStates
		}
		prometheus.RecordQueueJob(q.metrics, string(results[i].Status))
		notify(progress, results[i])
	}

	q.mu.Lock()
	q.results = append(q.results, results...)
	q.mu.Unlock()
	return results
}

// History returns every result the queue has produced, oldest first.
func (q *Queue) History() []JobResult {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]JobResult, len(q.results))
	copy(out, q.results)
	return out
}

// Clear drops the history of finished jobs.
func (q *Queue) Clear() {
	q.mu.Lock()
	q.results = nil
	q.mu.Unlock()
}

func notify(progress ProgressFunc, r JobResult) {
	if progress != nil {
		progress(r)
	}
}

// clientMessage is the user-facing text of an ingestion error.
func clientMessage(err error) string {
	var ae *errors.AppError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}

//Personal.AI order the ending
