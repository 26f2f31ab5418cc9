package fra

import (
	"github.com/turtacn/fra-monitor/pkg/types/common"
)

// RecordsIngestedEvent is raised after an upload's records were persisted.
// The aggregate ID is the source file name.
type RecordsIngestedEvent struct {
	common.BaseEvent
	FileName     string   `json:"fileName"`
	Year         int      `json:"year"`
	Month        string   `json:"month"`
	States       []string `json:"states"`
	SavedRecords int      `json:"savedRecords"`
	FailedStates []string `json:"failedStates,omitempty"`
}

func NewRecordsIngestedEvent(fileName string, saved []Record, failedStates []string) *RecordsIngestedEvent {
	e := &RecordsIngestedEvent{
		BaseEvent:    common.NewBaseEvent(fileName),
		FileName:     fileName,
		States:       make([]string, 0, len(saved)),
		SavedRecords: len(saved),
		FailedStates: failedStates,
	}
	for _, r := range saved {
		e.States = append(e.States, r.State)
	}
	if len(saved) > 0 {
		e.Year = saved[0].Year
		e.Month = saved[0].Month
	}
	return e
}

// ExtractionRequestedEvent asks a worker to extract an archived document.
type ExtractionRequestedEvent struct {
	common.BaseEvent
	FileName  string `json:"fileName"`
	ObjectKey string `json:"objectKey"`
	Size      int64  `json:"size"`
}

func NewExtractionRequestedEvent(fileName, objectKey string, size int64) *ExtractionRequestedEvent {
	return &ExtractionRequestedEvent{
		BaseEvent: common.NewBaseEvent(objectKey),
		FileName:  fileName,
		ObjectKey: objectKey,
		Size:      size,
	}
}

//Personal.AI order the ending
