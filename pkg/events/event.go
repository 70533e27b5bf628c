package events

import "time"

// Pipeline progress topics.
const (
	TopicRunStarted      = "RUN_STARTED"
	TopicRecordCompleted = "RECORD_COMPLETED"
	TopicRunFinished     = "RUN_FINISHED"
)

// Event defines the contract for all pipeline events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "RUN_STARTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the common implementation used by all pipeline events.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewRunStarted fires when a pipeline run begins processing records.
func NewRunStarted(runId string, records int) Event {
	return BaseEvent{
		Type: TopicRunStarted,
		Data: map[string]interface{}{
			"run_id":  runId,
			"records": records,
		},
		OccurredAt: time.Now(),
	}
}

// NewRecordCompleted fires once per record as its content settles, whatever
// the outcome.
func NewRecordCompleted(runId, recordId, descriptionStatus string) Event {
	return BaseEvent{
		Type: TopicRecordCompleted,
		Data: map[string]interface{}{
			"run_id":             runId,
			"record_id":          recordId,
			"description_status": descriptionStatus,
		},
		OccurredAt: time.Now(),
	}
}

// NewRunFinished fires after exports are written, with the run totals.
func NewRunFinished(runId string, succeeded, failed, skipped int) Event {
	return BaseEvent{
		Type: TopicRunFinished,
		Data: map[string]interface{}{
			"run_id":    runId,
			"succeeded": succeeded,
			"failed":    failed,
			"skipped":   skipped,
		},
		OccurredAt: time.Now(),
	}
}
