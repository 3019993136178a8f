package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDepreciationPost is the task type for the depreciation posting batch.
	TaskDepreciationPost = "assets:depreciation:post"
)

// DepreciationPostPayload carries the reference date for a batch run. An
// empty AsOfDate means "today" at execution time.
type DepreciationPostPayload struct {
	AsOfDate string `json:"as_of_date,omitempty"`
}

// NewDepreciationPostTask constructs an Asynq task for the posting batch.
// A zero asOf leaves the date to the handler.
func NewDepreciationPostTask(asOf time.Time) (*asynq.Task, error) {
	payload := DepreciationPostPayload{}
	if !asOf.IsZero() {
		payload.AsOfDate = asOf.Format("2006-01-02")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDepreciationPost, body, asynq.Queue(QueueDefault)), nil
}
