package pipeline

import (
	"time"

	"github.com/google/uuid"
)

// Run identifies one pass of the pipeline for logging.
type Run struct {
	ID        string
	StartedAt *time.Time
}

func NewRun() Run {
	return Run{ID: uuid.NewString()}
}

func (r *Run) Start() {
	now := time.Now()
	r.StartedAt = &now
}

func (r *Run) GetDuration() time.Duration {
	if r.StartedAt == nil {
		return 0
	}
	return time.Since(*r.StartedAt)
}
