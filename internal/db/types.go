package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Run status values
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusCanceled  = "canceled"
)

// Run represents one batch extraction run
type Run struct {
	ID         uuid.UUID  `json:"id"`
	Source     string     `json:"source"`
	Profiles   []string   `json:"profiles"`
	Status     string     `json:"status"`
	Documents  int        `json:"documents"`
	Succeeded  int        `json:"succeeded"`
	Failed     int        `json:"failed"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Result is the outcome of one document parsed with one profile
type Result struct {
	ID        uuid.UUID       `json:"id"`
	RunID     uuid.UUID       `json:"run_id"`
	Document  string          `json:"document"`
	Profile   string          `json:"profile"`
	Coverage  float64         `json:"coverage"`
	Record    json.RawMessage `json:"record,omitempty"`
	Defaulted []string        `json:"defaulted"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Succeeded reports whether the document was parsed without error
func (r *Result) Succeeded() bool {
	return r.Error == ""
}

// ProfileSummary aggregates the stored results of one profile
type ProfileSummary struct {
	Profile      string  `json:"profile"`
	Attempts     int     `json:"attempts"`
	Successes    int     `json:"successes"`
	Failures     int     `json:"failures"`
	MeanCoverage float64 `json:"mean_coverage"`
	MinCoverage  float64 `json:"min_coverage"`
	MaxCoverage  float64 `json:"max_coverage"`
}
