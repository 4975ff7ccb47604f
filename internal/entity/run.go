package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"export-pilot/constants"
)

// AnalysisRun tracks one simulated analysis pass (diagnosis, docs generation
// or lab matching). The result payload is stored whole once the run
// completes; runs are never updated incrementally.
type AnalysisRun struct {
	ID         uuid.UUID           `json:"id"`
	ProjectID  uuid.UUID           `json:"project_id"`
	Kind       constants.RunKind   `json:"kind"`
	Market     constants.Market    `json:"market"`
	Status     constants.RunStatus `json:"status"`
	Progress   int                 `json:"progress"`
	Result     json.RawMessage     `json:"result,omitempty"`
	Error      string              `json:"error,omitempty"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt *time.Time          `json:"finished_at,omitempty"`
}
