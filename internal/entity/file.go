package entity

import (
	"time"

	"github.com/google/uuid"
)

// FileRecord represents a file known to the project repository. Matching
// relies on Name only; the rest is descriptive metadata.
type FileRecord struct {
	ID         uuid.UUID `json:"id"`
	ProjectID  uuid.UUID `json:"project_id"`
	SlotID     string    `json:"slot_id,omitempty"`
	Name       string    `json:"name"`
	FileSize   int64     `json:"file_size"`
	Origin     string    `json:"origin"`
	UploadedAt time.Time `json:"uploaded_at"`
}
