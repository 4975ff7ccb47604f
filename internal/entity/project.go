package entity

import (
	"time"

	"github.com/google/uuid"

	"export-pilot/constants"
)

// Project represents a compliance project for data transfer between layers.
type Project struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Market    constants.Market `json:"market"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
