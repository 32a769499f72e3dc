package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Submission is the terminal record written when a wizard reaches the
// submitted state. Payload holds the full WizardState as JSON so the
// matching team sees exactly what the buyer reviewed.
type Submission struct {
	ID             uuid.UUID
	UserID         string
	Email          string
	Phone          string
	PropertyIntent PropertyIntent
	Payload        json.RawMessage
	SubmittedAt    time.Time
	CreatedAt      time.Time
}
