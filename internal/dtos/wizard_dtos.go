package dtos

import (
	"encoding/json"
	"time"

	"github.com/hauseeHQ/intake-service/internal/models"
	"github.com/hauseeHQ/intake-service/internal/wizard"
)

// WizardResponse returns the full state after an operation. Errors is
// present when a mutation was partially rejected (e.g. the city cap).
type WizardResponse struct {
	State  *models.WizardState `json:"state"`
	Errors wizard.ErrorMap     `json:"errors,omitempty"`
}

// UpdateStepRequest replaces one or more sections for the step in the
// URL. Step 3 may carry buyer and/or seller depending on intent.
type UpdateStepRequest struct {
	AboutYou        *models.AboutYou        `json:"aboutYou,omitempty"`
	PropertyIntent  *models.PropertyIntent  `json:"propertyIntent,omitempty"`
	BuyerQuestions  *models.BuyerQuestions  `json:"buyerQuestions,omitempty"`
	SellerQuestions *models.SellerQuestions `json:"sellerQuestions,omitempty"`
	Consent         *models.Consent         `json:"consent,omitempty"`
}

type GoToStepRequest struct {
	Step int `json:"step" validate:"required,min=1,max=5"`
}

type SubmissionResponse struct {
	ID             string          `json:"id"`
	PropertyIntent string          `json:"propertyIntent"`
	SubmittedAt    time.Time       `json:"submittedAt"`
	Payload        json.RawMessage `json:"payload"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
