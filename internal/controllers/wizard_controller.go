package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/hauseeHQ/intake-service/internal/dtos"
	"github.com/hauseeHQ/intake-service/internal/middleware"
	"github.com/hauseeHQ/intake-service/internal/models"
	"github.com/hauseeHQ/intake-service/internal/services"
	"github.com/hauseeHQ/intake-service/internal/utils"
	"github.com/hauseeHQ/intake-service/internal/wizard"
)

type WizardController struct {
	service  services.IntakeService
	validate *validator.Validate
}

func NewWizardController(service services.IntakeService) *WizardController {
	return &WizardController{
		service:  service,
		validate: validator.New(),
	}
}

// Get returns the caller's current wizard state, seeding a fresh draft
// on first contact.
func (c *WizardController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	state, err := c.service.GetWizard(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.WizardResponse{State: state})
}

// UpdateStep replaces the sections carried in the body for the step in
// the URL. Field-level rejections (e.g. the city cap) come back in the
// errors map alongside the saved state.
func (c *WizardController) UpdateStep(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	step, err := strconv.Atoi(mux.Vars(r)["step"])
	if err != nil || step < wizard.StepContact || step > wizard.StepReview {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Step must be between 1 and 4", nil)
		return
	}

	var req dtos.UpdateStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request payload", nil, err)
		return
	}

	state, errs, err := c.service.UpdateStep(r.Context(), id, step, services.StepUpdate{
		AboutYou:       req.AboutYou,
		PropertyIntent: req.PropertyIntent,
		Buyer:          req.BuyerQuestions,
		Seller:         req.SellerQuestions,
		Consent:        req.Consent,
	})
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.WizardResponse{State: state, Errors: errs})
}

// GoToStep navigates. Backward always succeeds; forward re-validates
// the current step and returns the field errors with a 400 when it is
// incomplete.
func (c *WizardController) GoToStep(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req dtos.GoToStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request payload", nil, err)
		return
	}
	if err := c.validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Step must be between 1 and 5", nil, err)
		return
	}

	state, errs, err := c.service.GoToStep(r.Context(), id, req.Step)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	c.respondNavigation(w, state, errs)
}

func (c *WizardController) Next(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	state, errs, err := c.service.Next(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	c.respondNavigation(w, state, errs)
}

// Submit performs the terminal transition: validates everything, stores
// the submission record, and clears the draft.
func (c *WizardController) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	state, errs, err := c.service.Submit(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if len(errs) > 0 {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Please correct the highlighted fields", errs)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.WizardResponse{State: state})
}

// GetLatestSubmission returns the caller's most recent terminal record.
func (c *WizardController) GetLatestSubmission(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	sub, err := c.service.LatestSubmission(r.Context(), id.UserID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.SubmissionResponse{
		ID:             sub.ID.String(),
		PropertyIntent: string(sub.PropertyIntent),
		SubmittedAt:    sub.SubmittedAt,
		Payload:        sub.Payload,
	})
}

// DeleteDraft discards the in-progress draft ("start over").
func (c *WizardController) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	if err := c.service.DeleteDraft(r.Context(), id.UserID); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Draft deleted"})
}

func (c *WizardController) respondNavigation(w http.ResponseWriter, state *models.WizardState, errs wizard.ErrorMap) {
	if len(errs) > 0 {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Please correct the highlighted fields", errs)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.WizardResponse{State: state})
}

// identity pulls the auth snapshot from context; the middleware should
// make absence impossible on protected routes.
func identity(w http.ResponseWriter, r *http.Request) (models.Identity, bool) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Missing identity", nil)
		return models.Identity{}, false
	}
	return id, true
}
