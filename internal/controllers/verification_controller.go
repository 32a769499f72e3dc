package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/hauseeHQ/intake-service/internal/dtos"
	"github.com/hauseeHQ/intake-service/internal/services"
	"github.com/hauseeHQ/intake-service/internal/utils"
)

type VerificationController struct {
	service  services.IntakeService
	validate *validator.Validate
}

func NewVerificationController(service services.IntakeService) *VerificationController {
	return &VerificationController{
		service:  service,
		validate: validator.New(),
	}
}

// RequestCode sends a six-digit code via SMS to the supplied number and
// moves the draft's verification sub-state to sent.
func (c *VerificationController) RequestCode(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req dtos.RequestCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request payload", nil, err)
		return
	}
	if err := c.validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Phone number is required", nil, err)
		return
	}

	if err := c.service.RequestPhoneCode(r.Context(), id, req.Phone); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.RequestCodeResponse{Message: "Verification code sent"})
}

// CheckCode verifies the code. A wrong-but-well-formed code is not an
// error; it comes back as verified=false and the sub-flow stays at sent.
func (c *VerificationController) CheckCode(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req dtos.CheckCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request payload", nil, err)
		return
	}
	if err := c.validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Code must be 6 digits", nil, err)
		return
	}

	result, err := c.service.CheckPhoneCode(r.Context(), id, req.Phone, req.Code)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.CheckCodeResponse{
		Verified: result.Verified,
		Status:   result.Status,
	})
}
