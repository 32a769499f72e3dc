package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/hauseeHQ/intake-service/internal/models"
	"github.com/hauseeHQ/intake-service/internal/repositories"
	"github.com/hauseeHQ/intake-service/internal/utils"
	"github.com/hauseeHQ/intake-service/internal/wizard"
)

// StepUpdate carries the section payload(s) for one step. Only the
// sections belonging to the step are applied; step 3 may carry buyer,
// seller, or both depending on the selected intent.
type StepUpdate struct {
	AboutYou       *models.AboutYou
	PropertyIntent *models.PropertyIntent
	Buyer          *models.BuyerQuestions
	Seller         *models.SellerQuestions
	Consent        *models.Consent
}

// IntakeService orchestrates the wizard: it loads/saves drafts around
// the pure state machine, runs the phone-verification sub-flow, and
// performs the terminal submission.
type IntakeService interface {
	GetWizard(ctx context.Context, id models.Identity) (*models.WizardState, error)
	UpdateStep(ctx context.Context, id models.Identity, step int, in StepUpdate) (*models.WizardState, wizard.ErrorMap, error)
	GoToStep(ctx context.Context, id models.Identity, target int) (*models.WizardState, wizard.ErrorMap, error)
	Next(ctx context.Context, id models.Identity) (*models.WizardState, wizard.ErrorMap, error)
	Submit(ctx context.Context, id models.Identity) (*models.WizardState, wizard.ErrorMap, error)

	RequestPhoneCode(ctx context.Context, id models.Identity, phone string) error
	CheckPhoneCode(ctx context.Context, id models.Identity, phone, code string) (CheckResult, error)

	LatestSubmission(ctx context.Context, userID string) (*models.Submission, error)
	DeleteDraft(ctx context.Context, userID string) error
}

type intakeService struct {
	drafts      repositories.DraftRepository
	submissions repositories.SubmissionRepository
	verifier    VerificationService
	notifier    NotificationService
}

func NewIntakeService(
	drafts repositories.DraftRepository,
	submissions repositories.SubmissionRepository,
	verifier VerificationService,
	notifier NotificationService,
) IntakeService {
	return &intakeService{
		drafts:      drafts,
		submissions: submissions,
		verifier:    verifier,
		notifier:    notifier,
	}
}

// loadMachine rehydrates the persisted draft, or seeds a fresh state
// from the identity snapshot when none (or a malformed one) exists.
// Email is always re-stamped from the identity; it is immutable within
// the wizard.
func (s *intakeService) loadMachine(ctx context.Context, id models.Identity) (*wizard.Machine, error) {
	state, err := s.drafts.Load(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = models.NewWizardState(id)
	} else {
		state.AboutYou.Email = id.Email
	}
	return wizard.NewMachine(state), nil
}

// save persists the whole state after a mutation, the autosave policy
// the state machine itself stays free of. Submitted states are never
// written back; the draft is cleared at submission instead.
func (s *intakeService) save(ctx context.Context, userID string, state *models.WizardState) error {
	if state.Status == models.WizardSubmitted {
		return nil
	}
	return s.drafts.Save(ctx, userID, state)
}

func (s *intakeService) GetWizard(ctx context.Context, id models.Identity) (*models.WizardState, error) {
	m, err := s.loadMachine(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.State(), nil
}

func (s *intakeService) UpdateStep(ctx context.Context, id models.Identity, step int, in StepUpdate) (*models.WizardState, wizard.ErrorMap, error) {
	m, err := s.loadMachine(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	errs := wizard.ErrorMap{}
	applied := false

	switch step {
	case wizard.StepContact:
		if in.AboutYou != nil {
			if err := m.SetAboutYou(*in.AboutYou); err != nil {
				return nil, nil, submittedError(err)
			}
			applied = true
		}
	case wizard.StepIntent:
		if in.PropertyIntent != nil {
			if err := m.SetPropertyIntent(*in.PropertyIntent); err != nil {
				return nil, nil, submittedError(err)
			}
			applied = true
		}
	case wizard.StepDetails:
		if in.Buyer != nil {
			cityErrs, err := m.SetBuyerQuestions(*in.Buyer)
			if err != nil {
				return nil, nil, submittedError(err)
			}
			for k, v := range cityErrs {
				errs[k] = v
			}
			applied = true
		}
		if in.Seller != nil {
			if err := m.SetSellerQuestions(*in.Seller); err != nil {
				return nil, nil, submittedError(err)
			}
			applied = true
		}
	case wizard.StepReview:
		if in.Consent != nil {
			if err := m.SetConsent(*in.Consent); err != nil {
				return nil, nil, submittedError(err)
			}
			applied = true
		}
	}

	if !applied {
		return nil, nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeInvalidPayload,
			Message:    fmt.Sprintf("No data provided for step %d", step),
		}
	}

	if err := s.save(ctx, id.UserID, m.State()); err != nil {
		return nil, nil, err
	}
	return m.State(), errs, nil
}

func (s *intakeService) GoToStep(ctx context.Context, id models.Identity, target int) (*models.WizardState, wizard.ErrorMap, error) {
	m, err := s.loadMachine(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	errs, err := m.GoToStep(target)
	if err != nil {
		return nil, nil, navigationError(err)
	}
	if len(errs) > 0 {
		return m.State(), errs, nil
	}

	if err := s.save(ctx, id.UserID, m.State()); err != nil {
		return nil, nil, err
	}
	return m.State(), nil, nil
}

func (s *intakeService) Next(ctx context.Context, id models.Identity) (*models.WizardState, wizard.ErrorMap, error) {
	m, err := s.loadMachine(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	errs, err := m.Next()
	if err != nil {
		return nil, nil, navigationError(err)
	}
	if len(errs) > 0 {
		return m.State(), errs, nil
	}

	if err := s.save(ctx, id.UserID, m.State()); err != nil {
		return nil, nil, err
	}
	return m.State(), nil, nil
}

func (s *intakeService) Submit(ctx context.Context, id models.Identity) (*models.WizardState, wizard.ErrorMap, error) {
	m, err := s.loadMachine(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	errs, err := m.Submit()
	if err != nil {
		return nil, nil, navigationError(err)
	}
	if len(errs) > 0 {
		return m.State(), errs, nil
	}

	state := m.State()
	payload, err := json.Marshal(state)
	if err != nil {
		return nil, nil, err
	}

	sub := &models.Submission{
		ID:             uuid.New(),
		UserID:         id.UserID,
		Email:          state.AboutYou.Email,
		Phone:          state.Verification.Phone,
		PropertyIntent: state.PropertyIntent,
		Payload:        payload,
		SubmittedAt:    *state.SubmittedAt,
	}
	if err := s.submissions.Create(ctx, sub); err != nil {
		return nil, nil, err
	}

	// The one state-destroying transition: draft cleared exactly once,
	// synchronously with the submitted flip.
	if err := s.drafts.Clear(ctx, id.UserID); err != nil {
		utils.Logger.WithError(err).Errorf("Failed to clear draft for user %s after submission", id.UserID)
	}

	if err := s.notifier.SendSubmissionConfirmation(ctx, sub.Email, state.AboutYou.FirstName); err != nil {
		utils.Logger.WithError(err).Error("Failed to send submission confirmation email")
	}
	if err := s.notifier.SendInternalNotification(ctx, sub); err != nil {
		utils.Logger.WithError(err).Error("Failed to send internal intake notification")
	}

	return state, nil, nil
}

func (s *intakeService) RequestPhoneCode(ctx context.Context, id models.Identity, phone string) error {
	m, err := s.loadMachine(ctx, id)
	if err != nil {
		return err
	}
	if m.State().Status == models.WizardSubmitted {
		return submittedError(wizard.ErrSubmitted)
	}

	e164, err := s.verifier.RequestCode(ctx, phone)
	if err != nil {
		return err
	}

	// Keep the draft's phone in sync with the number the code went to.
	if utils.DigitsOnly(phone) != utils.DigitsOnly(m.State().AboutYou.Phone) {
		about := m.State().AboutYou
		about.Phone = phone
		if err := m.SetAboutYou(about); err != nil {
			return submittedError(err)
		}
	}
	if err := m.MarkCodeSent(e164); err != nil {
		return submittedError(err)
	}
	return s.save(ctx, id.UserID, m.State())
}

func (s *intakeService) CheckPhoneCode(ctx context.Context, id models.Identity, phone, code string) (CheckResult, error) {
	m, err := s.loadMachine(ctx, id)
	if err != nil {
		return CheckResult{}, err
	}
	if m.State().Status == models.WizardSubmitted {
		return CheckResult{}, submittedError(wizard.ErrSubmitted)
	}

	e164, result, err := s.verifier.CheckCode(ctx, phone, code)
	if err != nil {
		return CheckResult{}, err
	}
	if !result.Verified {
		// A well-formed but non-approved response keeps the sub-flow at
		// sent; the buyer retries or resends manually.
		return result, nil
	}

	if utils.DigitsOnly(phone) != utils.DigitsOnly(m.State().AboutYou.Phone) {
		about := m.State().AboutYou
		about.Phone = phone
		if err := m.SetAboutYou(about); err != nil {
			return CheckResult{}, submittedError(err)
		}
	}
	if err := m.MarkPhoneVerified(e164); err != nil {
		return CheckResult{}, submittedError(err)
	}
	if err := s.save(ctx, id.UserID, m.State()); err != nil {
		return CheckResult{}, err
	}
	return result, nil
}

func (s *intakeService) LatestSubmission(ctx context.Context, userID string) (*models.Submission, error) {
	sub, err := s.submissions.GetLatestByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusNotFound,
			Code:       utils.ErrCodeNotFound,
			Message:    "No submission found",
			Err:        utils.ErrNotFound,
		}
	}
	return sub, nil
}

func (s *intakeService) DeleteDraft(ctx context.Context, userID string) error {
	return s.drafts.Clear(ctx, userID)
}

func submittedError(err error) error {
	return &utils.AppError{
		StatusCode: http.StatusConflict,
		Code:       utils.ErrCodeWizardSubmitted,
		Message:    "This journey has already been submitted",
		Err:        err,
	}
}

func navigationError(err error) error {
	if err == wizard.ErrSubmitted {
		return submittedError(err)
	}
	return &utils.AppError{
		StatusCode: http.StatusBadRequest,
		Code:       utils.ErrCodeInvalidPayload,
		Message:    err.Error(),
		Err:        err,
	}
}
