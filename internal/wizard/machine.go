package wizard

import (
	"errors"
	"fmt"
	"time"

	"github.com/hauseeHQ/intake-service/internal/models"
	"github.com/hauseeHQ/intake-service/internal/utils"
)

// Wizard steps. StepComplete is terminal and only reachable via Submit.
const (
	StepContact  = 1
	StepIntent   = 2
	StepDetails  = 3
	StepReview   = 4
	StepComplete = 5
)

var (
	ErrSubmitted       = errors.New("wizard already submitted")
	ErrNotOnReviewStep = errors.New("submit is only allowed from the review step")
)

// Machine owns all mutation of a WizardState. It performs no I/O:
// persistence is an explicit policy applied by the caller after each
// mutation, and the verification service reports its outcomes through
// MarkCodeSent / MarkPhoneVerified.
type Machine struct {
	state *models.WizardState
	now   func() time.Time
}

func NewMachine(state *models.WizardState) *Machine {
	return &Machine{state: state, now: time.Now}
}

func (m *Machine) State() *models.WizardState { return m.state }

// Validate exposes the step validator over the machine's state.
func (m *Machine) Validate(step int) ErrorMap {
	return Validate(step, m.state)
}

// GoToStep moves to target. Backward navigation is never blocked;
// forward navigation requires the current step to validate cleanly.
// StepComplete cannot be targeted directly, only Submit reaches it.
func (m *Machine) GoToStep(target int) (ErrorMap, error) {
	if m.state.Status == models.WizardSubmitted {
		return nil, ErrSubmitted
	}
	if target < StepContact || target >= StepComplete {
		return nil, fmt.Errorf("invalid step %d", target)
	}
	if target <= m.state.CurrentStep {
		m.state.CurrentStep = target
		return nil, nil
	}
	if errs := Validate(m.state.CurrentStep, m.state); len(errs) > 0 {
		return errs, nil
	}
	m.state.CurrentStep = target
	return nil, nil
}

func (m *Machine) Next() (ErrorMap, error) {
	if m.state.CurrentStep == StepReview {
		return nil, ErrNotOnReviewStep
	}
	return m.GoToStep(m.state.CurrentStep + 1)
}

// Submit runs the review-step validation and performs the only
// state-destroying transition: draft -> submitted. The caller is
// responsible for clearing the persisted draft at the same moment.
func (m *Machine) Submit() (ErrorMap, error) {
	if m.state.Status == models.WizardSubmitted {
		return nil, ErrSubmitted
	}
	if m.state.CurrentStep != StepReview {
		return nil, ErrNotOnReviewStep
	}
	if errs := Validate(StepReview, m.state); len(errs) > 0 {
		return errs, nil
	}
	now := m.now().UTC()
	m.state.Status = models.WizardSubmitted
	m.state.SubmittedAt = &now
	m.state.CurrentStep = StepComplete
	return nil, nil
}

// SetAboutYou replaces the step-1 fields. Email is immutable within the
// wizard; changing the phone's digit string resets the verification
// sub-flow because verification is bound to the exact number verified.
func (m *Machine) SetAboutYou(in models.AboutYou) error {
	if m.state.Status == models.WizardSubmitted {
		return ErrSubmitted
	}
	if utils.DigitsOnly(in.Phone) != utils.DigitsOnly(m.state.AboutYou.Phone) {
		m.ResetVerification()
	}
	email := m.state.AboutYou.Email
	m.state.AboutYou = in
	m.state.AboutYou.Email = email
	if !in.HasReferral {
		m.state.AboutYou.ReferralCode = ""
	}
	return nil
}

// SetPropertyIntent selects the step-2 branch. Previously entered buyer
// or seller answers are retained on change so a fast re-toggle loses
// nothing; validation and review only ever consider the active branch.
func (m *Machine) SetPropertyIntent(p models.PropertyIntent) error {
	if m.state.Status == models.WizardSubmitted {
		return ErrSubmitted
	}
	m.state.PropertyIntent = p
	return nil
}

// SetBuyerQuestions replaces the buyer block. A city list beyond the cap
// is rejected outright: the previous list stays untouched (never
// truncated) and a length-limit error is reported, while the remaining
// fields still apply.
func (m *Machine) SetBuyerQuestions(in models.BuyerQuestions) (ErrorMap, error) {
	if m.state.Status == models.WizardSubmitted {
		return nil, ErrSubmitted
	}
	cities := dedupe(in.PreferredCities)
	var errs ErrorMap
	if len(cities) > models.MaxPreferredCities {
		errs = ErrorMap{
			"preferredCities": fmt.Sprintf("Please select up to %d cities", models.MaxPreferredCities),
		}
		cities = append([]string{}, m.state.BuyerQuestions.PreferredCities...)
	}
	m.state.BuyerQuestions = in
	m.state.BuyerQuestions.PreferredCities = cities
	return errs, nil
}

// AddPreferredCity appends one city. Adding beyond the cap leaves the
// list unchanged and reports the limit; duplicates are no-ops.
func (m *Machine) AddPreferredCity(city string) (ErrorMap, error) {
	if m.state.Status == models.WizardSubmitted {
		return nil, ErrSubmitted
	}
	for _, c := range m.state.BuyerQuestions.PreferredCities {
		if c == city {
			return nil, nil
		}
	}
	if len(m.state.BuyerQuestions.PreferredCities) >= models.MaxPreferredCities {
		return ErrorMap{
			"preferredCities": fmt.Sprintf("Please select up to %d cities", models.MaxPreferredCities),
		}, nil
	}
	m.state.BuyerQuestions.PreferredCities = append(m.state.BuyerQuestions.PreferredCities, city)
	return nil, nil
}

func (m *Machine) RemovePreferredCity(city string) error {
	if m.state.Status == models.WizardSubmitted {
		return ErrSubmitted
	}
	kept := m.state.BuyerQuestions.PreferredCities[:0]
	for _, c := range m.state.BuyerQuestions.PreferredCities {
		if c != city {
			kept = append(kept, c)
		}
	}
	m.state.BuyerQuestions.PreferredCities = kept
	return nil
}

func (m *Machine) SetSellerQuestions(in models.SellerQuestions) error {
	if m.state.Status == models.WizardSubmitted {
		return ErrSubmitted
	}
	m.state.SellerQuestions = in
	return nil
}

func (m *Machine) SetConsent(in models.Consent) error {
	if m.state.Status == models.WizardSubmitted {
		return ErrSubmitted
	}
	m.state.Consent = in
	return nil
}

// MarkCodeSent records that a verification code went out to e164.
func (m *Machine) MarkCodeSent(e164 string) error {
	if m.state.Status == models.WizardSubmitted {
		return ErrSubmitted
	}
	m.state.Verification = models.PhoneVerification{
		Status: models.VerificationSent,
		Phone:  e164,
	}
	return nil
}

// MarkPhoneVerified records an approved verification check for e164.
func (m *Machine) MarkPhoneVerified(e164 string) error {
	if m.state.Status == models.WizardSubmitted {
		return ErrSubmitted
	}
	m.state.Verification = models.PhoneVerification{
		Status: models.VerificationVerified,
		Phone:  e164,
	}
	return nil
}

// ResetVerification returns the sub-flow to unsent and discards the
// bound number.
func (m *Machine) ResetVerification() {
	m.state.Verification = models.PhoneVerification{Status: models.VerificationUnsent}
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
