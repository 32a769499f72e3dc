package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hauseeHQ/intake-service/internal/models"
)

func TestGoToStepBackwardAlwaysAllowed(t *testing.T) {
	m := NewMachine(validBuyerState())
	m.State().CurrentStep = StepReview
	// wipe everything; backward navigation must not care
	m.State().AboutYou = models.AboutYou{}
	m.State().Consent = models.Consent{}

	errs, err := m.GoToStep(StepContact)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, StepContact, m.State().CurrentStep)
}

func TestGoToStepForwardGatedOnCurrentStep(t *testing.T) {
	s := validBuyerState()
	s.AboutYou.FirstName = ""
	m := NewMachine(s)

	errs, err := m.GoToStep(StepIntent)
	require.NoError(t, err)
	assert.Contains(t, errs, "firstName")
	assert.Equal(t, StepContact, m.State().CurrentStep)

	m.State().AboutYou.FirstName = "Jordan"
	errs, err = m.GoToStep(StepIntent)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, StepIntent, m.State().CurrentStep)
}

func TestGoToStepRejectsCompleteAndOutOfRange(t *testing.T) {
	m := NewMachine(validBuyerState())

	_, err := m.GoToStep(StepComplete)
	assert.Error(t, err)

	_, err = m.GoToStep(0)
	assert.Error(t, err)

	_, err = m.GoToStep(7)
	assert.Error(t, err)
}

func TestNextStopsAtReview(t *testing.T) {
	m := NewMachine(validBuyerState())

	for _, want := range []int{StepIntent, StepDetails, StepReview} {
		errs, err := m.Next()
		require.NoError(t, err)
		require.Empty(t, errs)
		assert.Equal(t, want, m.State().CurrentStep)
	}

	_, err := m.Next()
	assert.ErrorIs(t, err, ErrNotOnReviewStep)
}

func TestSubmit(t *testing.T) {
	m := NewMachine(validBuyerState())
	m.State().CurrentStep = StepReview

	errs, err := m.Submit()
	require.NoError(t, err)
	require.Empty(t, errs)

	s := m.State()
	assert.Equal(t, models.WizardSubmitted, s.Status)
	assert.Equal(t, StepComplete, s.CurrentStep)
	require.NotNil(t, s.SubmittedAt)
	assert.Equal(t, s.SubmittedAt.UTC(), *s.SubmittedAt)

	// terminal: every mutation refuses from here on
	_, err = m.Submit()
	assert.ErrorIs(t, err, ErrSubmitted)
	assert.ErrorIs(t, m.SetAboutYou(s.AboutYou), ErrSubmitted)
	assert.ErrorIs(t, m.SetPropertyIntent(models.IntentBuyFirst), ErrSubmitted)
	assert.ErrorIs(t, m.SetSellerQuestions(models.SellerQuestions{}), ErrSubmitted)
	assert.ErrorIs(t, m.SetConsent(models.Consent{}), ErrSubmitted)
	assert.ErrorIs(t, m.MarkCodeSent("+15551234567"), ErrSubmitted)
	_, err = m.GoToStep(StepContact)
	assert.ErrorIs(t, err, ErrSubmitted)
}

func TestSubmitOnlyFromReview(t *testing.T) {
	m := NewMachine(validBuyerState())
	_, err := m.Submit()
	assert.ErrorIs(t, err, ErrNotOnReviewStep)
}

func TestSubmitBlockedByReviewErrors(t *testing.T) {
	s := validBuyerState()
	s.CurrentStep = StepReview
	s.Consent.TermsAccepted = false
	m := NewMachine(s)

	errs, err := m.Submit()
	require.NoError(t, err)
	assert.Contains(t, errs, "termsAccepted")
	assert.Equal(t, models.WizardDraft, m.State().Status)
	assert.Nil(t, m.State().SubmittedAt)
}

func TestSetAboutYouEmailImmutable(t *testing.T) {
	m := NewMachine(validBuyerState())
	in := m.State().AboutYou
	in.Email = "attacker@example.com"
	require.NoError(t, m.SetAboutYou(in))
	assert.Equal(t, "jordan@example.com", m.State().AboutYou.Email)
}

func TestSetAboutYouPhoneChangeResetsVerification(t *testing.T) {
	m := NewMachine(validBuyerState())

	// reformatting the same digits must not reset
	in := m.State().AboutYou
	in.Phone = "555.123.4567"
	require.NoError(t, m.SetAboutYou(in))
	assert.Equal(t, models.VerificationVerified, m.State().Verification.Status)

	in.Phone = "(555) 999-0000"
	require.NoError(t, m.SetAboutYou(in))
	assert.Equal(t, models.VerificationUnsent, m.State().Verification.Status)
	assert.Empty(t, m.State().Verification.Phone)
}

func TestSetAboutYouClearsReferralCodeWhenToggledOff(t *testing.T) {
	m := NewMachine(validBuyerState())
	in := m.State().AboutYou
	in.HasReferral = true
	in.ReferralCode = "FRIEND10"
	require.NoError(t, m.SetAboutYou(in))

	in.HasReferral = false
	require.NoError(t, m.SetAboutYou(in))
	assert.Empty(t, m.State().AboutYou.ReferralCode)
}

func TestSetPropertyIntentRetainsOtherBranch(t *testing.T) {
	m := NewMachine(validBuyerState())
	require.NoError(t, m.SetSellerQuestions(validSellerQuestions()))

	require.NoError(t, m.SetPropertyIntent(models.IntentSellCurrent))
	assert.NotEmpty(t, m.State().BuyerQuestions.PreferredCities)

	require.NoError(t, m.SetPropertyIntent(models.IntentBuyFirst))
	assert.Equal(t, "Oakville", m.State().SellerQuestions.City)
}

func TestSetBuyerQuestionsCityCap(t *testing.T) {
	m := NewMachine(validBuyerState())

	in := m.State().BuyerQuestions
	in.PreferredCities = []string{"Toronto", "Markham", "Vaughan", "Milton"}
	in.BudgetRange = "$1.6M or more"

	errs, err := m.SetBuyerQuestions(in)
	require.NoError(t, err)
	assert.Equal(t, "Please select up to 3 cities", errs["preferredCities"])

	// list rejected whole, never truncated; the rest still applied
	assert.Equal(t, []string{"Toronto", "Markham"}, m.State().BuyerQuestions.PreferredCities)
	assert.Equal(t, "$1.6M or more", m.State().BuyerQuestions.BudgetRange)
}

func TestSetBuyerQuestionsDedupesCities(t *testing.T) {
	m := NewMachine(validBuyerState())
	in := m.State().BuyerQuestions
	in.PreferredCities = []string{"Toronto", "Toronto", "Markham"}

	errs, err := m.SetBuyerQuestions(in)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, []string{"Toronto", "Markham"}, m.State().BuyerQuestions.PreferredCities)
}

func TestAddPreferredCity(t *testing.T) {
	m := NewMachine(validBuyerState())

	errs, err := m.AddPreferredCity("Vaughan")
	require.NoError(t, err)
	assert.Empty(t, errs)

	// duplicate is a no-op
	errs, err = m.AddPreferredCity("Vaughan")
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Len(t, m.State().BuyerQuestions.PreferredCities, 3)

	// fourth city rejected, list unchanged
	errs, err = m.AddPreferredCity("Milton")
	require.NoError(t, err)
	assert.Equal(t, "Please select up to 3 cities", errs["preferredCities"])
	assert.Equal(t, []string{"Toronto", "Markham", "Vaughan"}, m.State().BuyerQuestions.PreferredCities)
}

func TestRemovePreferredCity(t *testing.T) {
	m := NewMachine(validBuyerState())
	require.NoError(t, m.RemovePreferredCity("Toronto"))
	assert.Equal(t, []string{"Markham"}, m.State().BuyerQuestions.PreferredCities)

	// removing an absent city is a no-op
	require.NoError(t, m.RemovePreferredCity("Gotham"))
	assert.Equal(t, []string{"Markham"}, m.State().BuyerQuestions.PreferredCities)
}

func TestVerificationSubFlow(t *testing.T) {
	s := models.NewWizardState(models.Identity{UserID: "user-1"})
	m := NewMachine(s)
	assert.Equal(t, models.VerificationUnsent, s.Verification.Status)

	require.NoError(t, m.MarkCodeSent("+15551234567"))
	assert.Equal(t, models.VerificationSent, s.Verification.Status)
	assert.Equal(t, "+15551234567", s.Verification.Phone)

	// resend is re-enterable
	require.NoError(t, m.MarkCodeSent("+15551234567"))
	assert.Equal(t, models.VerificationSent, s.Verification.Status)

	require.NoError(t, m.MarkPhoneVerified("+15551234567"))
	assert.Equal(t, models.VerificationVerified, s.Verification.Status)
}
