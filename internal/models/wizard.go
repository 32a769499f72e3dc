package models

import "time"

// WizardStatus is the terminal flag for an intake journey. A wizard only
// ever moves draft -> submitted, never back.
type WizardStatus string

const (
	WizardDraft     WizardStatus = "draft"
	WizardSubmitted WizardStatus = "submitted"
)

// PropertyIntent is what the buyer selected at step 2 and drives which
// branch of step 3 is shown and required.
type PropertyIntent string

const (
	IntentUnset       PropertyIntent = ""
	IntentBuyFirst    PropertyIntent = "buy-first"
	IntentBuyAnother  PropertyIntent = "buy-another"
	IntentSellCurrent PropertyIntent = "sell-current"
	IntentSellAndBuy  PropertyIntent = "sell-and-buy"
)

func (p PropertyIntent) Valid() bool {
	switch p {
	case IntentBuyFirst, IntentBuyAnother, IntentSellCurrent, IntentSellAndBuy:
		return true
	}
	return false
}

// IncludesBuying reports whether the buyer question block applies.
func (p PropertyIntent) IncludesBuying() bool {
	return p == IntentBuyFirst || p == IntentBuyAnother || p == IntentSellAndBuy
}

// IncludesSelling reports whether the seller question block applies.
func (p PropertyIntent) IncludesSelling() bool {
	return p == IntentSellCurrent || p == IntentSellAndBuy
}

type PreApprovalStatus string

const (
	PreApprovalYes        PreApprovalStatus = "yes"
	PreApprovalInProgress PreApprovalStatus = "in_progress"
	PreApprovalNo         PreApprovalStatus = "no"
)

func (p PreApprovalStatus) Valid() bool {
	return p == PreApprovalYes || p == PreApprovalInProgress || p == PreApprovalNo
}

type ContactPreference string

const (
	ContactCall     ContactPreference = "call"
	ContactWhatsApp ContactPreference = "whatsapp"
	ContactEmail    ContactPreference = "email"
)

func (c ContactPreference) Valid() bool {
	return c == ContactCall || c == ContactWhatsApp || c == ContactEmail
}

// VerificationStatus tracks the OTP sub-flow. unsent and sent are
// re-enterable; editing the phone number resets to unsent.
type VerificationStatus string

const (
	VerificationUnsent   VerificationStatus = "unsent"
	VerificationSent     VerificationStatus = "sent"
	VerificationVerified VerificationStatus = "verified"
)

// AboutYou holds step-1 identity and contact fields. Email is sourced
// from the authenticated identity and never user-editable.
type AboutYou struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	HasReferral  bool   `json:"hasReferral"`
	ReferralCode string `json:"referralCode"`
}

// BuyerQuestions is required when PropertyIntent includes buying.
type BuyerQuestions struct {
	PreferredCities        []string          `json:"preferredCities"`
	BudgetRange            string            `json:"budgetRange"`
	PropertyTypes          []string          `json:"propertyTypes"`
	Timeline               string            `json:"timeline"`
	PreApprovalStatus      PreApprovalStatus `json:"preApprovalStatus"`
	MortgageApprovedAmount string            `json:"mortgageApprovedAmount"`
	IsPrimaryResidence     *bool             `json:"isPrimaryResidence"`
}

// SellerQuestions is required when PropertyIntent includes selling.
type SellerQuestions struct {
	PropertyType          string `json:"propertyType"`
	City                  string `json:"city"`
	IntersectionOrAddress string `json:"intersectionOrAddress"`
	PriceExpectationRange string `json:"priceExpectationRange"`
	SellingTimeline       string `json:"sellingTimeline"`
	SellingReason         string `json:"sellingReason"`
	PropertyCondition     string `json:"propertyCondition"`
	PropertyNotes         string `json:"propertyNotes"`
}

// Consent holds the step-4 general questions and the two required
// acceptance booleans.
type Consent struct {
	HasCurrentAgent      bool              `json:"hasCurrentAgent"`
	ContactPreference    ContactPreference `json:"contactPreference"`
	AdditionalNotes      string            `json:"additionalNotes"`
	CommunicationConsent bool              `json:"communicationConsent"`
	TermsAccepted        bool              `json:"termsAccepted"`
}

// PhoneVerification binds OTP state to the exact E.164 number the code
// was sent to / approved for.
type PhoneVerification struct {
	Status VerificationStatus `json:"status"`
	Phone  string             `json:"phone"`
}

// WizardState is the single source of truth for the intake flow. It is
// mutated exclusively through the wizard state machine and persisted as
// a whole by the draft repository while Status == draft.
type WizardState struct {
	CurrentStep     int               `json:"currentStep"`
	Status          WizardStatus      `json:"status"`
	PropertyIntent  PropertyIntent    `json:"propertyIntent"`
	AboutYou        AboutYou          `json:"aboutYou"`
	BuyerQuestions  BuyerQuestions    `json:"buyerQuestions"`
	SellerQuestions SellerQuestions   `json:"sellerQuestions"`
	Consent         Consent           `json:"consent"`
	Verification    PhoneVerification `json:"verification"`
	SubmittedAt     *time.Time        `json:"submittedAt,omitempty"`
}

// Identity is the snapshot of the authenticated user the wizard is
// seeded from; it is passed in explicitly rather than read from ambient
// context so the state machine stays testable in isolation.
type Identity struct {
	UserID    string
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// NewWizardState creates a fresh draft pre-filled from the identity
// snapshot, the same way the journey UI pre-fills from the profile.
func NewWizardState(id Identity) *WizardState {
	return &WizardState{
		CurrentStep: 1,
		Status:      WizardDraft,
		AboutYou: AboutYou{
			FirstName: id.FirstName,
			LastName:  id.LastName,
			Email:     id.Email,
			Phone:     id.Phone,
		},
		BuyerQuestions: BuyerQuestions{
			PreferredCities: []string{},
			PropertyTypes:   []string{},
		},
		Verification: PhoneVerification{Status: VerificationUnsent},
	}
}
