package wizard

import (
	"fmt"
	"strings"

	"github.com/hauseeHQ/intake-service/internal/models"
	"github.com/hauseeHQ/intake-service/internal/utils"
)

// ErrorMap maps a field name to a human-readable message. Absence of a
// key means the field is currently valid.
type ErrorMap map[string]string

// Validate runs the step's rules against the state and returns the
// field-level errors. It is synchronous and side-effect free: no network
// or storage access ever happens here.
func Validate(step int, s *models.WizardState) ErrorMap {
	errs := ErrorMap{}

	switch step {
	case StepContact:
		validateContact(s, errs)
	case StepIntent:
		if !s.PropertyIntent.Valid() {
			errs["propertyIntent"] = "Please select your property intent"
		}
	case StepDetails:
		if s.PropertyIntent.IncludesBuying() {
			validateBuyer(&s.BuyerQuestions, errs)
		}
		if s.PropertyIntent.IncludesSelling() {
			validateSeller(&s.SellerQuestions, errs)
		}
	case StepReview:
		validateConsent(&s.Consent, errs)
	}

	return errs
}

func validateContact(s *models.WizardState, errs ErrorMap) {
	about := &s.AboutYou

	if len(strings.TrimSpace(about.FirstName)) < 2 {
		errs["firstName"] = "First name must be at least 2 characters"
	}
	if len(strings.TrimSpace(about.LastName)) < 2 {
		errs["lastName"] = "Last name must be at least 2 characters"
	}

	digits := utils.DigitsOnly(about.Phone)
	if len(digits) != 10 {
		errs["phone"] = "Please enter a valid 10-digit phone number"
	} else if !phoneVerified(s) {
		// valid digits are not enough; the exact number must be OTP-verified
		errs["phone"] = "Please verify your phone number (OTP) before continuing"
	}

	if about.HasReferral && strings.TrimSpace(about.ReferralCode) == "" {
		errs["referralCode"] = "Please enter your referral code"
	}
}

// phoneVerified reports whether the verification sub-flow has approved
// the exact digit string currently entered.
func phoneVerified(s *models.WizardState) bool {
	if s.Verification.Status != models.VerificationVerified {
		return false
	}
	e164, ok := utils.ToE164(s.AboutYou.Phone)
	return ok && e164 == s.Verification.Phone
}

func validateBuyer(b *models.BuyerQuestions, errs ErrorMap) {
	switch {
	case len(b.PreferredCities) == 0:
		errs["preferredCities"] = "Please select at least one city"
	case len(b.PreferredCities) > models.MaxPreferredCities:
		errs["preferredCities"] = fmt.Sprintf("Please select up to %d cities", models.MaxPreferredCities)
	default:
		for _, city := range b.PreferredCities {
			if !models.InCatalog(models.OntarioCities, city) {
				errs["preferredCities"] = "Please select cities from the list"
				break
			}
		}
	}

	if !models.InCatalog(models.BudgetRanges, b.BudgetRange) {
		errs["budgetRange"] = "Please select your budget range"
	}

	if len(b.PropertyTypes) == 0 {
		errs["propertyTypes"] = "Please select at least one property type"
	} else {
		for _, t := range b.PropertyTypes {
			if !models.InCatalog(models.PropertyTypes, t) {
				errs["propertyTypes"] = "Please select property types from the list"
				break
			}
		}
	}

	if !models.InCatalog(models.BuyerTimelines, b.Timeline) {
		errs["timeline"] = "Please select your timeline"
	}

	if !b.PreApprovalStatus.Valid() {
		errs["preApprovalStatus"] = "Please select your pre-approval status"
	}
	if b.PreApprovalStatus == models.PreApprovalYes && strings.TrimSpace(b.MortgageApprovedAmount) == "" {
		errs["mortgageApprovedAmount"] = "Please enter your approved amount"
	}

	if b.IsPrimaryResidence == nil {
		errs["isPrimaryResidence"] = "Please indicate if this is for primary residence"
	}
}

func validateSeller(q *models.SellerQuestions, errs ErrorMap) {
	if !models.InCatalog(models.SellerPropertyTypes, q.PropertyType) {
		errs["propertyType"] = "Please select property type"
	}
	if !models.InCatalog(models.OntarioCities, q.City) {
		errs["city"] = "Please select a city"
	}
	if strings.TrimSpace(q.IntersectionOrAddress) == "" {
		errs["intersectionOrAddress"] = "Please enter intersection or address"
	}
	if !models.InCatalog(models.PriceExpectationRanges, q.PriceExpectationRange) {
		errs["priceExpectationRange"] = "Please select price expectation range"
	}
	if !models.InCatalog(models.SellingTimelines, q.SellingTimeline) {
		errs["sellingTimeline"] = "Please select selling timeline"
	}
	if !models.InCatalog(models.SellingReasons, q.SellingReason) {
		errs["sellingReason"] = "Please select reason for selling"
	}
	if !models.InCatalog(models.PropertyConditions, q.PropertyCondition) {
		errs["propertyCondition"] = "Please select property condition"
	}
	if len(q.PropertyNotes) > models.MaxNotesLength {
		errs["propertyNotes"] = fmt.Sprintf("Notes must be %d characters or fewer", models.MaxNotesLength)
	}
}

func validateConsent(c *models.Consent, errs ErrorMap) {
	if !c.CommunicationConsent {
		errs["communicationConsent"] = "You must consent to receive communication"
	}
	if !c.TermsAccepted {
		errs["termsAccepted"] = "You must accept all terms to continue"
	}
	if !c.ContactPreference.Valid() {
		errs["contactPreference"] = "Please select your preferred contact method"
	}
	if len(c.AdditionalNotes) > models.MaxNotesLength {
		errs["additionalNotes"] = fmt.Sprintf("Notes must be %d characters or fewer", models.MaxNotesLength)
	}
}
