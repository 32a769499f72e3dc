package routes

// Health is served unauthenticated at the router root; everything else
// hangs off APIBase behind the auth middleware.
const (
	Health = "/health"

	APIBase = "/api/v1"

	// Wizard endpoints (relative to APIBase)
	Wizard       = "/intake/wizard"
	WizardStep   = "/intake/wizard/steps/{step:[0-9]+}"
	WizardGoto   = "/intake/wizard/goto"
	WizardNext   = "/intake/wizard/next"
	WizardSubmit = "/intake/wizard/submit"
	WizardDraft  = "/intake/wizard/draft"

	// Latest terminal record
	Submission = "/intake/submission"

	// Phone verification sub-flow
	VerificationRequest = "/intake/verification/request"
	VerificationCheck   = "/intake/verification/check"
)
