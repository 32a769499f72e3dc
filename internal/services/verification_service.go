package services

import (
	"context"
	"net/http"
	"strings"

	twilio "github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	verifyv2 "github.com/twilio/twilio-go/rest/verify/v2"

	"github.com/hauseeHQ/intake-service/internal/config"
	"github.com/hauseeHQ/intake-service/internal/utils"
)

const (
	// Test numbers bypass Twilio entirely when the intake_otp_test_bypass
	// flag is on (never in prod; config refuses that combination).
	TestPhoneNumberBase = "+1555000"
	TestPhoneCode       = "000000"

	verifyChannelSMS = "sms"
	statusApproved   = "approved"
)

// VerifyAPI is the slice of Twilio Verify v2 the service uses;
// *verifyv2.ApiService satisfies it and tests swap in a fake.
type VerifyAPI interface {
	CreateVerification(serviceSid string, params *verifyv2.CreateVerificationParams) (*verifyv2.VerifyV2Verification, error)
	CreateVerificationCheck(serviceSid string, params *verifyv2.CreateVerificationCheckParams) (*verifyv2.VerifyV2VerificationCheck, error)
}

// CheckResult mirrors the verification provider's check outcome.
type CheckResult struct {
	Verified bool   `json:"verified"`
	Status   string `json:"status"`
}

// VerificationService wraps the one-time-code provider. Both operations
// convert the 10-digit local number to E.164 first and refuse locally
// (no outbound call) when conversion fails.
type VerificationService interface {
	RequestCode(ctx context.Context, rawPhone string) (string, error)
	CheckCode(ctx context.Context, rawPhone, code string) (string, CheckResult, error)
}

type verificationService struct {
	cfg          *config.Config
	verifyAPI    VerifyAPI
	twilioClient *twilio.RestClient
}

func NewVerificationService(cfg *config.Config) VerificationService {
	twClient := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
	return &verificationService{
		cfg:          cfg,
		verifyAPI:    twClient.VerifyV2,
		twilioClient: twClient,
	}
}

// NewVerificationServiceWithAPI is used by tests to inject a fake
// Verify API.
func NewVerificationServiceWithAPI(cfg *config.Config, api VerifyAPI) VerificationService {
	return &verificationService{cfg: cfg, verifyAPI: api}
}

func (s *verificationService) RequestCode(ctx context.Context, rawPhone string) (string, error) {
	e164, ok := utils.ToE164(rawPhone)
	if !ok {
		return "", invalidPhoneError()
	}

	if s.bypass(e164) {
		utils.Logger.Infof("OTP test bypass: skipping Twilio send for %s", e164)
		return e164, nil
	}

	ok, err := utils.ValidatePhoneNumber(ctx, e164, nil, s.cfg.LDFlag_ValidatePhoneWithTwilio, s.twilioClient)
	if err != nil {
		return "", twilioError("Failed to send verification code. Please try again.", err)
	}
	if !ok {
		return "", invalidPhoneError()
	}

	params := &verifyv2.CreateVerificationParams{}
	params.SetTo(e164)
	params.SetChannel(verifyChannelSMS)

	if _, err := s.verifyAPI.CreateVerification(s.cfg.TwilioVerifyServiceSID, params); err != nil {
		utils.Logger.WithError(err).Errorf("Failed to start phone verification for %s", e164)
		return "", twilioError("Failed to send verification code. Please try again.", err)
	}
	return e164, nil
}

func (s *verificationService) CheckCode(ctx context.Context, rawPhone, code string) (string, CheckResult, error) {
	e164, ok := utils.ToE164(rawPhone)
	if !ok {
		return "", CheckResult{}, invalidPhoneError()
	}
	if len(code) != 6 || utils.DigitsOnly(code) != code {
		return "", CheckResult{}, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeValidation,
			Message:    "Please enter a 6-digit verification code",
		}
	}

	if s.bypass(e164) {
		approved := code == TestPhoneCode
		status := "pending"
		if approved {
			status = statusApproved
		}
		return e164, CheckResult{Verified: approved, Status: status}, nil
	}

	params := &verifyv2.CreateVerificationCheckParams{}
	params.SetTo(e164)
	params.SetCode(code)

	check, err := s.verifyAPI.CreateVerificationCheck(s.cfg.TwilioVerifyServiceSID, params)
	if err != nil {
		utils.Logger.WithError(err).Errorf("Verification check failed for %s", e164)
		return "", CheckResult{}, twilioError("Invalid verification code. Please try again.", err)
	}

	status := ""
	if check.Status != nil {
		status = *check.Status
	}
	return e164, CheckResult{Verified: status == statusApproved, Status: status}, nil
}

func (s *verificationService) bypass(e164 string) bool {
	return s.cfg.LDFlag_OTPTestBypass && strings.HasPrefix(e164, TestPhoneNumberBase)
}

func invalidPhoneError() error {
	return &utils.AppError{
		StatusCode: http.StatusBadRequest,
		Code:       utils.ErrCodeValidation,
		Message:    "Please enter a valid 10-digit phone number",
		Err:        utils.ErrInvalidPhone,
	}
}

// twilioError surfaces the provider's own message when it has one, the
// generic fallback otherwise. One message per attempt, no retries.
func twilioError(fallback string, err error) error {
	msg := fallback
	if restErr, ok := err.(*twilioclient.TwilioRestError); ok && restErr.Message != "" {
		msg = restErr.Message
	}
	return &utils.AppError{
		StatusCode: http.StatusBadGateway,
		Code:       utils.ErrCodeExternalServiceFailure,
		Message:    msg,
		Err:        err,
	}
}
