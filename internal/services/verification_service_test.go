package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	twilioclient "github.com/twilio/twilio-go/client"
	verifyv2 "github.com/twilio/twilio-go/rest/verify/v2"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hauseeHQ/intake-service/internal/config"
	"github.com/hauseeHQ/intake-service/internal/utils"
)

type fakeVerifyAPI struct {
	createCalls []verifyv2.CreateVerificationParams
	checkCalls  []verifyv2.CreateVerificationCheckParams

	createErr   error
	checkErr    error
	checkStatus string
}

func (f *fakeVerifyAPI) CreateVerification(serviceSid string, params *verifyv2.CreateVerificationParams) (*verifyv2.VerifyV2Verification, error) {
	f.createCalls = append(f.createCalls, *params)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &verifyv2.VerifyV2Verification{}, nil
}

func (f *fakeVerifyAPI) CreateVerificationCheck(serviceSid string, params *verifyv2.CreateVerificationCheckParams) (*verifyv2.VerifyV2VerificationCheck, error) {
	f.checkCalls = append(f.checkCalls, *params)
	if f.checkErr != nil {
		return nil, f.checkErr
	}
	status := f.checkStatus
	return &verifyv2.VerifyV2VerificationCheck{Status: &status}, nil
}

func newTestVerifier(api VerifyAPI) VerificationService {
	return NewVerificationServiceWithAPI(&config.Config{
		TwilioVerifyServiceSID: "VAtest",
	}, api)
}

func appErr(t *testing.T, err error) *utils.AppError {
	t.Helper()
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr
}

func TestRequestCode(t *testing.T) {
	fake := &fakeVerifyAPI{}
	svc := newTestVerifier(fake)

	e164, err := svc.RequestCode(context.Background(), "(555) 123-4567")
	require.NoError(t, err)
	assert.Equal(t, "+15551234567", e164)

	require.Len(t, fake.createCalls, 1)
	assert.Equal(t, "+15551234567", *fake.createCalls[0].To)
	assert.Equal(t, "sms", *fake.createCalls[0].Channel)
}

func TestRequestCodeRejectsBadNumberLocally(t *testing.T) {
	fake := &fakeVerifyAPI{}
	svc := newTestVerifier(fake)

	_, err := svc.RequestCode(context.Background(), "555-1234")
	ae := appErr(t, err)
	assert.Equal(t, http.StatusBadRequest, ae.StatusCode)
	assert.Equal(t, utils.ErrCodeValidation, ae.Code)
	assert.ErrorIs(t, err, utils.ErrInvalidPhone)

	// the provider must never be contacted for an unconvertible number
	assert.Empty(t, fake.createCalls)
}

func TestRequestCodeProviderFailure(t *testing.T) {
	fake := &fakeVerifyAPI{createErr: &twilioclient.TwilioRestError{
		Status:  429,
		Message: "Max send attempts reached",
	}}
	svc := newTestVerifier(fake)

	_, err := svc.RequestCode(context.Background(), "5551234567")
	ae := appErr(t, err)
	assert.Equal(t, http.StatusBadGateway, ae.StatusCode)
	assert.Equal(t, utils.ErrCodeExternalServiceFailure, ae.Code)
	assert.Equal(t, "Max send attempts reached", ae.Message)
}

func TestRequestCodeProviderFailureGenericMessage(t *testing.T) {
	fake := &fakeVerifyAPI{createErr: errors.New("dial tcp: timeout")}
	svc := newTestVerifier(fake)

	_, err := svc.RequestCode(context.Background(), "5551234567")
	ae := appErr(t, err)
	assert.Equal(t, "Failed to send verification code. Please try again.", ae.Message)
}

func TestCheckCodeApproved(t *testing.T) {
	fake := &fakeVerifyAPI{checkStatus: "approved"}
	svc := newTestVerifier(fake)

	e164, result, err := svc.CheckCode(context.Background(), "5551234567", "123456")
	require.NoError(t, err)
	assert.Equal(t, "+15551234567", e164)
	assert.True(t, result.Verified)
	assert.Equal(t, "approved", result.Status)

	require.Len(t, fake.checkCalls, 1)
	assert.Equal(t, "123456", *fake.checkCalls[0].Code)
}

func TestCheckCodeWrongCodeIsNotAnError(t *testing.T) {
	fake := &fakeVerifyAPI{checkStatus: "pending"}
	svc := newTestVerifier(fake)

	_, result, err := svc.CheckCode(context.Background(), "5551234567", "000001")
	require.NoError(t, err)
	assert.False(t, result.Verified)
	assert.Equal(t, "pending", result.Status)
}

func TestCheckCodeShapeValidation(t *testing.T) {
	fake := &fakeVerifyAPI{}
	svc := newTestVerifier(fake)

	for _, code := range []string{"", "12345", "1234567", "12a456"} {
		_, _, err := svc.CheckCode(context.Background(), "5551234567", code)
		ae := appErr(t, err)
		assert.Equal(t, http.StatusBadRequest, ae.StatusCode)
	}
	assert.Empty(t, fake.checkCalls)
}

func TestOTPTestBypass(t *testing.T) {
	fake := &fakeVerifyAPI{}
	svc := NewVerificationServiceWithAPI(&config.Config{
		TwilioVerifyServiceSID: "VAtest",
		LDFlag_OTPTestBypass:   true,
	}, fake)

	e164, err := svc.RequestCode(context.Background(), "5550001234")
	require.NoError(t, err)
	assert.Equal(t, "+15550001234", e164)
	assert.Empty(t, fake.createCalls)

	_, result, err := svc.CheckCode(context.Background(), "5550001234", TestPhoneCode)
	require.NoError(t, err)
	assert.True(t, result.Verified)

	_, result, err = svc.CheckCode(context.Background(), "5550001234", "999999")
	require.NoError(t, err)
	assert.False(t, result.Verified)
	assert.Empty(t, fake.checkCalls)

	// non-test numbers still go through the provider
	fake.checkStatus = "approved"
	_, _, err = svc.CheckCode(context.Background(), "5551234567", "123456")
	require.NoError(t, err)
	assert.Len(t, fake.checkCalls, 1)
}
