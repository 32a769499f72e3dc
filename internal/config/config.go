package config

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"

	"github.com/hauseeHQ/intake-service/internal/utils"
)

type Config struct {
	OrganizationName string
	AppName          string
	AppPort          string
	AppUrl           string

	// Stores
	DBUrl         string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// External services
	TwilioAccountSID       string
	TwilioAuthToken        string
	TwilioVerifyServiceSID string
	SendgridAPIKey         string
	InternalNotifyEmail    string

	// Auth
	RSAPublicKey *rsa.PublicKey

	// Feature-flag snapshots
	LDFlag_SendgridFromEmail       string
	LDFlag_ValidatePhoneWithTwilio bool
	LDFlag_OTPTestBypass           bool
}

const (
	OrganizationName    = "Hausee"
	LDConnectionTimeout = 5 * time.Second
)

// AppName may be overridden at build time with -ldflags.
var AppName = "intake-service"

func LoadConfig() *Config {
	// .env is a local-dev convenience only; absence is normal.
	if err := godotenv.Load(); err == nil {
		utils.Logger.Debug("Loaded environment overrides from .env")
	}

	utils.Logger.Info("Loading config for app: ", AppName)

	env := mustEnv("ENV")
	appURL := mustEnv("APP_URL_FROM_ANYWHERE")
	appPort := mustEnv("APP_PORT")
	dbURL := mustEnv("DATABASE_URL")
	redisAddr := mustEnv("REDIS_ADDR")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	redisDB := 0
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.Logger.Fatalf("REDIS_DB is not an integer: %q", raw)
		}
		redisDB = n
	}

	twilioSID := mustEnv("TWILIO_ACCOUNT_SID")
	twilioToken := mustEnv("TWILIO_AUTH_TOKEN")
	twilioVerifySID := mustEnv("TWILIO_VERIFY_SERVICE_SID")
	sgAPI := mustEnv("SENDGRID_API_KEY")
	internalNotify := mustEnv("INTERNAL_NOTIFY_EMAIL")

	pubKey := loadRSAPublicKey(mustEnv("RSA_PUBLIC_KEY_BASE64"))

	//----------------------------------------------------------------------
	// LaunchDarkly client & flags (snapshot at boot, then close)
	//----------------------------------------------------------------------
	ldSDK := mustEnv("LD_SDK_KEY")

	ldClient, err := ld.MakeClient(ldSDK, LDConnectionTimeout)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to create LaunchDarkly client")
	}
	if !ldClient.Initialized() {
		ldClient.Close()
		utils.Logger.Fatal("LaunchDarkly client failed to initialize")
	}
	defer ldClient.Close()

	ctx := ldcontext.NewWithKind("service", fmt.Sprintf("%s-%s", AppName, env))

	fromEmail, err := ldClient.StringVariation("sendgrid_from_email", ctx, "")
	if err != nil || fromEmail == "" {
		utils.Logger.Fatal("sendgrid_from_email flag error / empty")
	}
	utils.Logger.Debugf("sendgrid_from_email flag: %s", fromEmail)

	validatePhone, err := ldClient.BoolVariation("validate_phone_with_twilio", ctx, false)
	if err != nil {
		utils.Logger.Fatal("validate_phone_with_twilio flag error")
	}
	utils.Logger.Debugf("validate_phone_with_twilio flag: %t", validatePhone)

	otpBypass, err := ldClient.BoolVariation("intake_otp_test_bypass", ctx, false)
	if err != nil {
		utils.Logger.Fatal("intake_otp_test_bypass flag error")
	}
	if otpBypass && env == "prod" {
		utils.Logger.Fatal("intake_otp_test_bypass must not be enabled in prod")
	}

	utils.Logger.Infof("Loaded config for %s (%s)", AppName, env)

	return &Config{
		OrganizationName:               OrganizationName,
		AppName:                        AppName,
		AppPort:                        appPort,
		AppUrl:                         appURL,
		DBUrl:                          dbURL,
		RedisAddr:                      redisAddr,
		RedisPassword:                  redisPassword,
		RedisDB:                        redisDB,
		TwilioAccountSID:               twilioSID,
		TwilioAuthToken:                twilioToken,
		TwilioVerifyServiceSID:         twilioVerifySID,
		SendgridAPIKey:                 sgAPI,
		InternalNotifyEmail:            internalNotify,
		RSAPublicKey:                   pubKey,
		LDFlag_SendgridFromEmail:       fromEmail,
		LDFlag_ValidatePhoneWithTwilio: validatePhone,
		LDFlag_OTPTestBypass:           otpBypass,
	}
}

func mustEnv(name string) string {
	v := os.Getenv(name)
	if v == "" {
		utils.Logger.Fatalf("%s env var is missing", name)
	}
	return v
}

func loadRSAPublicKey(b64 string) *rsa.PublicKey {
	der, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		utils.Logger.WithError(err).Fatal("RSA_PUBLIC_KEY_BASE64 is not valid base64")
	}
	block, _ := pem.Decode(der)
	if block == nil {
		utils.Logger.Fatal("RSA_PUBLIC_KEY_BASE64 does not contain a PEM block")
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA public key")
	}
	pub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		utils.Logger.Fatal("RSA_PUBLIC_KEY_BASE64 is not an RSA key")
	}
	return pub
}
