package utils

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	twilio "github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	lookupsv2 "github.com/twilio/twilio-go/rest/lookups/v2"
)

var e164Regex = regexp.MustCompile(`^\+[1-9]\d{7,14}$`) // ITU-T E.164

// IsE164 reports basic E.164 compliance
func IsE164(number string) bool { return e164Regex.MatchString(number) }

// DigitsOnly strips every non-digit rune, e.g. "(555) 123-4567" -> "5551234567".
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ToE164 converts a North-American local number to E.164. Only exactly
// ten digits convert; anything else reports failure so the caller can
// refuse before hitting the verification provider.
func ToE164(phone string) (string, bool) {
	digits := DigitsOnly(phone)
	if len(digits) != 10 {
		return "", false
	}
	return "+1" + digits, true
}

// ValidatePhoneNumber validates `number`.
//
//   - If validateWithTwilio == true *and* a non-nil Twilio RestClient is
//     provided, the function performs a Twilio Lookups V2 fetch.
//   - Otherwise it only checks E.164 shape locally.
//
// It returns (true,nil) only when the phone number is well-formed and,
// when requested, known to the carrier lookup.
func ValidatePhoneNumber(
	ctx context.Context,
	number string,
	country *string,
	validateWithTwilio bool,
	tw *twilio.RestClient,
) (bool, error) {
	if !IsE164(number) {
		return false, nil
	}

	if validateWithTwilio && tw != nil {
		var params *lookupsv2.FetchPhoneNumberParams
		if country != nil && *country != "" {
			params = &lookupsv2.FetchPhoneNumberParams{CountryCode: country}
		}

		_, err := tw.LookupsV2.FetchPhoneNumber(number, params)
		if err == nil {
			return true, nil
		}

		if restErr, ok := err.(*twilioclient.TwilioRestError); ok {
			if restErr.Status == 404 { // unable to find that phone number
				return false, nil
			}
			return false, fmt.Errorf("twilio lookup failed: %d %s",
				restErr.Status, restErr.Error())
		}
		// Context cancel, network failure, etc.
		return false, err
	}

	return true, nil
}
