package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "5551234567", DigitsOnly("(555) 123-4567"))
	assert.Equal(t, "5551234567", DigitsOnly("555.123.4567"))
	assert.Equal(t, "", DigitsOnly("abc"))
}

func TestToE164(t *testing.T) {
	e164, ok := ToE164("5551234567")
	assert.True(t, ok)
	assert.Equal(t, "+15551234567", e164)

	e164, ok = ToE164("(555) 123-4567")
	assert.True(t, ok)
	assert.Equal(t, "+15551234567", e164)

	// nine digits never convert
	_, ok = ToE164("555123456")
	assert.False(t, ok)

	// eleven digits never convert, even with a leading 1
	_, ok = ToE164("15551234567")
	assert.False(t, ok)

	_, ok = ToE164("")
	assert.False(t, ok)
}

func TestIsE164(t *testing.T) {
	assert.True(t, IsE164("+15551234567"))
	assert.False(t, IsE164("5551234567"))
	assert.False(t, IsE164("+05551234567"))
}
