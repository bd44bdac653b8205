package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidNIP(t *testing.T) {
	assert.True(t, ValidNIP("1234563218"))
	assert.True(t, ValidNIP("123-456-32-18"))
	assert.True(t, ValidNIP("123 456 32 18"))

	// Wrong check digit.
	assert.False(t, ValidNIP("1234563217"))
	// Wrong length.
	assert.False(t, ValidNIP("123456321"))
	assert.False(t, ValidNIP("12345632181"))
	assert.False(t, ValidNIP(""))
	// Non-digits.
	assert.False(t, ValidNIP("12345632a8"))
}

func TestValidNIP_ChecksumTenAlwaysInvalid(t *testing.T) {
	// The first nine digits of 123456326x sum to 10 mod 11, so no
	// tenth digit can make the number valid.
	for d := byte('0'); d <= '9'; d++ {
		assert.False(t, ValidNIP("123456326"+string(d)))
	}
}

func TestCleanNIP(t *testing.T) {
	assert.Equal(t, "1234563218", CleanNIP("123-456-32-18"))
	assert.Equal(t, "1234563218", CleanNIP("123 456 32 18"))
	assert.Equal(t, "1234563218", CleanNIP("1234563218"))
}

func TestFormatNIP(t *testing.T) {
	assert.Equal(t, "123-456-32-18", FormatNIP("1234563218"))
	assert.Equal(t, "123-456-32-18", FormatNIP("123 456 32 18"))
	// Malformed input passes through untouched.
	assert.Equal(t, "12345", FormatNIP("12345"))
}
