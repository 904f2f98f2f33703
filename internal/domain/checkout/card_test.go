package checkout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidCardNumber(t *testing.T) {
	tests := []struct {
		name   string
		number string
		want   bool
	}{
		{"valid visa", "4532015112830366", true},
		{"valid visa with spaces", "4532 0151 1283 0366", true},
		{"valid amex", "378282246310005", true},
		{"valid mastercard", "5555555555554444", true},
		{"luhn failure", "4532015112830367", false},
		{"too short", "453201511", false},
		{"too long", "45320151128303661234567", false},
		{"letters", "4532a15112830366", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidCardNumber(tt.number))
		})
	}
}

func TestDetectCardBrand(t *testing.T) {
	tests := []struct {
		number string
		want   CardBrand
	}{
		{"4532015112830366", BrandVisa},
		{"5555555555554444", BrandMastercard},
		{"2221000000000009", BrandMastercard},
		{"378282246310005", BrandAmex},
		{"6011111111111117", BrandDiscover},
		{"6511111111111110", BrandDiscover},
		{"9999999999999999", BrandUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectCardBrand(tt.number), "number %s", tt.number)
	}
}

func TestValidExpiry(t *testing.T) {
	now := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry string
		want   bool
	}{
		{"future year", "01/27", true},
		{"current month", "09/26", true},
		{"previous month", "08/26", false},
		{"past year", "12/25", false},
		{"month 13", "13/27", false},
		{"month 00", "00/27", false},
		{"wrong format", "2027-01", false},
		{"missing slash", "0127", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidExpiry(tt.expiry, now))
		})
	}
}

func TestValidCVV(t *testing.T) {
	assert.True(t, ValidCVV("123", BrandVisa))
	assert.True(t, ValidCVV("1234", BrandAmex))
	assert.False(t, ValidCVV("1234", BrandVisa))
	assert.False(t, ValidCVV("123", BrandAmex))
	assert.False(t, ValidCVV("12a", BrandVisa))
	assert.False(t, ValidCVV("", BrandVisa))
}

func TestValidCardholderName(t *testing.T) {
	assert.True(t, ValidCardholderName("Jane Doe"))
	assert.True(t, ValidCardholderName("  Jane Doe  "))
	assert.False(t, ValidCardholderName("Jane"))
	assert.False(t, ValidCardholderName("J4ne Doe"))
	assert.False(t, ValidCardholderName(""))
}

func TestFormatCardNumber(t *testing.T) {
	assert.Equal(t, "4532 0151 1283 0366", FormatCardNumber("4532015112830366"))
	assert.Equal(t, "4532 01", FormatCardNumber("453201"))
	assert.Equal(t, "", FormatCardNumber(""))
}

func TestFormatExpiry(t *testing.T) {
	assert.Equal(t, "12/26", FormatExpiry("1226"))
	assert.Equal(t, "12/26", FormatExpiry("12/26"))
	assert.Equal(t, "12/", FormatExpiry("12"))
	assert.Equal(t, "1", FormatExpiry("1"))
	assert.Equal(t, "12/26", FormatExpiry("122678"))
}
