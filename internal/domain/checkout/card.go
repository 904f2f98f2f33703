package checkout

import (
	"strings"
	"time"
	"unicode"
)

// CardBrand identifies a card network detected from the number prefix.
type CardBrand string

const (
	BrandVisa       CardBrand = "Visa"
	BrandMastercard CardBrand = "Mastercard"
	BrandAmex       CardBrand = "American Express"
	BrandDiscover   CardBrand = "Discover"
	BrandUnknown    CardBrand = "Unknown"
)

// ValidCardNumber reports whether the card number has a plausible length,
// contains only digits (spaces and dashes are stripped), and passes the
// Luhn checksum.
func ValidCardNumber(number string) bool {
	cleaned := stripCardNumber(number)
	if len(cleaned) < 13 || len(cleaned) > 19 {
		return false
	}
	for _, r := range cleaned {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return luhn(cleaned)
}

// luhn computes the Luhn checksum over a digits-only string.
func luhn(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// DetectCardBrand guesses the card network from the number prefix.
func DetectCardBrand(number string) CardBrand {
	cleaned := stripCardNumber(number)
	switch {
	case strings.HasPrefix(cleaned, "4"):
		return BrandVisa
	case hasPrefixInRange(cleaned, "51", "55"), hasPrefixInRange(cleaned, "22", "27"):
		return BrandMastercard
	case strings.HasPrefix(cleaned, "34"), strings.HasPrefix(cleaned, "37"):
		return BrandAmex
	case strings.HasPrefix(cleaned, "6011"), strings.HasPrefix(cleaned, "65"):
		return BrandDiscover
	default:
		return BrandUnknown
	}
}

// ValidExpiry reports whether expiry is a well-formed MM/YY date at or after
// the month of now.
func ValidExpiry(expiry string, now time.Time) bool {
	if len(expiry) != 5 || expiry[2] != '/' {
		return false
	}
	mm, yy := expiry[:2], expiry[3:]
	if !allDigits(mm) || !allDigits(yy) {
		return false
	}
	month := int(mm[0]-'0')*10 + int(mm[1]-'0')
	if month < 1 || month > 12 {
		return false
	}
	year := int(yy[0]-'0')*10 + int(yy[1]-'0')

	curYear := now.Year() % 100
	curMonth := int(now.Month())
	if year < curYear {
		return false
	}
	if year == curYear && month < curMonth {
		return false
	}
	return true
}

// ValidCVV reports whether cvv is all digits of the length the brand
// expects: four for American Express, three otherwise.
func ValidCVV(cvv string, brand CardBrand) bool {
	want := 3
	if brand == BrandAmex {
		want = 4
	}
	return len(cvv) == want && allDigits(cvv)
}

// ValidCardholderName requires at least first and last name, letters and
// spaces only.
func ValidCardholderName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 3 || !strings.Contains(trimmed, " ") {
		return false
	}
	for _, r := range trimmed {
		if !unicode.IsLetter(r) && r != ' ' {
			return false
		}
	}
	return true
}

// FormatCardNumber groups the digits in blocks of four for display.
func FormatCardNumber(number string) string {
	cleaned := strings.ReplaceAll(number, " ", "")
	var b strings.Builder
	for i, r := range cleaned {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatExpiry normalizes digit input into MM/YY form.
func FormatExpiry(value string) string {
	digits := keepDigits(value)
	if len(digits) < 2 {
		return digits
	}
	if len(digits) > 4 {
		digits = digits[:4]
	}
	return digits[:2] + "/" + digits[2:]
}

func stripCardNumber(number string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, number)
}

func keepDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

// hasPrefixInRange reports whether the number begins with a two-digit
// prefix between lo and hi inclusive.
func hasPrefixInRange(number, lo, hi string) bool {
	if len(number) < 2 {
		return false
	}
	p := number[:2]
	return p >= lo && p <= hi
}
