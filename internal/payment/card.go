// Package payment holds card number helpers. Nothing here stores or logs a raw card number.
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	BrandVisa       = "Visa"
	BrandMastercard = "Mastercard"
	BrandAmex       = "American Express"
	BrandOther      = "Other"

	cvvMaxLen = 4
)

// Digits drops everything but 0-9.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Format groups every digit of the number in blocks of four, e.g. "4242 4242 4242 4242".
// Nothing is cut off; ValidNumber rejects numbers that are too long.
func Format(number string) string {
	digits := Digits(number)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func SanitizeCVV(cvv string) string {
	digits := Digits(cvv)
	if len(digits) > cvvMaxLen {
		digits = digits[:cvvMaxLen]
	}
	return digits
}

func LastFour(number string) string {
	digits := Digits(number)
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

func Mask(number string) string {
	last := LastFour(number)
	if last == "" {
		return ""
	}
	return "**** **** **** " + last
}

func DetectBrand(number string) string {
	digits := Digits(number)
	switch {
	case strings.HasPrefix(digits, "4"):
		return BrandVisa
	case strings.HasPrefix(digits, "5"), strings.HasPrefix(digits, "2"):
		return BrandMastercard
	case strings.HasPrefix(digits, "3"):
		return BrandAmex
	default:
		return BrandOther
	}
}

// Digest is a keyed, non-reversible fingerprint of the card number.
func Digest(number, pepper string) string {
	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(Digits(number)))
	return hex.EncodeToString(mac.Sum(nil))
}

// ValidNumber accepts 12 to 19 digits, optionally separated by spaces.
func ValidNumber(number string) bool {
	compact := strings.ReplaceAll(number, " ", "")
	if len(compact) < 12 || len(compact) > 19 {
		return false
	}
	return Digits(compact) == compact
}
