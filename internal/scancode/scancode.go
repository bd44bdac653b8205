// Package scancode generates the human-shareable codes printed at
// physical locations for customers to redeem stamps.
package scancode

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strings"
)

const (
	suffixLen     = 6
	suffixChars   = "abcdefghijklmnopqrstuvwxyz0123456789"
	maxSegmentLen = 20
)

var validFormat = regexp.MustCompile(`^[a-z0-9-]+$`)

// Generate builds a code of the form
// business-name-location-random6, e.g. coderno-coffee-centrum-a3f9k2.
// Codes are immutable once assigned to a location.
func Generate(businessName, locationName string) (string, error) {
	suffix, err := randomString(suffixLen)
	if err != nil {
		return "", fmt.Errorf("failed to generate scan code suffix: %w", err)
	}
	return Clean(businessName) + "-" + Clean(locationName) + "-" + suffix, nil
}

// Clean lowercases a name and reduces it to [a-z0-9-], collapsing
// whitespace and repeated dashes, capped at 20 characters.
func Clean(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '-':
			b.WriteRune('-')
		}
	}
	out := b.String()
	for strings.Contains(out, "--") {
		out = strings.ReplaceAll(out, "--", "-")
	}
	out = strings.Trim(out, "-")
	if len(out) > maxSegmentLen {
		out = out[:maxSegmentLen]
		out = strings.TrimRight(out, "-")
	}
	return out
}

// IsValidFormat reports whether a string looks like a scan code:
// lowercase alphanumerics and dashes, length 10..100.
func IsValidFormat(code string) bool {
	return len(code) >= 10 && len(code) <= 100 && validFormat.MatchString(code)
}

func randomString(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = suffixChars[int(b)%len(suffixChars)]
	}
	return string(buf), nil
}
