package validation

import "strings"

// nipWeights are the checksum weights of the Polish tax
// identification number (NIP).
var nipWeights = [9]int{6, 5, 7, 2, 3, 4, 5, 6, 7}

// ValidNIP verifies a NIP checksum. Spaces and dashes are ignored.
// A computed checksum of 10 is always invalid regardless of the last
// digit.
func ValidNIP(nip string) bool {
	cleaned := CleanNIP(nip)
	if len(cleaned) != 10 {
		return false
	}
	sum := 0
	for i, w := range nipWeights {
		d := cleaned[i]
		if d < '0' || d > '9' {
			return false
		}
		sum += int(d-'0') * w
	}
	last := cleaned[9]
	if last < '0' || last > '9' {
		return false
	}
	checksum := sum % 11
	if checksum == 10 {
		return false
	}
	return checksum == int(last-'0')
}

// CleanNIP strips spaces and dashes.
func CleanNIP(nip string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, nip)
}

// FormatNIP renders a cleaned 10-digit NIP as XXX-XXX-XX-XX. Other
// inputs are returned unchanged.
func FormatNIP(nip string) string {
	cleaned := CleanNIP(nip)
	if len(cleaned) != 10 {
		return nip
	}
	return cleaned[0:3] + "-" + cleaned[3:6] + "-" + cleaned[6:8] + "-" + cleaned[8:10]
}
