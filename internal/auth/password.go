package auth

import (
	"strings"
	"unicode"
)

const (
	minPasswordLen = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordLen = 72

	passwordSpecials = "!@#$%^&*"
)

// PolicyViolation is a named reason a candidate password was refused.
// The message is safe to show to the client.
type PolicyViolation struct {
	Reason string
}

func (v *PolicyViolation) Error() string { return v.Reason }

var (
	ErrPasswordTooShort   = &PolicyViolation{Reason: "Password must be longer than 8 characters"}
	ErrPasswordTooLong    = &PolicyViolation{Reason: "Password must be less than 72 characters"}
	ErrPasswordPadded     = &PolicyViolation{Reason: "Password must not start or end with empty spaces"}
	ErrPasswordNotComplex = &PolicyViolation{Reason: "Password must contain 1 upper case, lower case, number and special character"}
)

// ValidatePassword checks a candidate password against the account password
// policy. Rules are applied in order and the first failure is returned:
// length bounds, no leading or trailing space, then complexity (at least one
// upper case letter, lower case letter, digit and one of !@#$%^&*, with no
// whitespace anywhere).
func ValidatePassword(password string) error {
	// Lengths are in bytes, not characters, since bcrypt's limit is in bytes.
	if len(password) < minPasswordLen {
		return ErrPasswordTooShort
	}
	if len(password) > maxPasswordLen {
		return ErrPasswordTooLong
	}
	if strings.HasPrefix(password, " ") || strings.HasSuffix(password, " ") {
		return ErrPasswordPadded
	}
	if !isComplex(password) {
		return ErrPasswordNotComplex
	}
	return nil
}

func isComplex(password string) bool {
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsSpace(r):
			return false
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	return upper && lower && digit && special
}
