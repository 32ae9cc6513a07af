package auth

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultMinLength is the minimum number of characters (runes).
	DefaultMinLength = 8
	// DefaultMaxBytes is bcrypt's input ceiling; longer passwords are rejected, never truncated.
	DefaultMaxBytes = 72
	// DefaultSpecialCharacters is the explicit set counted as "special".
	DefaultSpecialCharacters = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
)

// Violation messages returned by Policy.Validate.
const (
	MsgNoUpper   = "Password must contain at least one uppercase letter"
	MsgNoLower   = "Password must contain at least one lowercase letter"
	MsgNoDigit   = "Password must contain at least one digit"
	MsgNoSpecial = "Password must contain at least one special character"
)

// Policy describes the composition rules a new password must satisfy.
type Policy struct {
	MinLength int
	MaxBytes  int
	Specials  string
}

// DefaultPolicy returns the policy used by signup.
func DefaultPolicy() Policy {
	return Policy{
		MinLength: DefaultMinLength,
		MaxBytes:  DefaultMaxBytes,
		Specials:  DefaultSpecialCharacters,
	}
}

// Validate checks every rule independently and returns one message per
// unmet rule. An empty result means the password is acceptable.
func (p Policy) Validate(password string) []string {
	violations := make([]string, 0)

	if utf8.RuneCountInString(password) < p.MinLength {
		violations = append(violations, p.TooShortMessage())
	}
	if len(password) > p.MaxBytes {
		violations = append(violations, p.TooLongMessage())
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(p.Specials, r):
			hasSpecial = true
		}
	}

	if !hasUpper {
		violations = append(violations, MsgNoUpper)
	}
	if !hasLower {
		violations = append(violations, MsgNoLower)
	}
	if !hasDigit {
		violations = append(violations, MsgNoDigit)
	}
	if !hasSpecial {
		violations = append(violations, MsgNoSpecial)
	}

	return violations
}

// TooShortMessage is the violation reported for passwords under MinLength runes.
func (p Policy) TooShortMessage() string {
	return fmt.Sprintf("Password must be at least %d characters long", p.MinLength)
}

// TooLongMessage is the violation reported for passwords over MaxBytes bytes.
func (p Policy) TooLongMessage() string {
	return fmt.Sprintf("Password must be at most %d bytes long", p.MaxBytes)
}
