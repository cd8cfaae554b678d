package validation

import (
	"strings"
	"unicode/utf8"
)

const (
	MinPasswordLength = 8
	MaxPasswordScore  = 5

	// MaxPasswordBytes is the longest password bcrypt accepts.
	MaxPasswordBytes = 72

	// SpecialCharacters are the symbols that count toward the special-character check.
	SpecialCharacters = `!@#$%^&*(),.?":{}|<>`
)

// Strength levels
const (
	LevelWeak   = "weak"
	LevelMedium = "medium"
	LevelStrong = "strong"
)

// Requirement labels, in the order they are checked.
const (
	ReqLength    = "At least 8 characters"
	ReqUppercase = "One uppercase letter"
	ReqLowercase = "One lowercase letter"
	ReqDigit     = "One number"
	ReqSpecial   = "One special character"
)

// Strength scores a password 0-5, one point per satisfied requirement.
type Strength struct {
	Score   int      `json:"score"`
	Missing []string `json:"missing"`
	Level   string   `json:"level"`
	Message string   `json:"message"`
}

// Strong reports whether every requirement is met.
func (s Strength) Strong() bool { return s.Score == MaxPasswordScore }

// CheckPasswordStrength scores pw against length, upper, lower, digit and special checks.
// Length counts runes, so non-ASCII input can score differently than a
// browser counting UTF-16 code units.
func CheckPasswordStrength(pw string) Strength {
	checks := []struct {
		ok    bool
		label string
	}{
		{utf8.RuneCountInString(pw) >= MinPasswordLength, ReqLength},
		{strings.ContainsFunc(pw, isASCIIUpper), ReqUppercase},
		{strings.ContainsFunc(pw, isASCIILower), ReqLowercase},
		{strings.ContainsFunc(pw, isASCIIDigit), ReqDigit},
		{strings.ContainsAny(pw, SpecialCharacters), ReqSpecial},
	}

	s := Strength{Missing: []string{}}
	for _, c := range checks {
		if c.ok {
			s.Score++
		} else {
			s.Missing = append(s.Missing, c.label)
		}
	}

	missing := strings.Join(s.Missing, ", ")
	switch {
	case s.Score < 3:
		s.Level = LevelWeak
		s.Message = "Weak password. Missing: " + missing
	case s.Score < MaxPasswordScore:
		s.Level = LevelMedium
		s.Message = "Medium strength. Missing: " + missing
	default:
		s.Level = LevelStrong
		s.Message = "Strong password! ✓"
	}
	return s
}

// PasswordsMatch compares the confirmation field against the password.
func PasswordsMatch(pw, confirm string) Result {
	switch {
	case confirm == "":
		return Result{Message: "Please confirm your password"}
	case pw != confirm:
		return Result{Message: "Passwords do not match"}
	}
	return Result{Valid: true, Message: "Passwords match ✓"}
}

// PasswordTooLong reports whether pw exceeds what bcrypt can hash. The limit
// is in bytes, not characters.
func PasswordTooLong(pw string) bool {
	return len(pw) > MaxPasswordBytes
}

func isASCIIUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isASCIILower(r rune) bool { return r >= 'a' && r <= 'z' }
func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }
