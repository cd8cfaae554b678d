package validation

import (
	"regexp"
	"strings"
)

const (
	MaxEmailLength     = 254
	MaxEmailLocalPart  = 64
	msgEmailValid      = "Valid email address ✓"
	msgEmailRequired   = "Email is required"
	msgEmailTooLong    = "Email address is too long"
	msgEmailAtCount    = "Email must contain exactly one @ symbol"
	msgEmailLocalLong  = "Email local part is too long"
	msgEmailNoDotInDom = "Please enter a valid email address (domain must include a dot)"
	msgEmailInvalid    = "Please enter a valid email address"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Result is the outcome of a single field check.
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// ValidateEmail applies the email rules in order and reports the first failure.
// The structural checks run before the pattern so the message names the
// actual problem; the pattern is the final authority.
//
// Lengths are byte counts. A browser counts UTF-16 code units instead, which
// only differs for non-ASCII input, and the pattern rejects that anyway.
func ValidateEmail(email string) Result {
	switch {
	case email == "":
		return Result{Message: msgEmailRequired}
	case len(email) > MaxEmailLength:
		return Result{Message: msgEmailTooLong}
	case strings.Count(email, "@") != 1:
		return Result{Message: msgEmailAtCount}
	}

	local, domain, _ := strings.Cut(email, "@")
	switch {
	case len(local) > MaxEmailLocalPart:
		return Result{Message: msgEmailLocalLong}
	case !strings.Contains(domain, "."):
		return Result{Message: msgEmailNoDotInDom}
	case !emailPattern.MatchString(email):
		return Result{Message: msgEmailInvalid}
	}
	return Result{Valid: true, Message: msgEmailValid}
}
