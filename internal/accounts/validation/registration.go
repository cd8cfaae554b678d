package validation

import "strings"

// Registration holds the raw fields of the sign-up form.
type Registration struct {
	Username        string `json:"username" form:"username"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	PasswordConfirm string `json:"password2" form:"password2"`
}

// FieldError attaches a message to one form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Report is the live feedback for every field of the form.
type Report struct {
	Email    Result   `json:"email"`
	Password Strength `json:"password"`
	Match    Result   `json:"password_match"`
}

// Check evaluates every field independently.
func Check(r Registration) Report {
	return Report{
		Email:    ValidateEmail(r.Email),
		Password: CheckPasswordStrength(r.Password),
		Match:    PasswordsMatch(r.Password, r.PasswordConfirm),
	}
}

// ValidateRegistration returns the errors that block submission. An empty
// result means the form may be submitted.
func ValidateRegistration(r Registration) []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.Username) == "" {
		errs = append(errs, FieldError{Field: "username", Message: "Username is required"})
	}

	rep := Check(r)
	if !rep.Email.Valid {
		errs = append(errs, FieldError{Field: "email", Message: rep.Email.Message})
	}
	switch {
	case !rep.Password.Strong():
		errs = append(errs, FieldError{
			Field:   "password",
			Message: "Please ensure your password meets all strength requirements. " + rep.Password.Message,
		})
	case PasswordTooLong(r.Password):
		errs = append(errs, FieldError{Field: "password", Message: "Password must be at most 72 bytes long"})
	}
	if !rep.Match.Valid {
		errs = append(errs, FieldError{Field: "password2", Message: rep.Match.Message})
	}
	return errs
}
