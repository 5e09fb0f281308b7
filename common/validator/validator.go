package validator

import (
	"regexp"
	"strings"
)

// Regex patterns. The phone and special-character sets encode hospital
// business rules; do not widen them.
var (
	// Email pattern - RFC 5322 simplified
	EmailPattern = regexp.MustCompile(`^[a-zA-Z0-9_+&*-]+(?:\.[a-zA-Z0-9_+&*-]+)*@(?:[a-zA-Z0-9-]+\.)+[a-zA-Z]{2,7}$`)

	// International phone: optional +, non-zero leading digit, 10-15 digits total
	PhonePattern = regexp.MustCompile(`^\+?[1-9]\d{9,14}$`)

	// Everything that is not a digit or '+'
	phoneStripPattern = regexp.MustCompile(`[^0-9+]`)

	// Full name pattern: 2-100 chars, Unicode letters, spaces, dots, hyphens, apostrophes
	FullNamePattern = regexp.MustCompile(`^[\p{L} .'-]{2,100}$`)

	uppercasePattern = regexp.MustCompile(`[A-Z]`)
	lowercasePattern = regexp.MustCompile(`[a-z]`)
	digitPattern     = regexp.MustCompile(`\d`)
	specialPattern   = regexp.MustCompile(`[@$!%*?&]`)
)

// MinPasswordLength is the minimum length of a strong password
const MinPasswordLength = 8

// Password rule messages, in the order they are reported
const (
	MsgPasswordLength    = "Password must be at least 8 characters long"
	MsgPasswordUppercase = "Password must contain at least one uppercase letter"
	MsgPasswordLowercase = "Password must contain at least one lowercase letter"
	MsgPasswordDigit     = "Password must contain at least one number"
	MsgPasswordSpecial   = "Password must contain at least one special character (@$!%*?&)"
)

// IsValidEmail validates email format
func IsValidEmail(email string) bool {
	if email == "" {
		return false
	}
	return EmailPattern.MatchString(email)
}

// CleanPhone keeps only digits and '+' characters
func CleanPhone(phone string) string {
	return phoneStripPattern.ReplaceAllString(phone, "")
}

// ValidatePhone strips formatting and checks the international phone rule.
// "+1 (234) 567-8901" is valid; "12345" and "abc123" are not.
func ValidatePhone(phone string) bool {
	return PhonePattern.MatchString(CleanPhone(phone))
}

// IsValidFullName validates full name
func IsValidFullName(name string) bool {
	if name == "" {
		return false
	}
	trimmed := strings.TrimSpace(name)
	return FullNamePattern.MatchString(trimmed)
}

// ValidateStrongPassword runs every strength rule and returns the messages of
// the rules that failed, in rule order. An empty result means the password is
// strong.
func ValidateStrongPassword(password string) []string {
	errs := []string{}

	if len(password) < MinPasswordLength {
		errs = append(errs, MsgPasswordLength)
	}
	if !uppercasePattern.MatchString(password) {
		errs = append(errs, MsgPasswordUppercase)
	}
	if !lowercasePattern.MatchString(password) {
		errs = append(errs, MsgPasswordLowercase)
	}
	if !digitPattern.MatchString(password) {
		errs = append(errs, MsgPasswordDigit)
	}
	if !specialPattern.MatchString(password) {
		errs = append(errs, MsgPasswordSpecial)
	}

	return errs
}

// IsStrongPassword reports whether password passes every strength rule
func IsStrongPassword(password string) bool {
	return len(ValidateStrongPassword(password)) == 0
}

// GetEmailError returns user-friendly error message for email
func GetEmailError(email string) string {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return "Email is required"
	}
	if !IsValidEmail(trimmed) {
		return "Invalid email address. Example: user@example.com"
	}
	return ""
}

// GetPhoneError returns user-friendly error message for phone
func GetPhoneError(phone string) string {
	if strings.TrimSpace(phone) == "" {
		return "Phone number is required"
	}
	if !ValidatePhone(phone) {
		return "Invalid phone number. Use 10 to 15 digits with an optional leading +"
	}
	return ""
}

// GetFullNameError returns user-friendly error message for full name
func GetFullNameError(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "Full name is required"
	}
	if len([]rune(trimmed)) < 2 {
		return "Full name must be at least 2 characters"
	}
	if len([]rune(trimmed)) > 100 {
		return "Full name must not exceed 100 characters"
	}
	if !IsValidFullName(trimmed) {
		return "Full name may only contain letters, spaces, dots, hyphens and apostrophes"
	}
	return ""
}

// GetPasswordError returns the first failed strength rule, or ""
func GetPasswordError(password string) string {
	if password == "" {
		return "Password is required"
	}
	if errs := ValidateStrongPassword(password); len(errs) > 0 {
		return errs[0]
	}
	return ""
}
