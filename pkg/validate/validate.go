package validate

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// Result is the outcome of a single field validation.
// Validators are pure and synchronous so callers can run them on every
// keystroke without debouncing.
type Result struct {
	IsValid bool   `json:"is_valid"`
	Message string `json:"message,omitempty"`
}

func valid() Result {
	return Result{IsValid: true}
}

func invalid(message string) Result {
	return Result{IsValid: false, Message: message}
}

var phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9\s\-\(\)]{6,19}$`)

// Required checks that a value is non-empty after trimming
func Required(value, field string) Result {
	if strings.TrimSpace(value) == "" {
		return invalid(field + " is required")
	}
	return valid()
}

// Email checks basic RFC 5322 address shape
func Email(value string) Result {
	value = strings.TrimSpace(value)
	if value == "" {
		return invalid("email is required")
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return invalid("email address is not valid")
	}
	return valid()
}

// Password enforces the unified policy: at least 6 characters with an
// upper-case letter, a lower-case letter, and a digit.
func Password(value string) Result {
	if len(value) < 6 {
		return invalid("password must be at least 6 characters")
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range value {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return invalid("password must contain upper and lower case letters and a digit")
	}
	return valid()
}

// DisplayName requires at least 2 visible characters
func DisplayName(value string) Result {
	if len(strings.TrimSpace(value)) < 2 {
		return invalid("display name must be at least 2 characters")
	}
	return valid()
}

// Phone accepts digits with common separators, 7 to 20 characters
func Phone(value string) Result {
	value = strings.TrimSpace(value)
	if value == "" {
		return invalid("phone number is required")
	}
	if !phoneRegex.MatchString(value) {
		return invalid("phone number is not valid")
	}
	return valid()
}

// URL requires an absolute http(s) URL
func URL(value string) Result {
	value = strings.TrimSpace(value)
	if value == "" {
		return invalid("url is required")
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("url is not valid")
	}
	return valid()
}
