package vacation

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

// ErrInvalidEmail indicates the email argument is not a plain email address.
var ErrInvalidEmail = errors.New("invalid email")

// ValidationError reports a malformed tool argument.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: field '%s': %s (value: %q)", e.Field, e.Message, e.Value)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidEmail }

// ValidateEmail accepts bare addresses of the form local@host.tld, where the
// host is a DNS name made of letter-digit-hyphen labels and the top-level
// label is alphabetic. Address literals are rejected.
func ValidateEmail(email string) error {
	invalid := func(msg string) error {
		return &ValidationError{Field: "email", Value: email, Message: msg}
	}
	if email == "" {
		return invalid("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return invalid(err.Error())
	}
	if addr.Address != email || addr.Name != "" {
		return invalid("must be a bare email address")
	}
	domain := email[strings.LastIndex(email, "@")+1:]
	if msg := checkDomain(domain); msg != "" {
		return invalid(msg)
	}
	return nil
}

func checkDomain(domain string) string {
	if strings.HasPrefix(domain, "[") {
		return "address literals are not accepted"
	}
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return "domain must have a top-level label"
	}
	for _, label := range labels {
		if !validLabel(label) {
			return fmt.Sprintf("invalid domain label %q", label)
		}
	}
	tld := labels[len(labels)-1]
	if len(tld) < 2 || !isAlpha(tld) {
		return "top-level label must be at least two letters"
	}
	return ""
}

// validLabel applies the LDH rule: 1-63 letters, digits or hyphens, not
// starting or ending with a hyphen.
func validLabel(label string) bool {
	if len(label) == 0 || len(label) > 63 {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		if !isLetter(c) && !(c >= '0' && c <= '9') && c != '-' {
			return false
		}
	}
	return true
}

func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isLetter(s[i]) {
			return false
		}
	}
	return true
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
