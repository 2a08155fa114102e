package call

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError rejects a call submission before anything is sent to the
// provider.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// phoneRe requires +1 followed by exactly ten digits.
var phoneRe = regexp.MustCompile(`^\+1\d{10}$`)

// Validate checks the submission inputs in order: name first, then the
// phone number format.
func Validate(name, phoneNumber string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Reason: "name required"}
	}
	if !phoneRe.MatchString(phoneNumber) {
		return &ValidationError{Field: "phone_number", Reason: "invalid phone format, expected +1 followed by 10 digits"}
	}
	return nil
}
