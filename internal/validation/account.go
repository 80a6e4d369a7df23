package validation

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/Varun5711/accounts/internal/auth"
	"github.com/Varun5711/accounts/internal/models/account"
)

// Error names the first offending field of a request payload.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(field, format string, args ...interface{}) *Error {
	return &Error{
		Field:   field,
		Message: fmt.Sprintf("%q ", field) + fmt.Sprintf(format, args...),
	}
}

// NotAllowed reports a payload key the operation does not accept.
func NotAllowed(field string) *Error {
	return newError(field, "is not allowed")
}

// MustBeString reports a payload key holding a non-string value.
func MustBeString(field string) *Error {
	return newError(field, "must be a string")
}

// AsError unwraps a validation failure from err.
func AsError(err error) (*Error, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

var domainLabelRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?$`)

func ValidateRegistration(req account.RegisterRequest) error {
	if req.Name == "" {
		return newError("name", "is required")
	}
	if err := validateEmail(req.Email); err != nil {
		return err
	}
	return validatePassword(req.Password)
}

func ValidateLogin(req account.LoginRequest) error {
	if err := validateEmail(req.Email); err != nil {
		return err
	}
	if req.Password == "" {
		return newError("password", "is required")
	}
	return nil
}

// ValidateUpdate requires at least one of name and password; whichever is
// present must be non-empty.
func ValidateUpdate(req account.UpdateRequest) error {
	if req.Name == nil && req.Password == nil {
		return &Error{
			Field:   "value",
			Message: `"value" must contain at least one of [name, password]`,
		}
	}
	if req.Name != nil && *req.Name == "" {
		return newError("name", "is not allowed to be empty")
	}
	if req.Password != nil {
		if *req.Password == "" {
			return newError("password", "is not allowed to be empty")
		}
		if len(*req.Password) > auth.MaxPasswordBytes {
			return newError("password", "length must be less than or equal to %d bytes", auth.MaxPasswordBytes)
		}
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return newError("password", "is required")
	}
	if len(password) > auth.MaxPasswordBytes {
		return newError("password", "length must be less than or equal to %d bytes", auth.MaxPasswordBytes)
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return newError("email", "is required")
	}
	if !IsEmail(email) {
		return newError("email", "must be a valid email")
	}
	return nil
}

// IsEmail accepts a bare addr-spec with a dotted domain, e.g. "alice@x.com".
// Display names ("Alice <alice@x.com>") and single-label domains are rejected.
func IsEmail(s string) bool {
	if len(s) > 254 || strings.ContainsAny(s, " \t\r\n") {
		return false
	}

	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}

	at := strings.LastIndex(s, "@")
	local, domain := s[:at], s[at+1:]
	if local == "" || len(local) > 64 {
		return false
	}

	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if len(label) > 63 || !domainLabelRegex.MatchString(label) {
			return false
		}
	}
	return true
}
