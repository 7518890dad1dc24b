package auth

import "errors"

// Response is the outcome of a successful flow
type Response struct {
	OK      bool
	Message string
	Payload map[string]string
}

// User is a stored account
type User struct {
	Email        string `json:"email"`
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	Active       bool   `json:"is_active"`
	RecoveryCode string `json:"recovery_code,omitempty"`
}

// Error is a business rule violation reported back to the form
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func ruleError(message string) error {
	return &Error{Message: message}
}

// AsRuleError reports whether err is a business rule violation
func AsRuleError(err error) (*Error, bool) {
	var ruleErr *Error
	if errors.As(err, &ruleErr) {
		return ruleErr, true
	}
	return nil, false
}
