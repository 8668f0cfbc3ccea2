package identity

import "errors"

// Provider error codes, stable across backends.
const (
	CodeInvalidEmail      = "auth/invalid-email"
	CodeUserDisabled      = "auth/user-disabled"
	CodeUserNotFound      = "auth/user-not-found"
	CodeWrongPassword     = "auth/wrong-password"
	CodeInvalidCredential = "auth/invalid-credential"
	CodeEmailInUse        = "auth/email-already-in-use"
	CodeWeakPassword      = "auth/weak-password"
)

// AuthError carries a provider code plus the raw backend message.
type AuthError struct {
	Code string
	Raw  string
}

func (e *AuthError) Error() string {
	if e.Raw != "" {
		return e.Code + ": " + e.Raw
	}
	return e.Code
}

func authErr(code, raw string) error { return &AuthError{Code: code, Raw: raw} }

// messages is the fixed code -> human text table. Unmapped codes fall
// back to the provider's raw message.
var messages = map[string]string{
	CodeInvalidEmail:      "Invalid email address",
	CodeUserDisabled:      "This account has been disabled",
	CodeUserNotFound:      "No account found with this email",
	CodeWrongPassword:     "Incorrect password",
	CodeInvalidCredential: "Invalid email or password",
	CodeEmailInUse:        "This email is already registered",
	CodeWeakPassword:      "Password is too weak (min 6 characters)",
}

// Message resolves a user-facing message for any error coming out of a
// Provider.
func Message(err error) string {
	var ae *AuthError
	if errors.As(err, &ae) {
		if m, ok := messages[ae.Code]; ok {
			return m
		}
		if ae.Raw != "" {
			return ae.Raw
		}
		return ae.Code
	}
	return err.Error()
}

// CodeOf returns the provider code, or "" for non-auth errors.
func CodeOf(err error) string {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
