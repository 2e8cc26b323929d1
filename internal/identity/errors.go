package identity

import "errors"

// Kind classifies an AuthError.
type Kind int

const (
	KindInvalidCredentials Kind = iota + 1
	KindDuplicate
	KindProfileNotProvisioned
	KindInvalidInput
	KindNotSignedIn
	KindForbidden
)

// ProfileNotProvisionedMessage is shown when an account exists but its
// profile row has not been created yet.
const ProfileNotProvisionedMessage = "Your profile is being initialized. Please try logging in again in a moment."

var defaultMessages = map[Kind]string{
	KindInvalidCredentials:    "Invalid login credentials",
	KindDuplicate:             "User already registered",
	KindProfileNotProvisioned: ProfileNotProvisionedMessage,
	KindInvalidInput:          "Invalid registration details",
	KindNotSignedIn:           "You are not signed in",
	KindForbidden:             "This feature is only available to lecturers",
}

// AuthError is a user-facing identity failure.
type AuthError struct {
	Kind Kind

	// Message overrides the default text for Kind.
	Message string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return defaultMessages[e.Kind]
}

// IsKind reports whether err is an AuthError of kind k.
func IsKind(err error, k Kind) bool {
	var ae *AuthError
	return errors.As(err, &ae) && ae.Kind == k
}
