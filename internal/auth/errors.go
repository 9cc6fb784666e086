package auth

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidCredentials covers both unknown username and wrong password;
	// the two are deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrAccountDisabled is returned when a matched account is deactivated.
	ErrAccountDisabled = errors.New("account has been deactivated")
	// ErrAccountNotFound is returned when a token references a missing account.
	ErrAccountNotFound = errors.New("account not found")
	// ErrTokenExpired is returned when a token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMalformed is returned for tokens that fail to parse or verify.
	ErrTokenMalformed = errors.New("token malformed or signature invalid")
	// ErrTokenRevoked is returned for blacklisted refresh tokens.
	ErrTokenRevoked = errors.New("token has been revoked")
	// ErrTokenTypeMismatch is returned when an access token is presented as a
	// refresh token or vice versa.
	ErrTokenTypeMismatch = errors.New("token type mismatch")
	// ErrDuplicateUsername is returned when the username is already registered.
	ErrDuplicateUsername = errors.New("an account with this username already exists")
	// ErrDuplicatePhone is returned when the phone number is already registered.
	ErrDuplicatePhone = errors.New("an account with this phone number already exists")
)

// ValidationErrors aggregates every violation found during registration or
// password change so the caller can display the complete set at once.
type ValidationErrors []string

func (v ValidationErrors) Error() string {
	return strings.Join(v, "; ")
}
