package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// Text codes carried by rich errors so API clients can branch without
// string matching the human message.
const (
	TextCodeNotAuthenticated    = "NOT_AUTHENTICATED"
	TextCodeInvalidCreds        = "INVALID_CREDENTIALS"
	TextCodeTokenExpired        = "TOKEN_EXPIRED"
	TextCodeTokenMalformed      = "TOKEN_MALFORMED"
	TextCodeStaleCredentials    = "STALE_CREDENTIALS"
	TextCodeForbidden           = "FORBIDDEN"
	TextCodeConfirmationInvalid = "CONFIRMATION_TOKEN_INVALID"
	TextCodeEmailTaken          = "EMAIL_TAKEN"
	TextCodeEmptyPassword       = "EMPTY_PASSWORD"
)

// Client facing messages. The login failure and the confirmation
// failure messages are deliberately cause-agnostic.
const (
	MsgNotLoggedIn         = "You are not logged in! Please log in to get access."
	MsgIncorrectCreds      = "Incorrect email or password"
	MsgForbidden           = "You do not have permission to perform this action"
	MsgConfirmationFailed  = "Token is Invalid or has expired!"
	MsgEmailTaken          = "Email already exists! Use different."
	MsgStaleCredentials    = "User recently changed password! Please log in again."
	MsgSignupFailed        = "There was an error creating your account. Try again later!"
	MsgMissingCredentials  = "Please provide email and password"
	MsgInvalidSessionToken = "Invalid or expired session token! Please log in again."
	MsgInternalError       = "Something went very wrong!"
)

// ErrIdentityNotFound is returned when no repository resolves the principal
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound).
	WithTextCode("IDENTITY_NOT_FOUND")

// ErrMismatchedHashAndPassword is the uniform login failure: unknown
// email and wrong password produce this same value.
var ErrMismatchedHashAndPassword = errors.New(MsgIncorrectCreds, errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidCreds)

// ErrNoEmptyString rejects empty passwords before hashing
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodeEmptyPassword)

// ErrNotAuthenticated covers a request with no usable session token
var ErrNotAuthenticated = errors.New(MsgNotLoggedIn, errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeNotAuthenticated)

// ErrTokenExpired is a session token past its expiry claim
var ErrTokenExpired = errors.New(MsgInvalidSessionToken, errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed is a session token that fails signature or parsing
var ErrTokenMalformed = errors.New(MsgInvalidSessionToken, errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenMalformed)

// ErrStaleCredentials is a token issued before the principal's most
// recent password change. Still signed, still unexpired, still rejected.
var ErrStaleCredentials = errors.New(MsgStaleCredentials, errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeStaleCredentials)

// ErrForbidden is a role mismatch after successful authentication
var ErrForbidden = errors.New(MsgForbidden, errors.CategoryAuthz).
	WithCode(errors.CodeForbidden).
	WithTextCode(TextCodeForbidden)

// ErrConfirmationTokenInvalid covers every confirmation consume
// failure: unknown digest, expired window, or already used.
var ErrConfirmationTokenInvalid = errors.New(MsgConfirmationFailed, errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodeConfirmationInvalid)

// ErrEmailTaken rejects a signup for an email already on record
var ErrEmailTaken = errors.New(MsgEmailTaken, errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodeEmailTaken)

// ErrMissingCredentials rejects a login with a blank email or password
var ErrMissingCredentials = errors.New(MsgMissingCredentials, errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithTextCode("MISSING_CREDENTIALS")

// WriteError renders the {status, message} failure envelope for err.
// Anything that is not a rich error is treated as an internal failure
// so repository or mailer faults never leak details to the client.
func WriteError(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, MsgInternalError).
			WithCode(errors.CodeInternal)
	}

	status := richErr.Code
	if status == 0 {
		status = errors.CodeInternal
	}

	kind := "fail"
	if status >= 500 {
		kind = "error"
	}

	return c.JSON(status, map[string]any{
		"status":  kind,
		"message": richErr.Message,
	})
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenExpired {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenMalformed {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
