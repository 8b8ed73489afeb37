package identity

import (
	"errors"
	"fmt"
)

// Business outcomes of the identity operations. The dispatcher maps these to
// HTTP statuses; anything not listed here is a store fault and surfaces as an
// internal error.
var (
	// ErrValidation is the base for missing/malformed input. Specific
	// validation errors wrap it so callers can classify with errors.Is.
	ErrValidation = errors.New("invalid request")

	ErrNameRequired        = fmt.Errorf("%w: name is required", ErrValidation)
	ErrEmailRequired       = fmt.Errorf("%w: email is required", ErrValidation)
	ErrPasswordRequired    = fmt.Errorf("%w: password is required", ErrValidation)
	ErrNewPasswordRequired = fmt.Errorf("%w: new password is required", ErrValidation)

	// ErrSignInDataRequired: passwordless login for an unknown email needs a
	// display name to create the account.
	ErrSignInDataRequired = fmt.Errorf("%w: not enough data to sign in", ErrValidation)

	ErrCurrentPasswordRequired = fmt.Errorf("%w: current password is required", ErrValidation)

	// Registration conflicts.
	ErrAlreadyRegistered   = errors.New("this email is already registered")
	ErrAlreadyGoogleLinked = errors.New("this email is linked to Google sign-in; use the Google login")

	// Login failures. ErrInvalidCredentials deliberately never distinguishes
	// an unknown email from a wrong password.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrGoogleOnlyAccount  = errors.New("this account uses Google sign-in; log in with Google or set a password first")

	// Change-password failures.
	ErrAccountNotFound          = errors.New("account not found")
	ErrGoogleManagedAccount     = errors.New("this account is managed by Google sign-in; passwords cannot be changed here")
	ErrCurrentPasswordIncorrect = errors.New("current password is incorrect")
)
