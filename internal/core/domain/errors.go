package domain

import "errors"

// Input and identity errors.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNoSession       = errors.New("no active session")
	ErrInvalidRole     = errors.New("invalid role")
	ErrInvalidToken    = errors.New("invalid profile token")
	ErrProfileNotFound = errors.New("profile not found")
)

// Entitlement errors.
var (
	ErrPassInactive = errors.New("huntsmart pass is not active")
	ErrNoCredits    = errors.New("no inspection credits remaining")
)

// Verification errors.
var (
	ErrCodeTooShort    = errors.New("booking code too short")
	ErrAttemptInFlight = errors.New("verification already in progress")
	ErrAttemptSettled  = errors.New("attempt already settled; edit the code or reset")
	ErrSurfaceClosed   = errors.New("surface closed")
	ErrSurfaceNotFound = errors.New("surface not found")
	ErrDuplicateClaim  = errors.New("booking code already claimed")
)

// Payment errors.
var (
	ErrInvalidStage     = errors.New("invalid checkout stage")
	ErrCheckoutNotFound = errors.New("checkout not found")
)
