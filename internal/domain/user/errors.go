package user

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailTaken           = errors.New("user already exists")
	ErrEmailTakenUnverified = errors.New("user already exists but is not verified")
	ErrNoPendingOTP         = errors.New("no pending verification for this email")
	ErrOTPInvalid           = errors.New("otp is invalid or expired")
	ErrUsernameTaken        = errors.New("username already taken")

	// ErrInvalidInput wraps per-field validation failures from the service.
	ErrInvalidInput = errors.New("invalid input")
)
