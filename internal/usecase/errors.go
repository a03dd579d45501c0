package usecase

import "errors"

// Service errors. Handlers map these to HTTP statuses with errors.Is; the
// message is what the client sees, so credential failures stay vague on
// purpose (never reveal whether the email or the password was wrong, nor
// whether an OTP was wrong or expired).
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingToken       = errors.New("no refresh token provided")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenMismatch      = errors.New("refresh token does not match")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidOTP         = errors.New("invalid or expired OTP")
	ErrMailSend           = errors.New("failed to send OTP email")
)
