package entity

import "time"

// User is the single record behind registration, sessions and password
// recovery. RefreshToken mirrors the one outstanding refresh JWT; OTP and
// OTPExpire are set and cleared together.
type User struct {
	Base
	Name         string     `db:"name"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password"`
	RefreshToken *string    `db:"refresh_token"`
	OTP          *string    `db:"otp"`
	OTPExpire    *time.Time `db:"otp_expire"`
}
