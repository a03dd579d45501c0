package mailer

// Mailer delivers out-of-band notifications (OTP codes) to users.
type Mailer interface {
	Send(to, subject, body string) error
}
