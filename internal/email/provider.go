package email

// Provider is the outbound mail collaborator. Implementations must record
// every attempt in the email log, success or failure; callers treat
// delivery as best-effort and never roll back on a send error.
type Provider interface {
	// Send delivers a single HTML email.
	Send(to, subject, htmlBody string) error

	// SendVerification delivers the account verification link.
	SendVerification(to, token string) error

	// SendPasswordReset delivers the password reset link.
	SendPasswordReset(to, token string) error
}
