package mailer

import (
	"fmt"

	"familycart-go/internal/config"
	"gopkg.in/gomail.v2"
)

// Mailer delivers transactional mail over SMTP. Delivery latency is the
// caller's concern; senders that must not block a request run Send on a
// goroutine.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// SendVerificationMail sends the plain-text OTP mail used by signup, login
// and resend flows.
func (m *Mailer) SendVerificationMail(subject, firstName, otp, to string) error {
	if to == "" {
		return fmt.Errorf("no recipient specified")
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nYour verification code is %s.\n\nIf you did not request this code you can ignore this mail.\n",
		firstName, otp,
	)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.dialer.DialAndSend(msg)
}
