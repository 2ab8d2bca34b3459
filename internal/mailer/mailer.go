package mailer

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/sony/gobreaker"

	"taskmanager/internal/config"
	"taskmanager/internal/logging"
)

// Mailer delivers plain-text mail over SMTP. Deliveries run through a circuit
// breaker so a dead mail relay fails fast instead of stalling every
// password-reset request.
type Mailer struct {
	host     string
	port     string
	from     string
	password string
	breaker  *gobreaker.CircuitBreaker
}

type MailerInterface interface {
	Send(to, subject, body string) error
}

var _ MailerInterface = (*Mailer)(nil)

func New(cfg *config.Config) *Mailer {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "smtp-mailer",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Circuit breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SMTPFrom,
		password: cfg.SMTPPassword,
		breaker:  breaker,
	}
}

func (m *Mailer) Send(to, subject, body string) error {
	_, err := m.breaker.Execute(func() (interface{}, error) {
		message := []byte("Subject: " + subject + "\r\n" +
			"From: " + m.from + "\r\n" +
			"To: " + to + "\r\n\r\n" +
			body + "\r\n")

		auth := smtp.PlainAuth("", m.from, m.password, m.host)
		if err := smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{to}, message); err != nil {
			return nil, fmt.Errorf("failed to send email: %w", err)
		}
		return nil, nil
	})
	return err
}
