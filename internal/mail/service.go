package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/timster/go-api/internal/config"
)

// Service delivers operational mail over SMTP. Its only current use is
// routing internal error detail to the configured admin addresses.
type Service struct {
	host     string
	port     string
	user     string
	password string
	from     string
	admins   []string
	subject  string
}

func NewService(cfg config.MailConfig) *Service {
	return &Service{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.FromAddress,
		admins:   cfg.Admins,
		subject:  cfg.ErrorSubject,
	}
}

// SendErrorAlert sends internal error detail to the admin addresses.
// The subject argument is appended to the configured alert subject.
func (s *Service) SendErrorAlert(ctx context.Context, subject, body string) error {
	full := s.subject
	if subject != "" {
		full = fmt.Sprintf("%s: %s", s.subject, subject)
	}
	return s.send(s.admins, full, body)
}

func (s *Service) send(to []string, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.password, s.host)
	}

	if err := smtp.SendMail(addr, auth, s.from, to, []byte(msg)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	return nil
}
