package mail

import (
	"fmt"

	"github.com/Dhoini/course-platform/config"
	"github.com/Dhoini/course-platform/pkg/logger"

	"gopkg.in/gomail.v2"
)

// Sender определяет синхронный почтовый транспорт
type Sender interface {
	// Send отправляет одно письмо.
	Send(to, subject, body string) error
	// Configured сообщает, заданы ли учетные данные транспорта.
	Configured() bool
}

// smtpSender реализует Sender через gomail
type smtpSender struct {
	cfg config.SMTPConfig
	log *logger.Logger
}

// NewSender создает новый почтовый транспорт
func NewSender(cfg config.SMTPConfig, log *logger.Logger) Sender {
	return &smtpSender{cfg: cfg, log: log}
}

// Configured сообщает, заданы ли учетные данные транспорта
func (s *smtpSender) Configured() bool {
	return s.cfg.Configured()
}

// Send отправляет письмо через SMTP
func (s *smtpSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.User, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("mail: failed to send to %s: %w", to, err)
	}

	s.log.Debugw("Email sent", "to", to, "subject", subject)
	return nil
}
