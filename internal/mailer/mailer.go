// Package mailer отправляет почту через SMTP.
package mailer

import (
	"fmt"
	"log/slog"

	gomail "gopkg.in/gomail.v2"

	"github.com/aerobickyjov/clubcms/internal/config"
)

// Message - письмо для отправки. HTML опционален: при пустом значении
// уходит только текстовая часть.
type Message struct {
	To      string
	Cc      string
	Subject string
	Text    string
	HTML    string
}

// Sender - интерфейс отправки письма.
type Sender interface {
	Send(msg Message) error
}

// SMTPMailer - реализация Sender поверх SMTP (gomail).
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	logger *slog.Logger
}

// New создаёт SMTP-отправителя. Соединение устанавливается лениво,
// при первой отправке.
func New(cfg *config.Config, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.MailFrom,
		logger: logger.With(slog.String("component", "mailer")),
	}
}

// Send отправляет одно письмо.
func (m *SMTPMailer) Send(msg Message) error {
	mail := gomail.NewMessage()
	mail.SetHeader("From", m.from)
	mail.SetHeader("To", msg.To)
	if msg.Cc != "" {
		mail.SetHeader("Cc", msg.Cc)
	}
	mail.SetHeader("Subject", msg.Subject)
	mail.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		mail.AddAlternative("text/html", msg.HTML)
	}

	if err := m.dialer.DialAndSend(mail); err != nil {
		m.logger.Error("отправка письма не удалась",
			slog.String("to", msg.To),
			slog.String("error", err.Error()))
		return fmt.Errorf("ошибка отправки письма: %w", err)
	}

	m.logger.Debug("письмо отправлено", slog.String("to", msg.To))
	return nil
}
