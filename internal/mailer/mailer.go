package mailer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Email письмо-уведомление.
type Email struct {
	To      string
	Subject string
	Text    string
}

// Mailer отправляет письма.
type Mailer interface {
	Send(ctx context.Context, e Email) error
}

// SMTPConfig параметры подключения к SMTP.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// sender то, что умеет gomail.Dialer; подменяется в тестах.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPMailer struct {
	from   string
	dialer sender
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &SMTPMailer{
		from:   from,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

func (m *SMTPMailer) message(e Email) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", e.To)
	msg.SetHeader("Subject", e.Subject)
	msg.SetBody("text/plain", e.Text)
	return msg
}

func (m *SMTPMailer) Send(ctx context.Context, e Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(m.message(e)); err != nil {
		return fmt.Errorf("send mail to %s: %w", e.To, err)
	}
	return nil
}

// LogMailer только пишет письмо в лог. Используется, когда SMTP не настроен.
type LogMailer struct {
	logger *zap.SugaredLogger
}

func NewLogMailer(logger *zap.SugaredLogger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, e Email) error {
	m.logger.Infow("email notification (smtp disabled)", "to", e.To, "subject", e.Subject)
	return nil
}

// New выбирает SMTPMailer, если задан хост, иначе LogMailer.
func New(cfg SMTPConfig, logger *zap.SugaredLogger) Mailer {
	if cfg.Host == "" {
		return NewLogMailer(logger)
	}
	return NewSMTPMailer(cfg)
}
