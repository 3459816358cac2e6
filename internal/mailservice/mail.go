package mailservice

import (
	"time"

	"github.com/go-mail/mail/v2"
)

// NewMailer dials the configured SMTP relay and sends moderation notices from cfg.Sender.
func NewMailer(cfg MailConfig, tp TemplateRenderer) *Mail {
	dialer := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.Timeout = 5 * time.Second

	return &Mail{
		dialer:   dialer,
		sender:   cfg.Sender,
		renderer: tp,
	}
}

// sendCommentPending tells the moderator a comment is waiting for review. Replies go to the comment's author.
func (m *Mail) sendCommentPending(moderator string, data commentPendingData) error {
	msg, err := m.compose(moderator, commentPendingTemplate, data)
	if err != nil {
		return err
	}

	if data.AuthorEmail != "" {
		msg.SetAddressHeader("Reply-To", data.AuthorEmail, data.AuthorName)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.dialer.DialAndSend(msg)
}

func (m *Mail) compose(recipient, templateName string, data any) (*mail.Message, error) {
	rendered, err := m.renderer.Render(templateName, data)
	if err != nil {
		return nil, err
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", rendered.Subject)
	msg.SetBody("text/plain", rendered.PlainBody)
	msg.AddAlternative("text/html", rendered.HTMLBody)

	return msg, nil
}
