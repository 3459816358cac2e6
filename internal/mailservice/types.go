package mailservice

import (
	"context"
	"sync"
	"time"

	"github.com/go-mail/mail/v2"

	"github.com/sushihentaime/inkwell/internal/common"
)

const commentPendingTemplate = "comment_pending.html"

type MailService struct {
	mb            common.MessageConsumer
	m             Mailer
	logger        MailLogger
	moderator     string
	moderationURL string
	baseDelay     time.Duration
	ctx           context.Context
	cancel        context.CancelFunc
}

type MailLogger interface {
	Error(msg string, args ...any)
	Info(msg string, args ...any)
}

type Mail struct {
	mu       sync.Mutex
	dialer   Dialer
	renderer TemplateRenderer
	sender   string
}

// Mailer delivers moderation notices.
type Mailer interface {
	sendCommentPending(moderator string, data commentPendingData) error
}

// Templates renders the notification templates embedded under templates/.
type Templates struct{}

// RenderedMail is a notification template executed against its data.
type RenderedMail struct {
	Subject   string
	PlainBody string
	HTMLBody  string
}

type Dialer interface {
	DialAndSend(m ...*mail.Message) error
}

type TemplateRenderer interface {
	Render(name string, data any) (*RenderedMail, error)
}

// commentPendingData feeds templates/comment_pending.html.
type commentPendingData struct {
	PostTitle     string
	AuthorName    string
	AuthorEmail   string
	Content       string
	ModerationURL string
}

// MailConfig carries the SMTP settings and the moderator address notifications go to.
type MailConfig struct {
	Host          string
	Port          int
	Username      string
	Password      string
	Sender        string
	Moderator     string
	ModerationURL string
}
