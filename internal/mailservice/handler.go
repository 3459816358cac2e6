package mailservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/sushihentaime/inkwell/internal/commentservice"
	"github.com/sushihentaime/inkwell/internal/common"
	"golang.org/x/exp/rand"
)

const (
	maxRetries       = 5
	defaultBaseDelay = 500 * time.Millisecond
)

func NewMailService(mb common.MessageConsumer, cfg MailConfig, logger *slog.Logger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:            mb,
		m:             NewMailer(cfg, NewTemplates()),
		logger:        logger,
		moderator:     cfg.Moderator,
		moderationURL: cfg.ModerationURL,
		baseDelay:     defaultBaseDelay,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// SendCommentNotifications emails the moderator about every comment.created event until Close is called.
// Messages are acked whether or not the mail went out; a lost notification never blocks the queue.
func (s *MailService) SendCommentNotifications() {
	msgs, err := s.mb.Consume(common.CommentCreatedKey, common.BlogExchange, common.CommentCreatedQueue)
	if err != nil {
		s.logger.Error("could not consume message", slog.String("error", err.Error()))
		return
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				s.notify(msg.Body)

				if msg.Acknowledger != nil {
					_ = msg.Ack(false)
				}

			case <-s.ctx.Done():
				s.logger.Info("stopping SendCommentNotifications due to context cancellation")
				return
			}
		}
	}()
}

func (s *MailService) notify(body []byte) {
	var event commentservice.CommentCreatedEvent

	err := json.Unmarshal(body, &event)
	if err != nil {
		s.logger.Error("could not unmarshal message", slog.String("error", err.Error()))
		return
	}

	if s.moderator == "" {
		s.logger.Info("no moderator email configured, skipping notification", slog.Int("comment_id", event.CommentID))
		return
	}

	payload := commentPendingData{
		PostTitle:     event.PostTitle,
		AuthorName:    event.AuthorName,
		AuthorEmail:   event.AuthorEmail,
		Content:       event.Content,
		ModerationURL: s.moderationURL,
	}

	// exponential backoff with jitter
	for attempt := 0; attempt < maxRetries; attempt++ {
		err = s.m.sendCommentPending(s.moderator, payload)
		if err == nil {
			s.logger.Info("comment notification sent", slog.Int("comment_id", event.CommentID))
			return
		}

		delay := time.Duration(rand.Int63n(int64(s.baseDelay) << uint(attempt)))
		s.logger.Info("delaying comment notification", slog.Int("comment_id", event.CommentID), slog.Int("attempt", attempt), slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			return
		}
	}

	s.logger.Error("could not send comment notification", slog.Int("comment_id", event.CommentID), slog.String("error", err.Error()))
}

func (s *MailService) Close() {
	s.cancel()
}
