package contentservice

import (
	"time"

	"github.com/sushihentaime/inkwell/internal/common"
)

type transitionAction int

const (
	// actionSave is a create or update that carries a status.
	actionSave transitionAction = iota
	actionPublish
	actionUnpublish
)

// applyStatus moves c to next and derives the timestamp side effects.
//
// A save that keeps an already published item published preserves its original published_at; an explicit
// publish always stamps now. Unpublishing and scheduling clear published_at. scheduled_at is only kept
// while the item is scheduled.
func applyStatus(c *Content, next Status, action transitionAction, now time.Time) error {
	switch next {
	case StatusPublished:
		if action == actionPublish || c.Status != StatusPublished || c.PublishedAt == nil {
			stamp := now
			c.PublishedAt = &stamp
		}
	case StatusUnpublished:
		c.PublishedAt = nil
	case StatusScheduled:
		if c.ScheduledAt == nil {
			return common.ValidationError{Errors: map[string]string{"scheduled_at": "must be provided when status is scheduled"}}
		}
		c.PublishedAt = nil
	case StatusDraft:
	default:
		return common.ValidationError{Errors: map[string]string{"status": "must be one of draft, scheduled, published, unpublished"}}
	}

	if next != StatusScheduled {
		c.ScheduledAt = nil
	}

	c.Status = next

	return nil
}
