package commentservice

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/sushihentaime/inkwell/internal/common"
)

type Comment struct {
	ID          int       `json:"id"`
	PostID      int       `json:"post_id"`
	PostTitle   string    `json:"post_title,omitempty"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email"`
	Content     string    `json:"content"`
	IsApproved  bool      `json:"is_approved"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CommentCreatedEvent is the body published on common.CommentCreatedKey.
type CommentCreatedEvent struct {
	CommentID   int       `json:"comment_id"`
	PostID      int       `json:"post_id"`
	PostTitle   string    `json:"post_title"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

type CommentModel struct {
	db *sql.DB
}

type CommentService struct {
	m      *CommentModel
	mb     common.MessageProducer
	logger *slog.Logger
}
