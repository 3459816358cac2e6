package commentservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/sushihentaime/inkwell/internal/common"
)

func NewCommentService(db *sql.DB, mb common.MessageProducer, logger *slog.Logger) *CommentService {
	return &CommentService{
		m:      newCommentModel(db),
		mb:     mb,
		logger: logger,
	}
}

type CreateCommentRequest struct {
	PostID      int    `json:"post_id"`
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
	Content     string `json:"content"`
}

// CreateComment stores a new comment awaiting moderation and announces it on the broker. The comment is
// always created unapproved. A failed announcement is logged; the comment is kept. Only published posts take
// comments: a post that exists but is not published is reported as common.ErrRecordNotFound.
func (s *CommentService) CreateComment(ctx context.Context, req *CreateCommentRequest) (*Comment, error) {
	v := common.NewValidator()
	validateInt(v, req.PostID, "post_id")
	validateAuthorName(v, req.AuthorName)
	validateAuthorEmail(v, req.AuthorEmail)
	validateContent(v, req.Content)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	title, err := s.m.getPublishedPostTitle(ctx, req.PostID)
	if err != nil {
		return nil, err
	}

	c := &Comment{
		PostID:      req.PostID,
		PostTitle:   title,
		AuthorName:  strings.TrimSpace(req.AuthorName),
		AuthorEmail: req.AuthorEmail,
		Content:     strings.TrimSpace(req.Content),
	}

	err = s.m.insert(ctx, c)
	if err != nil {
		return nil, err
	}

	s.publishCreated(ctx, c)

	return c, nil
}

func (s *CommentService) publishCreated(ctx context.Context, c *Comment) {
	if s.mb == nil {
		return
	}

	event := CommentCreatedEvent{
		CommentID:   c.ID,
		PostID:      c.PostID,
		PostTitle:   c.PostTitle,
		AuthorName:  c.AuthorName,
		AuthorEmail: c.AuthorEmail,
		Content:     c.Content,
		CreatedAt:   c.CreatedAt,
	}

	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("could not marshal comment event", slog.Int("comment_id", c.ID), slog.String("error", err.Error()))
		return
	}

	err = s.mb.Publish(ctx, data, common.CommentCreatedKey, common.BlogExchange)
	if err != nil {
		s.logger.Error("could not publish comment event", slog.Int("comment_id", c.ID), slog.String("error", err.Error()))
	}
}

// GetPostComments returns the approved comments of a published post, oldest first. A post that exists but is
// not published is reported as common.ErrRecordNotFound, the same as a missing one.
func (s *CommentService) GetPostComments(ctx context.Context, postID int) ([]Comment, error) {
	v := common.NewValidator()
	validateInt(v, postID, "post_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	_, err := s.m.getPublishedPostTitle(ctx, postID)
	if err != nil {
		return nil, err
	}

	return s.m.getApprovedByPostID(ctx, postID)
}

// GetAllComments returns every comment, newest first.
func (s *CommentService) GetAllComments(ctx context.Context) ([]Comment, error) {
	return s.m.getAll(ctx)
}

// GetPendingComments returns the comments awaiting moderation, newest first.
func (s *CommentService) GetPendingComments(ctx context.Context) ([]Comment, error) {
	return s.m.getPending(ctx)
}

// UpdateCommentStatus approves or rejects a comment.
func (s *CommentService) UpdateCommentStatus(ctx context.Context, id int, approved bool) (*Comment, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.updateStatus(ctx, id, approved)
}

func (s *CommentService) DeleteComment(ctx context.Context, id int) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.delete(ctx, id)
}
