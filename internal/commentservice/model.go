package commentservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sushihentaime/inkwell/internal/common"
)

const commentsPostForeignKey = "comments_post_id_fkey"

func newCommentModel(db *sql.DB) *CommentModel {
	return &CommentModel{db: db}
}

// getPublishedPostTitle returns the title of a published post. Unpublished posts do not accept or show
// comments, so they are reported as missing.
func (m *CommentModel) getPublishedPostTitle(ctx context.Context, postID int) (string, error) {
	query := `
		SELECT title
		FROM posts
		WHERE id = $1 AND status = 'published'`

	var title string
	err := m.db.QueryRowContext(ctx, query, postID).Scan(&title)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return "", common.ErrRecordNotFound
		default:
			return "", err
		}
	}

	return title, nil
}

// insert always stores the comment unapproved, whatever c.IsApproved says.
func (m *CommentModel) insert(ctx context.Context, c *Comment) error {
	query := `
		INSERT INTO comments (post_id, author_name, author_email, content, is_approved)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id, is_approved, created_at, updated_at`

	err := m.db.QueryRowContext(ctx, query, c.PostID, c.AuthorName, c.AuthorEmail, c.Content).Scan(&c.ID, &c.IsApproved, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		switch {
		case common.IsForeignKeyViolation(err, commentsPostForeignKey):
			return common.ErrRecordNotFound
		default:
			return err
		}
	}

	return nil
}

func (m *CommentModel) getApprovedByPostID(ctx context.Context, postID int) ([]Comment, error) {
	query := `
		SELECT id, post_id, ''::text, author_name, author_email, content, is_approved, created_at, updated_at
		FROM comments
		WHERE post_id = $1 AND is_approved = TRUE
		ORDER BY created_at ASC, id ASC`

	return m.list(ctx, query, postID)
}

func (m *CommentModel) getAll(ctx context.Context) ([]Comment, error) {
	query := `
		SELECT c.id, c.post_id, p.title, c.author_name, c.author_email, c.content, c.is_approved, c.created_at, c.updated_at
		FROM comments c
		JOIN posts p ON c.post_id = p.id
		ORDER BY c.created_at DESC, c.id DESC`

	return m.list(ctx, query)
}

func (m *CommentModel) getPending(ctx context.Context) ([]Comment, error) {
	query := `
		SELECT c.id, c.post_id, p.title, c.author_name, c.author_email, c.content, c.is_approved, c.created_at, c.updated_at
		FROM comments c
		JOIN posts p ON c.post_id = p.id
		WHERE c.is_approved = FALSE
		ORDER BY c.created_at DESC, c.id DESC`

	return m.list(ctx, query)
}

func (m *CommentModel) list(ctx context.Context, query string, args ...any) ([]Comment, error) {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var c Comment
		err := rows.Scan(&c.ID, &c.PostID, &c.PostTitle, &c.AuthorName, &c.AuthorEmail, &c.Content, &c.IsApproved, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

func (m *CommentModel) updateStatus(ctx context.Context, id int, approved bool) (*Comment, error) {
	query := `
		UPDATE comments
		SET is_approved = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, post_id, author_name, author_email, content, is_approved, created_at, updated_at`

	var c Comment
	err := m.db.QueryRowContext(ctx, query, approved, id).Scan(&c.ID, &c.PostID, &c.AuthorName, &c.AuthorEmail, &c.Content, &c.IsApproved, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &c, nil
}

func (m *CommentModel) delete(ctx context.Context, id int) error {
	query := `
		DELETE FROM comments
		WHERE id = $1`

	res, err := m.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return common.ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}
