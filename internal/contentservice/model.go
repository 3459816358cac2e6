package contentservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sushihentaime/inkwell/internal/common"
)

const maxSlugAttempts = 100

func newContentModel(db *sql.DB, kind Kind) *ContentModel {
	return &ContentModel{db: db, kind: kind}
}

type scanner interface {
	Scan(dest ...any) error
}

// selectColumns lists the columns every read returns. Pages have no excerpt column, so they select NULL in
// its place and share the scan order with posts.
func (m *ContentModel) selectColumns() string {
	excerpt := "NULL::text"
	if m.kind.hasExcerpt {
		excerpt = "excerpt"
	}

	return fmt.Sprintf(`id, title, slug, content, %s, status, published_at, scheduled_at,
		seo_title, seo_description, seo_keywords, og_title, og_description, og_image_url, og_type, og_url,
		created_at, updated_at, version`, excerpt)
}

func scanContent(row scanner, c *Content) error {
	return row.Scan(
		&c.ID,
		&c.Title,
		&c.Slug,
		&c.Content,
		&c.Excerpt,
		&c.Status,
		&c.PublishedAt,
		&c.ScheduledAt,
		&c.SEOTitle,
		&c.SEODescription,
		&c.SEOKeywords,
		&c.OGTitle,
		&c.OGDescription,
		&c.OGImageURL,
		&c.OGType,
		&c.OGURL,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.Version,
	)
}

// writeColumns returns the writable columns with their values in matching order.
func (m *ContentModel) writeColumns(c *Content) ([]string, []any) {
	cols := []string{"title", "slug", "content"}
	args := []any{c.Title, c.Slug, c.Content}

	if m.kind.hasExcerpt {
		cols = append(cols, "excerpt")
		args = append(args, c.Excerpt)
	}

	cols = append(cols, "status", "published_at", "scheduled_at",
		"seo_title", "seo_description", "seo_keywords",
		"og_title", "og_description", "og_image_url", "og_type", "og_url")
	args = append(args, string(c.Status), c.PublishedAt, c.ScheduledAt,
		c.SEOTitle, c.SEODescription, c.SEOKeywords,
		c.OGTitle, c.OGDescription, c.OGImageURL, c.OGType, c.OGURL)

	return cols, args
}

func (m *ContentModel) writeError(err error) error {
	switch {
	case common.IsUniqueViolation(err, m.kind.slugConstraint):
		return ErrSlugConflict
	default:
		return err
	}
}

func (m *ContentModel) insert(ctx context.Context, c *Content) error {
	cols, args := m.writeColumns(c)

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES (%s)
		RETURNING id, created_at, updated_at, version`, m.kind.table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.Version)
	if err != nil {
		return m.writeError(err)
	}

	return nil
}

// update writes every column of c and bumps updated_at. The write only lands when the stored version still
// matches c.Version; otherwise the row was changed or removed since it was read and ErrEditConflict is returned.
func (m *ContentModel) update(ctx context.Context, c *Content) error {
	cols, args := m.writeColumns(c)

	assignments := make([]string, len(cols))
	for i, col := range cols {
		assignments[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	args = append(args, c.ID, c.Version)

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s, updated_at = NOW(), version = version + 1
		WHERE id = $%d AND version = $%d
		RETURNING created_at, updated_at, version`, m.kind.table, strings.Join(assignments, ", "), len(args)-1, len(args))

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&c.CreatedAt, &c.UpdatedAt, &c.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return m.writeError(err)
		}
	}

	return nil
}

func (m *ContentModel) delete(ctx context.Context, id int) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1`, m.kind.table)

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

func (m *ContentModel) getByID(ctx context.Context, id int) (*Content, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1`, m.selectColumns(), m.kind.table)

	var c Content
	err := scanContent(m.db.QueryRowContext(ctx, query, id), &c)
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

func (m *ContentModel) getPublishedBySlug(ctx context.Context, slug string) (*Content, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE slug = $1 AND status = 'published'`, m.selectColumns(), m.kind.table)

	var c Content
	err := scanContent(m.db.QueryRowContext(ctx, query, slug), &c)
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

// getPublished returns published items, latest first.
func (m *ContentModel) getPublished(ctx context.Context) ([]Content, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE status = 'published'
		ORDER BY published_at DESC, id DESC`, m.selectColumns(), m.kind.table)

	return m.list(ctx, query)
}

// getAll returns every item regardless of status, most recently edited first.
func (m *ContentModel) getAll(ctx context.Context) ([]Content, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY updated_at DESC, id DESC`, m.selectColumns(), m.kind.table)

	return m.list(ctx, query)
}

func (m *ContentModel) list(ctx context.Context, query string, args ...any) ([]Content, error) {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Content{}
	for rows.Next() {
		var c Content
		if err := scanContent(rows, &c); err != nil {
			return nil, err
		}
		items = append(items, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// slugExists reports whether another record already owns slug. excludeID is the record being updated, or 0.
func (m *ContentModel) slugExists(ctx context.Context, slug string, excludeID int) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s
			WHERE slug = $1 AND id <> $2
		)`, m.kind.table)

	var exists bool
	err := m.db.QueryRowContext(ctx, query, slug, excludeID).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// ensureUniqueSlug returns base, or base-1, base-2, ... whichever is free first. The check is advisory: the
// unique constraint on the table decides, and writers retry on ErrSlugConflict.
func (m *ContentModel) ensureUniqueSlug(ctx context.Context, base string, excludeID int) (string, error) {
	candidate := base

	for counter := 1; counter <= maxSlugAttempts; counter++ {
		exists, err := m.slugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}

		if !exists {
			return candidate, nil
		}

		candidate = fmt.Sprintf("%s-%d", base, counter)
	}

	return "", fmt.Errorf("%w: %q after %d attempts", ErrSlugGeneration, base, maxSlugAttempts)
}
