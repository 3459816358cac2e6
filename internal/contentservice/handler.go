package contentservice

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/sushihentaime/inkwell/internal/common"
)

// maxSlugConflictRetries bounds how often a write is retried after losing a slug race.
const maxSlugConflictRetries = 3

func NewContentService(db *sql.DB, kind Kind) *ContentService {
	return &ContentService{m: newContentModel(db, kind), now: time.Now}
}

func (s *ContentService) Kind() Kind {
	return s.m.kind
}

type CreateContentRequest struct {
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Excerpt     *string    `json:"excerpt"`
	Status      Status     `json:"status"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	Metadata
}

// UpdateContentRequest is a partial update: nil fields are left unchanged. For the nullable text fields an
// empty string clears the stored value.
type UpdateContentRequest struct {
	Title       *string    `json:"title"`
	Content     *string    `json:"content"`
	Excerpt     *string    `json:"excerpt"`
	Status      *Status    `json:"status"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	Metadata
}

// nullable maps an empty string to NULL.
func nullable(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}

	return s
}

func mergeNullable(dst **string, src *string) {
	if src != nil {
		*dst = nullable(src)
	}
}

func sanitizeNullable(s *string) *string {
	if s == nil {
		return nil
	}

	clean := sanitizeMarkdown(*s)
	return &clean
}

func (md *Metadata) normalize() {
	md.SEOTitle = nullable(md.SEOTitle)
	md.SEODescription = nullable(md.SEODescription)
	md.SEOKeywords = nullable(md.SEOKeywords)
	md.OGTitle = nullable(md.OGTitle)
	md.OGDescription = nullable(md.OGDescription)
	md.OGImageURL = nullable(md.OGImageURL)
	md.OGType = nullable(md.OGType)
	md.OGURL = nullable(md.OGURL)
}

func (md *Metadata) merge(src *Metadata) {
	mergeNullable(&md.SEOTitle, src.SEOTitle)
	mergeNullable(&md.SEODescription, src.SEODescription)
	mergeNullable(&md.SEOKeywords, src.SEOKeywords)
	mergeNullable(&md.OGTitle, src.OGTitle)
	mergeNullable(&md.OGDescription, src.OGDescription)
	mergeNullable(&md.OGImageURL, src.OGImageURL)
	mergeNullable(&md.OGType, src.OGType)
	mergeNullable(&md.OGURL, src.OGURL)
}

// Create stores a new item under a unique slug derived from its title. A missing status means draft.
func (s *ContentService) Create(ctx context.Context, req *CreateContentRequest) (*Content, error) {
	v := common.NewValidator()
	validateCreate(v, s.m.kind, req)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	status := req.Status
	if status == "" {
		status = StatusDraft
	}

	c := &Content{
		Title:       strings.TrimSpace(req.Title),
		Content:     sanitizeMarkdown(req.Content),
		Excerpt:     sanitizeNullable(nullable(req.Excerpt)),
		ScheduledAt: req.ScheduledAt,
		Metadata:    req.Metadata,
	}
	c.Metadata.normalize()

	err := applyStatus(c, status, actionSave, s.now())
	if err != nil {
		return nil, err
	}

	base := GenerateSlug(c.Title, s.m.kind.fallbackSlug)

	for attempt := 0; attempt < maxSlugConflictRetries; attempt++ {
		c.Slug, err = s.m.ensureUniqueSlug(ctx, base, 0)
		if err != nil {
			return nil, err
		}

		err = s.m.insert(ctx, c)
		if errors.Is(err, ErrSlugConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		return c, nil
	}

	return nil, ErrSlugConflict
}

// GetByID returns an item in any status.
func (s *ContentService) GetByID(ctx context.Context, id int) (*Content, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getByID(ctx, id)
}

// GetPublishedBySlug returns the published item with the given slug. Drafts and other statuses are reported as
// not found.
func (s *ContentService) GetPublishedBySlug(ctx context.Context, slug string) (*Content, error) {
	v := common.NewValidator()
	v.Check(slug != "", "slug", "must be provided")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getPublishedBySlug(ctx, slug)
}

// GetPublished returns every published item, latest first.
func (s *ContentService) GetPublished(ctx context.Context) ([]Content, error) {
	return s.m.getPublished(ctx)
}

// GetAll returns every item for the admin listing.
func (s *ContentService) GetAll(ctx context.Context) ([]Content, error) {
	return s.m.getAll(ctx)
}

// Search is the admin search: the same field match as the public search but across all statuses.
func (s *ContentService) Search(ctx context.Context, query string) ([]Content, error) {
	v := common.NewValidator()
	validateSearch(v, query, SearchScopeAll)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.search(ctx, containsPattern(strings.TrimSpace(query)), false)
}

// Update applies a partial update. A changed title regenerates the slug, excluding the item's own slug from
// the uniqueness check.
func (s *ContentService) Update(ctx context.Context, id int, req *UpdateContentRequest) (*Content, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	validateUpdate(v, s.m.kind, req)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	c, err := s.m.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	titleChanged := false
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		titleChanged = title != c.Title
		c.Title = title
	}
	if req.Content != nil {
		c.Content = sanitizeMarkdown(*req.Content)
	}
	if req.Excerpt != nil {
		c.Excerpt = sanitizeNullable(nullable(req.Excerpt))
	}
	if req.ScheduledAt != nil {
		c.ScheduledAt = req.ScheduledAt
	}
	c.Metadata.merge(&req.Metadata)

	next := c.Status
	if req.Status != nil {
		next = *req.Status
	}

	err = applyStatus(c, next, actionSave, s.now())
	if err != nil {
		return nil, err
	}

	if !titleChanged {
		err = s.m.update(ctx, c)
		if err != nil {
			return nil, err
		}

		return c, nil
	}

	base := GenerateSlug(c.Title, s.m.kind.fallbackSlug)

	for attempt := 0; attempt < maxSlugConflictRetries; attempt++ {
		c.Slug, err = s.m.ensureUniqueSlug(ctx, base, c.ID)
		if err != nil {
			return nil, err
		}

		err = s.m.update(ctx, c)
		if errors.Is(err, ErrSlugConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		return c, nil
	}

	return nil, ErrSlugConflict
}

// Publish marks the item published and stamps published_at with the current time.
func (s *ContentService) Publish(ctx context.Context, id int) (*Content, error) {
	return s.transition(ctx, id, StatusPublished, actionPublish)
}

// Unpublish takes the item offline and clears published_at.
func (s *ContentService) Unpublish(ctx context.Context, id int) (*Content, error) {
	return s.transition(ctx, id, StatusUnpublished, actionUnpublish)
}

func (s *ContentService) transition(ctx context.Context, id int, next Status, action transitionAction) (*Content, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	c, err := s.m.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = applyStatus(c, next, action, s.now())
	if err != nil {
		return nil, err
	}

	err = s.m.update(ctx, c)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Delete removes the item. Comments on a post go with it through the foreign key.
func (s *ContentService) Delete(ctx context.Context, id int) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.delete(ctx, id)
}
