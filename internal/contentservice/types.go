package contentservice

import (
	"database/sql"
	"errors"
	"time"
)

type Status string

const (
	StatusDraft       Status = "draft"
	StatusScheduled   Status = "scheduled"
	StatusPublished   Status = "published"
	StatusUnpublished Status = "unpublished"
)

var (
	// ErrSlugGeneration is returned when no free slug was found within the attempt budget.
	ErrSlugGeneration = errors.New("could not generate a unique slug")
	// ErrSlugConflict is returned when the store rejected a slug that another writer claimed first.
	ErrSlugConflict = errors.New("slug is already taken")
	// ErrEditConflict is returned when the row changed or was removed after it was read.
	ErrEditConflict = errors.New("edit conflict")
)

// Kind describes one content type. Posts and pages share the lifecycle but live in separate tables with
// separate slug namespaces.
type Kind struct {
	Name           string
	table          string
	slugConstraint string
	fallbackSlug   string
	hasExcerpt     bool
	// searchOrder is the ORDER BY of the public search.
	searchOrder string
}

var (
	PostKind = Kind{
		Name:           "post",
		table:          "posts",
		slugConstraint: "posts_slug_key",
		fallbackSlug:   "post",
		hasExcerpt:     true,
		searchOrder:    "published_at ASC, id ASC",
	}

	PageKind = Kind{
		Name:           "page",
		table:          "pages",
		slugConstraint: "pages_slug_key",
		fallbackSlug:   "page",
		searchOrder:    "updated_at ASC, id ASC",
	}
)

// Metadata holds the optional SEO and Open Graph fields. They are stored verbatim.
type Metadata struct {
	SEOTitle       *string `json:"seo_title"`
	SEODescription *string `json:"seo_description"`
	SEOKeywords    *string `json:"seo_keywords"`
	OGTitle        *string `json:"og_title"`
	OGDescription  *string `json:"og_description"`
	OGImageURL     *string `json:"og_image_url"`
	OGType         *string `json:"og_type"`
	OGURL          *string `json:"og_url"`
}

// Content is a post or a page. Excerpt is always nil for pages.
type Content struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content"`
	Excerpt     *string    `json:"excerpt,omitempty"`
	Status      Status     `json:"status"`
	PublishedAt *time.Time `json:"published_at"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	Metadata
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

func (c *Content) IsPublished() bool {
	return c.Status == StatusPublished
}

type ContentModel struct {
	db   *sql.DB
	kind Kind
}

type ContentService struct {
	m   *ContentModel
	now func() time.Time
}

type SearchScope string

const (
	SearchScopePosts SearchScope = "posts"
	SearchScopePages SearchScope = "pages"
	SearchScopeAll   SearchScope = "all"
)

type SearchResult struct {
	Posts []Content `json:"posts"`
	Pages []Content `json:"pages"`
	Total int       `json:"total"`
}

type SearchService struct {
	posts *ContentModel
	pages *ContentModel
}
