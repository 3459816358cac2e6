package contentservice

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sushihentaime/inkwell/internal/common"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func NewSearchService(db *sql.DB) *SearchService {
	return &SearchService{
		posts: newContentModel(db, PostKind),
		pages: newContentModel(db, PageKind),
	}
}

// containsPattern builds an ILIKE pattern that matches query literally anywhere in a field.
func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}

func (m *ContentModel) searchFields() []string {
	fields := []string{"title", "content"}
	if m.kind.hasExcerpt {
		fields = append(fields, "excerpt")
	}

	return append(fields, "seo_title", "seo_description", "seo_keywords")
}

// search matches pattern against every searchable field. The public search is restricted to published items
// and keeps ascending order: posts by published_at, pages by updated_at.
func (m *ContentModel) search(ctx context.Context, pattern string, publishedOnly bool) ([]Content, error) {
	fields := m.searchFields()
	conditions := make([]string, len(fields))
	for i, field := range fields {
		conditions[i] = field + " ILIKE $1"
	}

	where := "(" + strings.Join(conditions, " OR ") + ")"
	order := "updated_at DESC, id DESC"

	if publishedOnly {
		where = "status = 'published' AND " + where
		order = m.kind.searchOrder
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s
		ORDER BY %s`, m.selectColumns(), m.kind.table, where, order)

	return m.list(ctx, query, pattern)
}

func validateSearch(v *common.Validator, query string, scope SearchScope) {
	v.Check(strings.TrimSpace(query) != "", "q", "must be provided")
	v.Check(v.CheckStringLength(query, 0, 200), "q", "must not be more than 200 characters long")
	v.Check(common.PermittedValue(scope, SearchScopePosts, SearchScopePages, SearchScopeAll), "type", "must be one of posts, pages, all")
}

// Search finds published posts and/or pages containing query, case-insensitively, in any text field.
// An empty scope searches both.
func (s *SearchService) Search(ctx context.Context, query string, scope SearchScope) (*SearchResult, error) {
	if scope == "" {
		scope = SearchScopeAll
	}

	v := common.NewValidator()
	validateSearch(v, query, scope)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	pattern := containsPattern(strings.TrimSpace(query))
	result := &SearchResult{Posts: []Content{}, Pages: []Content{}}

	if scope == SearchScopePosts || scope == SearchScopeAll {
		posts, err := s.posts.search(ctx, pattern, true)
		if err != nil {
			return nil, fmt.Errorf("search posts: %w", err)
		}
		result.Posts = posts
	}

	if scope == SearchScopePages || scope == SearchScopeAll {
		pages, err := s.pages.search(ctx, pattern, true)
		if err != nil {
			return nil, fmt.Errorf("search pages: %w", err)
		}
		result.Pages = pages
	}

	result.Total = len(result.Posts) + len(result.Pages)

	return result, nil
}
