package contentservice

import (
	"regexp"
	"strings"
)

var (
	slugStripRX     = regexp.MustCompile(`[^\w\s\p{Z}-]`)
	slugSeparatorRX = regexp.MustCompile(`[\s\p{Z}_-]+`)
)

// GenerateSlug turns a title into a URL-safe token made of [a-z0-9-]. When nothing survives the
// transformation the fallback is returned instead.
func GenerateSlug(title, fallback string) string {
	slug := strings.TrimSpace(strings.ToLower(title))
	slug = slugStripRX.ReplaceAllString(slug, "")
	slug = slugSeparatorRX.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if slug == "" {
		return fallback
	}

	return slug
}
