package contentservice

import (
	"strings"

	"github.com/sushihentaime/inkwell/internal/common"
)

func validateTitle(v *common.Validator, title string) {
	v.Check(strings.TrimSpace(title) != "", "title", "must be provided")
	v.Check(v.CheckStringLength(title, 0, 200), "title", "must not be more than 200 characters long")
}

func validateContent(v *common.Validator, content string) {
	v.Check(strings.TrimSpace(content) != "", "content", "must be provided")
}

func validateStatus(v *common.Validator, status Status) {
	v.Check(common.PermittedValue(status, StatusDraft, StatusScheduled, StatusPublished, StatusUnpublished), "status", "must be one of draft, scheduled, published, unpublished")
}

func validateExcerpt(v *common.Validator, kind Kind, excerpt *string) {
	if excerpt == nil {
		return
	}

	v.Check(kind.hasExcerpt, "excerpt", "is not supported for "+kind.table)
	v.Check(v.CheckStringLength(*excerpt, 0, 500), "excerpt", "must not be more than 500 characters long")
}

func validateMetadata(v *common.Validator, md *Metadata) {
	checkLength := func(field string, value *string, max int) {
		if value != nil {
			v.Check(v.CheckStringLength(*value, 0, max), field, "is too long")
		}
	}
	checkURL := func(field string, value *string) {
		if value != nil && *value != "" {
			v.Check(v.CheckURL(*value), field, "must be a valid URL")
		}
	}

	checkLength("seo_title", md.SEOTitle, 200)
	checkLength("seo_description", md.SEODescription, 500)
	checkLength("seo_keywords", md.SEOKeywords, 500)
	checkLength("og_title", md.OGTitle, 200)
	checkLength("og_description", md.OGDescription, 500)
	checkLength("og_type", md.OGType, 50)
	checkURL("og_image_url", md.OGImageURL)
	checkURL("og_url", md.OGURL)
}

func validateInt(v *common.Validator, num int, name string) {
	v.Check(num > 0, name, "must be greater than zero")
}

func validateCreate(v *common.Validator, kind Kind, req *CreateContentRequest) {
	validateTitle(v, req.Title)
	validateContent(v, req.Content)
	if req.Status != "" {
		validateStatus(v, req.Status)
	}
	if req.Status == StatusScheduled {
		v.Check(req.ScheduledAt != nil, "scheduled_at", "must be provided when status is scheduled")
	}
	validateExcerpt(v, kind, req.Excerpt)
	validateMetadata(v, &req.Metadata)
}

func validateUpdate(v *common.Validator, kind Kind, req *UpdateContentRequest) {
	if req.Title != nil {
		validateTitle(v, *req.Title)
	}
	if req.Content != nil {
		validateContent(v, *req.Content)
	}
	if req.Status != nil {
		validateStatus(v, *req.Status)
	}
	validateExcerpt(v, kind, req.Excerpt)
	validateMetadata(v, &req.Metadata)
}
