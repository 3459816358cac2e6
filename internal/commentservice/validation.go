package commentservice

import (
	"strings"

	"github.com/sushihentaime/inkwell/internal/common"
)

func validateAuthorName(v *common.Validator, name string) {
	v.Check(strings.TrimSpace(name) != "", "author_name", "must be provided")
	v.Check(v.CheckStringLength(name, 0, 100), "author_name", "must not be more than 100 characters long")
}

func validateAuthorEmail(v *common.Validator, email string) {
	v.Check(email != "", "author_email", "must be provided")
	v.Check(v.CheckEmail(email), "author_email", "must be a valid email address")
}

func validateContent(v *common.Validator, content string) {
	v.Check(strings.TrimSpace(content) != "", "content", "must be provided")
	v.Check(v.CheckStringLength(content, 0, 5000), "content", "must not be more than 5000 characters long")
}

func validateInt(v *common.Validator, num int, name string) {
	v.Check(num > 0, name, "must be greater than zero")
}
