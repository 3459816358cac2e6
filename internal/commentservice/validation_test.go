package commentservice

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sushihentaime/inkwell/internal/common"
)

func TestValidateComment(t *testing.T) {
	testCases := []struct {
		name    string
		author  string
		email   string
		content string
		want    map[string]string
	}{
		{name: "valid", author: "Jane", email: "jane@example.com", content: "Nice post", want: map[string]string{}},
		{name: "empty", want: map[string]string{"author_name": "must be provided", "author_email": "must be provided", "content": "must be provided"}},
		{name: "bad email", author: "Jane", email: "jane@", content: "Nice post", want: map[string]string{"author_email": "must be a valid email address"}},
		{name: "blank author", author: "  ", email: "jane@example.com", content: "Nice post", want: map[string]string{"author_name": "must be provided"}},
		{name: "long content", author: "Jane", email: "jane@example.com", content: strings.Repeat("x", 5001), want: map[string]string{"content": "must not be more than 5000 characters long"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			validateAuthorName(v, tc.author)
			validateAuthorEmail(v, tc.email)
			validateContent(v, tc.content)
			assert.Equal(t, tc.want, v.Errors)
		})
	}
}
