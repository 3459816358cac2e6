package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatorCheck(t *testing.T) {
	v := NewValidator()
	v.Check(false, "title", "must be provided")
	v.Check(false, "title", "must be shorter")
	v.Check(true, "content", "must be provided")

	assert.False(t, v.Valid())
	assert.Equal(t, ValidationError{Errors: map[string]string{"title": "must be provided"}}, v.ValidationError())
}

func TestCheckStringLength(t *testing.T) {
	v := NewValidator()

	assert.True(t, v.CheckStringLength("héllo", 5, 5))
	assert.False(t, v.CheckStringLength("", 1, 5))
	assert.False(t, v.CheckStringLength("abcdef", 1, 5))
}

func TestCheckEmail(t *testing.T) {
	testCases := []struct {
		email string
		valid bool
	}{
		{email: "", valid: false},
		{email: "a@", valid: false},
		{email: "a@b", valid: false},
		{email: "a@b.c", valid: false},
		{email: "a@b.com", valid: true},
		{email: "jane.doe+blog@example.co.uk", valid: true},
	}

	for _, tc := range testCases {
		t.Run(tc.email, func(t *testing.T) {
			v := NewValidator()
			assert.Equal(t, tc.valid, v.CheckEmail(tc.email))
		})
	}
}

func TestCheckURL(t *testing.T) {
	testCases := []struct {
		url   string
		valid bool
	}{
		{url: "", valid: false},
		{url: "example.com", valid: false},
		{url: "/relative/path", valid: false},
		{url: "ftp://example.com/file", valid: false},
		{url: "https://", valid: false},
		{url: "http://example.com", valid: true},
		{url: "https://cdn.example.com/img/cover.png?w=1200", valid: true},
	}

	for _, tc := range testCases {
		t.Run(tc.url, func(t *testing.T) {
			v := NewValidator()
			assert.Equal(t, tc.valid, v.CheckURL(tc.url))
		})
	}
}

func TestPermittedValue(t *testing.T) {
	assert.True(t, PermittedValue("posts", "posts", "pages", "all"))
	assert.False(t, PermittedValue("users", "posts", "pages", "all"))
}
