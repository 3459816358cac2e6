package mailservice

import (
	"errors"
	"testing"

	"github.com/go-mail/mail/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSendCommentPending(t *testing.T) {
	testCases := []struct {
		name        string
		data        commentPendingData
		dialErr     error
		expectedErr error
		replyTo     []string
	}{
		{
			name:    "delivered with reply to author",
			data:    commentPendingData{PostTitle: "Hello World", AuthorName: "Jane", AuthorEmail: "jane@example.com"},
			replyTo: []string{`"Jane" <jane@example.com>`},
		},
		{
			name:        "smtp failure",
			data:        commentPendingData{PostTitle: "Hello World", AuthorName: "Jane", AuthorEmail: "jane@example.com"},
			dialErr:     errors.New("dial tcp: connection refused"),
			expectedErr: errors.New("dial tcp: connection refused"),
			replyTo:     []string{`"Jane" <jane@example.com>`},
		},
		{
			name: "no author address",
			data: commentPendingData{PostTitle: "Hello World", AuthorName: "Jane"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockRenderer := new(MockRenderer)
			mockDialer := new(MockDialer)

			mailer := Mail{
				dialer:   mockDialer,
				renderer: mockRenderer,
				sender:   "Inkwell <no-reply@example.com>",
			}

			rendered := &RenderedMail{Subject: "New comment", PlainBody: "Plain body", HTMLBody: "<p>HTML body</p>"}
			mockRenderer.On("Render", commentPendingTemplate, tc.data).Return(rendered, nil)

			var sent *mail.Message
			mockDialer.On("DialAndSend", mock.AnythingOfType("[]*mail.Message")).Run(func(args mock.Arguments) {
				msgs := args.Get(0).([]*mail.Message)
				sent = msgs[0]
			}).Return(tc.dialErr)

			err := mailer.sendCommentPending("moderator@example.com", tc.data)
			assert.Equal(t, tc.expectedErr, err)

			if assert.NotNil(t, sent) {
				assert.Equal(t, []string{"moderator@example.com"}, sent.GetHeader("To"))
				assert.Equal(t, []string{"New comment"}, sent.GetHeader("Subject"))
				assert.Equal(t, tc.replyTo, sent.GetHeader("Reply-To"))
			}

			mockRenderer.AssertExpectations(t)
			mockDialer.AssertExpectations(t)
		})
	}
}

func TestSendCommentPendingRenderError(t *testing.T) {
	mockRenderer := new(MockRenderer)
	mockDialer := new(MockDialer)

	mailer := Mail{dialer: mockDialer, renderer: mockRenderer, sender: "Inkwell <no-reply@example.com>"}

	renderErr := errors.New("could not parse template")
	mockRenderer.On("Render", commentPendingTemplate, mock.Anything).Return(nil, renderErr)

	err := mailer.sendCommentPending("moderator@example.com", commentPendingData{})
	assert.Equal(t, renderErr, err)
	mockDialer.AssertNotCalled(t, "DialAndSend", mock.Anything)
}
