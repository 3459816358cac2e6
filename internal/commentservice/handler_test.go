package commentservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/inkwell/internal/common"
)

func createTestPost(db *sql.DB, title, slug, status string) (int, error) {
	var id int
	err := db.QueryRow("INSERT INTO posts (title, slug, content, status) VALUES ($1, $2, 'Body', $3) RETURNING id", title, slug, status).Scan(&id)
	return id, err
}

func createTestComment(db *sql.DB, postID int, approved bool) (int, error) {
	var id int
	err := db.QueryRow("INSERT INTO comments (post_id, author_name, author_email, content, is_approved) VALUES ($1, 'Jane', 'jane@example.com', 'Hello', $2) RETURNING id", postID, approved).Scan(&id)
	return id, err
}

func setupTestEnvironment(t *testing.T) (*CommentService, *MockMessageProducer, *sql.DB, func() error) {
	db := common.TestDB("file://../../migrations", t)
	mb := new(MockMessageProducer)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cleanup := func() error {
		_, err := db.Exec("DELETE FROM comments")
		if err != nil {
			return err
		}

		_, err = db.Exec("DELETE FROM posts")
		return err
	}

	return NewCommentService(db, mb, logger), mb, db, cleanup
}

func TestCreateComment(t *testing.T) {
	s, mb, db, cleanup := setupTestEnvironment(t)

	postID, err := createTestPost(db, "Hello World", "hello-world", "published")
	require.NoError(t, err)
	draftID, err := createTestPost(db, "Draft", "draft", "draft")
	require.NoError(t, err)

	mb.On("Publish", mock.Anything, mock.Anything, common.CommentCreatedKey, common.BlogExchange).Return(nil)

	testCases := []struct {
		name        string
		req         *CreateCommentRequest
		expectedErr error
	}{
		{
			name:        "valid comment",
			req:         &CreateCommentRequest{PostID: postID, AuthorName: "Jane", AuthorEmail: "jane@example.com", Content: "Great read"},
			expectedErr: nil,
		},
		{
			name:        "missing post",
			req:         &CreateCommentRequest{PostID: 999999, AuthorName: "Jane", AuthorEmail: "jane@example.com", Content: "Great read"},
			expectedErr: common.ErrRecordNotFound,
		},
		{
			name:        "unpublished post reported as not found",
			req:         &CreateCommentRequest{PostID: draftID, AuthorName: "Jane", AuthorEmail: "jane@example.com", Content: "Great read"},
			expectedErr: common.ErrRecordNotFound,
		},
		{
			name:        "invalid email",
			req:         &CreateCommentRequest{PostID: postID, AuthorName: "Jane", AuthorEmail: "jane", Content: "Great read"},
			expectedErr: common.ValidationError{Errors: map[string]string{"author_email": "must be a valid email address"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			c, err := s.CreateComment(ctx, tc.req)
			assert.Equal(t, tc.expectedErr, err)

			var count int
			require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM comments").Scan(&count))

			if err == nil {
				assert.False(t, c.IsApproved)
				assert.Equal(t, "Hello World", c.PostTitle)
				assert.Equal(t, 1, count)

				var approved bool
				require.NoError(t, db.QueryRow("SELECT is_approved FROM comments WHERE id = $1", c.ID).Scan(&approved))
				assert.False(t, approved)
			} else {
				assert.Nil(t, c)
				assert.Equal(t, 0, count)
			}

			t.Cleanup(func() {
				_, err := db.Exec("DELETE FROM comments")
				assert.NoError(t, err)
			})
		})
	}

	mb.AssertNumberOfCalls(t, "Publish", 1)

	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})
}

func TestCreateCommentPublishesEvent(t *testing.T) {
	s, mb, db, cleanup := setupTestEnvironment(t)

	postID, err := createTestPost(db, "Event Post", "event-post", "published")
	require.NoError(t, err)

	var event CommentCreatedEvent
	mb.On("Publish", mock.Anything, mock.Anything, common.CommentCreatedKey, common.BlogExchange).
		Run(func(args mock.Arguments) {
			assert.NoError(t, json.Unmarshal(args.Get(1).([]byte), &event))
		}).
		Return(nil)

	c, err := s.CreateComment(context.Background(), &CreateCommentRequest{PostID: postID, AuthorName: "Jane", AuthorEmail: "jane@example.com", Content: "Hi"})
	require.NoError(t, err)

	assert.Equal(t, c.ID, event.CommentID)
	assert.Equal(t, postID, event.PostID)
	assert.Equal(t, "Event Post", event.PostTitle)
	assert.Equal(t, "jane@example.com", event.AuthorEmail)
	mb.AssertExpectations(t)

	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})
}

func TestCreateCommentKeepsCommentWhenPublishFails(t *testing.T) {
	s, mb, db, cleanup := setupTestEnvironment(t)

	postID, err := createTestPost(db, "Broker Down", "broker-down", "published")
	require.NoError(t, err)

	mb.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection closed"))

	c, err := s.CreateComment(context.Background(), &CreateCommentRequest{PostID: postID, AuthorName: "Jane", AuthorEmail: "jane@example.com", Content: "Hi"})
	require.NoError(t, err)
	assert.NotZero(t, c.ID)

	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})
}

func TestGetPostComments(t *testing.T) {
	s, _, db, cleanup := setupTestEnvironment(t)

	postID, err := createTestPost(db, "Hello World", "hello-world", "published")
	require.NoError(t, err)
	draftID, err := createTestPost(db, "Draft", "draft", "draft")
	require.NoError(t, err)
	approvedID, err := createTestComment(db, postID, true)
	require.NoError(t, err)
	_, err = createTestComment(db, postID, false)
	require.NoError(t, err)

	testCases := []struct {
		name        string
		postID      int
		wantIDs     []int
		expectedErr error
	}{
		{name: "approved only", postID: postID, wantIDs: []int{approvedID}},
		{name: "missing post", postID: 999999, expectedErr: common.ErrRecordNotFound},
		{name: "unpublished post reported as not found", postID: draftID, expectedErr: common.ErrRecordNotFound},
		{name: "invalid id", postID: -1, expectedErr: common.ValidationError{Errors: map[string]string{"post_id": "must be greater than zero"}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			comments, err := s.GetPostComments(context.Background(), tc.postID)
			assert.Equal(t, tc.expectedErr, err)

			if err == nil {
				ids := []int{}
				for _, c := range comments {
					assert.True(t, c.IsApproved)
					ids = append(ids, c.ID)
				}
				assert.Equal(t, tc.wantIDs, ids)
			}
		})
	}

	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})
}

func TestModerateComments(t *testing.T) {
	s, _, db, cleanup := setupTestEnvironment(t)
	ctx := context.Background()

	postID, err := createTestPost(db, "Moderated", "moderated", "published")
	require.NoError(t, err)
	pendingID, err := createTestComment(db, postID, false)
	require.NoError(t, err)
	_, err = createTestComment(db, postID, true)
	require.NoError(t, err)

	all, err := s.GetAllComments(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "Moderated", all[0].PostTitle)

	pending, err := s.GetPendingComments(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, pendingID, pending[0].ID)

	approved, err := s.UpdateCommentStatus(ctx, pendingID, true)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)
	assert.False(t, approved.UpdatedAt.Before(approved.CreatedAt))

	pending, err = s.GetPendingComments(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	rejected, err := s.UpdateCommentStatus(ctx, pendingID, false)
	require.NoError(t, err)
	assert.False(t, rejected.IsApproved)

	_, err = s.UpdateCommentStatus(ctx, 999999, true)
	assert.Equal(t, common.ErrRecordNotFound, err)

	assert.NoError(t, s.DeleteComment(ctx, pendingID))
	assert.Equal(t, common.ErrRecordNotFound, s.DeleteComment(ctx, pendingID))
	assert.Equal(t, common.ErrRecordNotFound, s.DeleteComment(ctx, 999999))

	all, err = s.GetAllComments(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})
}
