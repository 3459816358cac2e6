package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/inkwell/internal/commentservice"
	"github.com/sushihentaime/inkwell/internal/common"
	"github.com/sushihentaime/inkwell/internal/contentservice"
	"github.com/sushihentaime/inkwell/internal/userservice"
)

const (
	testAdminUsername = "admin"
	testAdminPassword = "Admin_1234!"
	testUserUsername  = "reader"
	testUserPassword  = "Reader_1234!"
)

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newBareApplication has no backing services; enough for middleware that never reaches them.
func newBareApplication() *application {
	return &application{
		config: &Config{Environment: "testing", Version: "test"},
		logger: newTestLogger(),
	}
}

// newTestApplication wires every service against a fresh Postgres container. Comment events are not published
// unless mb is non-nil.
func newTestApplication(t *testing.T, mb common.MessageProducer) (*application, *sql.DB) {
	db := common.TestDB("file://../../migrations", t)
	logger := newTestLogger()

	app := &application{
		config:         &Config{Environment: "testing", Version: "test"},
		logger:         logger,
		db:             db,
		userService:    userservice.NewUserService(db, common.NewCache(time.Minute, time.Minute)),
		postService:    contentservice.NewContentService(db, contentservice.PostKind),
		pageService:    contentservice.NewContentService(db, contentservice.PageKind),
		searchService:  contentservice.NewSearchService(db),
		commentService: commentservice.NewCommentService(db, mb, logger),
	}

	return app, db
}

// seedUsers creates the admin and a non-admin account and returns their access tokens.
func seedUsers(t *testing.T, app *application) (adminToken, userToken string) {
	ctx := context.Background()

	_, err := app.userService.CreateUser(ctx, testAdminUsername, "admin@example.com", testAdminPassword, true)
	require.NoError(t, err)
	_, err = app.userService.CreateUser(ctx, testUserUsername, "reader@example.com", testUserPassword, false)
	require.NoError(t, err)

	admin, _, err := app.userService.LoginUser(ctx, testAdminUsername, testAdminPassword)
	require.NoError(t, err)
	user, _, err := app.userService.LoginUser(ctx, testUserUsername, testUserPassword)
	require.NoError(t, err)

	return admin.AccessTokenPlain, user.AccessTokenPlain
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, envelope) {
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	var envelope envelope
	if len(responseBody) > 0 {
		err = json.Unmarshal(responseBody, &envelope)
		if err != nil {
			t.Fatal(err)
		}
	}

	return res.StatusCode, res.Header, envelope
}

func (ts *testServer) do(t *testing.T, method, path, token string, payload any) (int, http.Header, envelope) {
	var body io.Reader
	if payload != nil {
		jsonPayload, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewReader(jsonPayload)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) get(t *testing.T, path, token string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodGet, path, token, nil)
}

func (ts *testServer) post(t *testing.T, path, token string, payload any) (int, http.Header, envelope) {
	return ts.do(t, http.MethodPost, path, token, payload)
}

func (ts *testServer) put(t *testing.T, path, token string, payload any) (int, http.Header, envelope) {
	return ts.do(t, http.MethodPut, path, token, payload)
}

func (ts *testServer) delete(t *testing.T, path, token string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodDelete, path, token, nil)
}

// field digs a value out of a decoded envelope, e.g. field(body, "post", "slug").
func field(e envelope, keys ...string) any {
	var cur any = map[string]any(e)
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[k]
	}
	return cur
}
