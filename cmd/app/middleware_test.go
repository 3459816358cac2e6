package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/inkwell/internal/userservice"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRecoverPanic(t *testing.T) {
	app := newBareApplication()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something went wrong")
	})

	res := httptest.NewRecorder()
	app.recoverPanic(handler).ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Equal(t, "close", res.Header().Get("Connection"))
}

func TestLogRequest(t *testing.T) {
	app := newBareApplication()

	var seen string
	handler := app.logRequest(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = getRequestID(r)
	}))

	t.Run("generates an id", func(t *testing.T) {
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/", nil))

		id := res.Header().Get("X-Request-ID")
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.Equal(t, id, seen)
	})

	t.Run("keeps a valid incoming id", func(t *testing.T) {
		incoming := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", incoming)

		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)

		assert.Equal(t, incoming, res.Header().Get("X-Request-ID"))
	})

	t.Run("replaces a malformed incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "not-a-uuid\nforged")

		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)

		assert.NotEqual(t, "not-a-uuid\nforged", res.Header().Get("X-Request-ID"))
	})
}

func TestRequireAdmin(t *testing.T) {
	app := newBareApplication()
	handler := app.requireAdmin(okHandler)

	testCases := []struct {
		name       string
		user       *userservice.User
		wantStatus int
	}{
		{name: "anonymous", user: &userservice.AnonymousUser, wantStatus: http.StatusUnauthorized},
		{name: "regular user", user: &userservice.User{ID: 2, Username: "reader"}, wantStatus: http.StatusForbidden},
		{name: "admin", user: &userservice.User{ID: 1, Username: "admin", IsAdmin: true}, wantStatus: http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := app.createUserContext(httptest.NewRequest(http.MethodGet, "/", nil), tc.user)

			res := httptest.NewRecorder()
			handler.ServeHTTP(res, req)

			assert.Equal(t, tc.wantStatus, res.Code)
		})
	}
}

func TestRateLimit(t *testing.T) {
	app := newBareApplication()
	app.limiter = newIPRateLimiter(0.001, 2)
	t.Cleanup(app.limiter.Close)

	handler := app.rateLimit(okHandler)

	send := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = remoteAddr

		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)

		return res.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1:5678"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:9999"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1234"))

	app.limiter = nil
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, send("10.0.0.1:1234"))
	}
}

func TestEnableCORS(t *testing.T) {
	app := newBareApplication()
	app.config.TrustedOrigins = []string{"http://localhost:3000"}

	handler := app.enableCORS(http.HandlerFunc(okHandler))

	testCases := []struct {
		name       string
		origin     string
		wantOrigin string
	}{
		{name: "trusted origin", origin: "http://localhost:3000", wantOrigin: "http://localhost:3000"},
		{name: "untrusted origin", origin: "http://evil.example.com", wantOrigin: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/v1/admin/posts", nil)
			req.Header.Set("Origin", tc.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPut)

			res := httptest.NewRecorder()
			handler.ServeHTTP(res, req)

			assert.Equal(t, tc.wantOrigin, res.Header().Get("Access-Control-Allow-Origin"))
		})
	}

	t.Run("no trusted origins", func(t *testing.T) {
		app := newBareApplication()
		handler := app.enableCORS(http.HandlerFunc(okHandler))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://localhost:3000")

		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)

		require.Equal(t, http.StatusOK, res.Code)
		assert.Empty(t, res.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestAuthenticate(t *testing.T) {
	app, _ := newTestApplication(t, nil)
	_, userToken := seedUsers(t, app)

	var got *userservice.User
	handler := app.authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = app.getUserContext(r)
	}))

	testCases := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   string
		anonymous  bool
	}{
		{name: "no header", header: "", wantStatus: http.StatusOK, anonymous: true},
		{name: "valid token", header: "Bearer " + userToken, wantStatus: http.StatusOK, wantUser: testUserUsername},
		{name: "malformed header", header: "Token " + userToken, wantStatus: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer ABCDEFGHIJKLMNOPQRSTUVWXYZ", wantStatus: http.StatusUnauthorized},
		{name: "short token", header: "Bearer abc", wantStatus: http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got = nil

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			res := httptest.NewRecorder()
			handler.ServeHTTP(res, req)

			assert.Equal(t, tc.wantStatus, res.Code)

			switch {
			case tc.anonymous:
				assert.True(t, got.IsAnonymous())
			case tc.wantUser != "":
				require.NotNil(t, got)
				assert.Equal(t, tc.wantUser, got.Username)
			default:
				assert.Nil(t, got)
				assert.Equal(t, "Bearer", res.Header().Get("WWW-Authenticate"))
			}
		})
	}
}
