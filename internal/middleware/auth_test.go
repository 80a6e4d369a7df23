package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Varun5711/accounts/internal/auth"
	"github.com/Varun5711/accounts/internal/events"
	"github.com/Varun5711/accounts/internal/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiddleware(t *testing.T) (*AuthMiddleware, *auth.JWTManager) {
	t.Helper()
	m, err := auth.NewJWTManager("test-secret", time.Hour)
	require.NoError(t, err)
	return NewAuthMiddleware(m, logger.NewWithWriter("test", io.Discard, zerolog.Disabled)), m
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(GetUserID(r.Context())))
}

func TestRequireAuth(t *testing.T) {
	mw, jwtManager := newMiddleware(t)
	token, _, err := jwtManager.GenerateToken("user-1")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"bearer token", "Bearer " + token, http.StatusOK, "user-1"},
		{"lowercase scheme", "bearer " + token, http.StatusOK, "user-1"},
		{"raw token", token, http.StatusOK, "user-1"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"garbage", "Bearer garbage", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/users/user-1", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			mw.RequireAuth(http.HandlerFunc(echoUser)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantBody, rec.Body.String())
				return
			}

			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestClientInfo(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:5555"
	req.Header.Set("User-Agent", "curl/8.0")
	rec := httptest.NewRecorder()

	var got events.Client
	ClientInfo(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = events.ClientFrom(r.Context())
	})).ServeHTTP(rec, req)

	assert.Equal(t, "192.0.2.10", got.IP)
	assert.Equal(t, "curl/8.0", got.UserAgent)
}
