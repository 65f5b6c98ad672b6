package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"webtop/internal/domain"
	"webtop/internal/domain/models"
	"webtop/internal/httputil"
)

// tokenVerifier accepts exactly one token
type tokenVerifier struct {
	token  string
	userID string
}

func (v *tokenVerifier) VerifyToken(token string) (*models.UserClaims, error) {
	if token != v.token {
		return nil, domain.ErrUnauthorized
	}
	return &models.UserClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: v.userID}}, nil
}

func (v *tokenVerifier) Close() error { return nil }

func TestAuthMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var seenUser string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser = httputil.GetUserID(r)
		w.WriteHeader(http.StatusNoContent)
	})
	handler := AuthMiddleware(&tokenVerifier{token: "good", userID: "u1"}, logger, "/health", "/media/")(next)

	tests := []struct {
		name       string
		method     string
		path       string
		authHeader string
		wantStatus int
		wantUser   string
	}{
		{"valid token", http.MethodGet, "/api/desktop", "Bearer good", http.StatusNoContent, "u1"},
		{"lowercase scheme", http.MethodGet, "/api/desktop", "bearer good", http.StatusNoContent, "u1"},
		{"bad token", http.MethodGet, "/api/desktop", "Bearer bad", http.StatusUnauthorized, ""},
		{"missing header", http.MethodGet, "/api/desktop", "", http.StatusUnauthorized, ""},
		{"basic scheme", http.MethodGet, "/api/desktop", "Basic good", http.StatusUnauthorized, ""},
		{"health is public", http.MethodGet, "/health", "", http.StatusNoContent, ""},
		{"media is public", http.MethodGet, "/media/h5apps/x/index.html", "", http.StatusNoContent, ""},
		{"media prefix only", http.MethodGet, "/mediafiles", "", http.StatusUnauthorized, ""},
		{"preflight", http.MethodOptions, "/api/desktop", "", http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenUser = ""
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if seenUser != tt.wantUser {
				t.Errorf("user = %q, want %q", seenUser, tt.wantUser)
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/desktop", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("content type = %q", ct)
	}
}
