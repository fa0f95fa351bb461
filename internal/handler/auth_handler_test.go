package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kiarashjv/task-management-system/internal/security"
	"github.com/kiarashjv/task-management-system/internal/service"
)

// stubAuthService accepts a single credential pair
type stubAuthService struct {
	username string
	password string
	token    string
}

func (s *stubAuthService) Authenticate(ctx context.Context, username, password string) (string, error) {
	if username == s.username && password == s.password {
		return s.token, nil
	}
	return "", service.ErrInvalidCredentials
}

func (s *stubAuthService) VerifyToken(ctx context.Context, token string) (*security.Principal, error) {
	return nil, security.ErrInvalidToken
}

func postLogin(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewAuthHandler(&stubAuthService{username: "alice", password: "secret", token: "signed-token"})
	router.POST("/api/v1/auth/login", h.Login)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		w := postLogin(t, `{"username":"alice","password":"secret"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "signed-token") {
			t.Errorf("body %s does not carry the token", w.Body.String())
		}
	})

	t.Run("bad credentials are 401", func(t *testing.T) {
		w := postLogin(t, `{"username":"alice","password":"wrong"}`)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("missing fields are 400", func(t *testing.T) {
		w := postLogin(t, `{"username":"alice"}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("malformed json is 400", func(t *testing.T) {
		w := postLogin(t, `{`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}
