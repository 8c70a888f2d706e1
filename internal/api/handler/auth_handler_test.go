package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sweetshop/inventory-system/internal/api/middleware"
	"github.com/sweetshop/inventory-system/internal/core/domain"
)

type stubAuthService struct {
	registered *domain.User
	registerIn struct{ email, password, role string }
	token      string
	err        error
}

func (s *stubAuthService) Register(_ context.Context, email, password, role string) (*domain.User, error) {
	s.registerIn.email, s.registerIn.password, s.registerIn.role = email, password, role
	if s.err != nil {
		return nil, s.err
	}
	return s.registered, nil
}

func (s *stubAuthService) Login(_ context.Context, email, password string) (string, *domain.User, error) {
	if s.err != nil {
		return "", nil, s.err
	}
	return s.token, s.registered, nil
}

type stubRevoker struct {
	token     string
	expiresAt time.Time
	err       error
	calls     int
}

func (r *stubRevoker) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	r.calls++
	r.token = token
	r.expiresAt = expiresAt
	return r.err
}

func newEchoContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register(t *testing.T) {
	svc := &stubAuthService{registered: &domain.User{ID: "u1", Email: "alice@example.com", Role: domain.RoleUser}}
	h := NewAuthHandler(svc, nil)

	c, rec := newEchoContext(t, http.MethodPost, "/api/auth/register", `{"email":"alice@example.com","password":"secret1"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.registerIn.email != "alice@example.com" || svc.registerIn.role != "" {
		t.Fatalf("unexpected service input: %+v", svc.registerIn)
	}

	var user domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("unexpected user in response: %+v", user)
	}
}

func TestAuthHandler_Register_Invalid(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, nil)

	cases := []struct {
		name string
		body string
	}{
		{"bad email", `{"email":"not-an-email","password":"secret1"}`},
		{"short password", `{"email":"alice@example.com","password":"123"}`},
		{"unknown role", `{"email":"alice@example.com","password":"secret1","role":"root"}`},
		{"not json", `{{{`},
	}
	for _, tc := range cases {
		c, _ := newEchoContext(t, http.MethodPost, "/api/auth/register", tc.body)
		err := h.Register(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %v", tc.name, err)
		}
	}
}

func TestAuthHandler_Login(t *testing.T) {
	svc := &stubAuthService{token: "signed-token"}
	h := NewAuthHandler(svc, nil)

	c, rec := newEchoContext(t, http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"secret1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AccessToken != "signed-token" || resp.TokenType != "bearer" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	svc := &stubAuthService{err: domain.ErrInvalidCredentials}
	h := NewAuthHandler(svc, nil)

	c, _ := newEchoContext(t, http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"wrong1"}`)
	// the central error handler maps the domain error to 401
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected domain error passthrough, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	rev := &stubRevoker{}
	h := NewAuthHandler(&stubAuthService{}, rev)

	c, rec := newEchoContext(t, http.MethodPost, "/api/auth/logout", "")
	c.Set(middleware.CtxToken, "the-token")

	if err := h.Logout(c); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rev.calls != 1 || rev.token != "the-token" {
		t.Fatalf("revoker not called correctly: %+v", rev)
	}
	if rev.expiresAt.Before(time.Now()) {
		t.Fatalf("unreadable exp must fall back to a future expiry, got %v", rev.expiresAt)
	}
}

func TestAuthHandler_Logout_NoToken(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubRevoker{})

	c, _ := newEchoContext(t, http.MethodPost, "/api/auth/logout", "")
	err := h.Logout(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
