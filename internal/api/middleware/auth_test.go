package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":  "alice@example.com",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
}

type stubDenylist struct {
	revoked bool
	err     error
}

func (d *stubDenylist) IsRevoked(context.Context, string) (bool, error) {
	return d.revoked, d.err
}

func runAuth(t *testing.T, authHeader string, denylist Denylist) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/sweets", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := Auth(testSecret, denylist)(next)(c)
	return c, err
}

func TestAuth_ValidTokenInjectsClaims(t *testing.T) {
	token := signToken(t, testSecret, validClaims())
	c, err := runAuth(t, "Bearer "+token, nil)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if got := c.Get(CtxEmail); got != "alice@example.com" {
		t.Fatalf("unexpected email in context: %v", got)
	}
	if got := c.Get(CtxRole); got != "admin" {
		t.Fatalf("unexpected role in context: %v", got)
	}
	if got := c.Get(CtxToken); got != token {
		t.Fatalf("raw token not stored in context")
	}
}

func TestAuth_Rejections(t *testing.T) {
	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc123"},
		{"malformed token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", validClaims())},
		{"expired token", "Bearer " + signToken(t, testSecret, expired)},
	}
	for _, tc := range cases {
		_, err := runAuth(t, tc.header, nil)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %v", tc.name, err)
		}
	}
}

func TestAuth_UnsignedAlgRejected(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims()).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	_, err = runAuth(t, "Bearer "+token, nil)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("alg=none token must be rejected, got %v", err)
	}
}

func TestAuth_RevokedToken(t *testing.T) {
	token := signToken(t, testSecret, validClaims())
	_, err := runAuth(t, "Bearer "+token, &stubDenylist{revoked: true})
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token must be rejected, got %v", err)
	}
}

func TestAuth_DenylistErrorFailsClosed(t *testing.T) {
	token := signToken(t, testSecret, validClaims())
	_, err := runAuth(t, "Bearer "+token, &stubDenylist{err: errors.New("redis down")})
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("denylist failure must reject, got %v", err)
	}
}
