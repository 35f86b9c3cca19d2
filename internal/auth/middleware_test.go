package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newEchoContext(authHeader string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc.def.ghi", "abc.def.ghi", true},
		{"Bearer   ", "", false},
		{"Basic dXNlcg==", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		token, ok := bearerToken(newEchoContext(tc.header))
		if ok != tc.ok || token != tc.token {
			t.Fatalf("header %q: got (%q, %v), want (%q, %v)", tc.header, token, ok, tc.token, tc.ok)
		}
	}
}

func TestJWTMiddlewareSetsUserID(t *testing.T) {
	manager := NewTokenManager("test-secret", "peso-tracker", time.Minute, time.Hour)
	userID := uuid.New()

	pair, err := manager.NewTokenPair(userID, uuid.New())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	c := newEchoContext("Bearer " + pair.AccessToken)
	handler := JWTMiddleware(manager)(func(c echo.Context) error {
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("expected middleware to pass, got %v", err)
	}

	got, ok := UserIDFromContext(c)
	if !ok || got != userID {
		t.Fatalf("expected user id %s in context, got %s (ok=%v)", userID, got, ok)
	}
}

func TestJWTMiddlewareRejectsRefreshToken(t *testing.T) {
	manager := NewTokenManager("test-secret", "peso-tracker", time.Minute, time.Hour)

	pair, err := manager.NewTokenPair(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	c := newEchoContext("Bearer " + pair.RefreshToken)
	handler := JWTMiddleware(manager)(func(c echo.Context) error {
		return nil
	})

	httpErr, ok := handler(c).(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for refresh token on an access route, got %v", httpErr)
	}
}
