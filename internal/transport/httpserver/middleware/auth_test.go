package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"familycart-go/pkg/logger"
)

type fakeParser struct {
	subject string
	err     error
}

func (p fakeParser) Parse(string) (string, error) {
	return p.subject, p.err
}

type fakeLoader struct {
	users map[string]User
}

func (l fakeLoader) LoadByUUID(_ context.Context, uuid string) (User, error) {
	user, ok := l.users[uuid]
	if !ok {
		return User{}, errors.New("user not found")
	}
	return user, nil
}

func newAuthTestServer(parser TokenParser, loader UserLoader) (*httptest.Server, *User) {
	var captured User
	auth := NewJWTAuth(parser, loader, logger.NewNop())
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		captured = user
		w.WriteHeader(http.StatusOK)
	}))
	return httptest.NewServer(handler), &captured
}

func doAuthRequest(t *testing.T, url, authHeader string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	resp.Body.Close()
	return resp
}

func TestAuthMiddlewarePutsUserOnContext(t *testing.T) {
	loader := fakeLoader{users: map[string]User{
		"uuid-1": {ID: 42, UUID: "uuid-1", Username: "ada123", EmailVerified: true},
	}}
	server, captured := newAuthTestServer(fakeParser{subject: "uuid-1"}, loader)
	defer server.Close()

	resp := doAuthRequest(t, server.URL, "Bearer good-token")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if captured.ID != 42 || captured.Username != "ada123" {
		t.Fatalf("context user = %+v", captured)
	}
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	server, _ := newAuthTestServer(fakeParser{subject: "uuid-1"}, fakeLoader{})
	defer server.Close()

	resp := doAuthRequest(t, server.URL, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestAuthMiddlewareRejectsBadToken(t *testing.T) {
	server, _ := newAuthTestServer(fakeParser{err: errors.New("bad signature")}, fakeLoader{})
	defer server.Close()

	resp := doAuthRequest(t, server.URL, "Bearer tampered")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestAuthMiddlewareRejectsUnknownSubject(t *testing.T) {
	server, _ := newAuthTestServer(fakeParser{subject: "ghost"}, fakeLoader{users: map[string]User{}})
	defer server.Close()

	resp := doAuthRequest(t, server.URL, "Bearer good-token")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer  ", "", false},
		{"Basic abc", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		token, ok := bearerToken(tc.header)
		if token != tc.token || ok != tc.ok {
			t.Fatalf("bearerToken(%q) = (%q, %v), want (%q, %v)", tc.header, token, ok, tc.token, tc.ok)
		}
	}
}
