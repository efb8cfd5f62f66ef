package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name       string
		creds      Credentials
		wantCookie string
		wantAuth   string
	}{
		{"Empty", Credentials{}, "", ""},
		{"DefaultCookieName", Credentials{SessionCookie: "abc"}, "session=abc", ""},
		{"CustomCookieName", Credentials{CookieName: "sid", SessionCookie: "abc"}, "sid=abc", ""},
		{"Bearer", Credentials{AccessToken: "tok"}, "", "Bearer tok"},
		{"Both", Credentials{SessionCookie: "abc", AccessToken: "tok"}, "session=abc", "Bearer tok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/like/1", nil)
			tt.creds.Apply(req)

			if got := req.Header.Get("Cookie"); got != tt.wantCookie {
				t.Errorf("expected Cookie %q, got %q", tt.wantCookie, got)
			}
			if got := req.Header.Get("Authorization"); got != tt.wantAuth {
				t.Errorf("expected Authorization %q, got %q", tt.wantAuth, got)
			}
		})
	}
}

func TestEmpty(t *testing.T) {
	if !(Credentials{CookieName: "sid"}).Empty() {
		t.Error("expected credentials with only a cookie name to be empty")
	}
	if (Credentials{AccessToken: "tok"}).Empty() {
		t.Error("expected credentials with a token to be non-empty")
	}
}

func TestTransportDoesNotMutateOriginalRequest(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer server.Close()

	client := &http.Client{Transport: Credentials{AccessToken: "tok"}.Transport(nil)}
	req, _ := http.NewRequest(http.MethodPost, server.URL, nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = resp.Body.Close()

	if gotAuth != "Bearer tok" {
		t.Errorf("expected server to see bearer token, got %q", gotAuth)
	}
	if req.Header.Get("Authorization") != "" {
		t.Error("expected original request to be left untouched")
	}
}
