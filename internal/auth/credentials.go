package auth

import "net/http"

const DefaultCookieName = "session"

// Credentials identify the voter to the video site. Either a session cookie,
// a bearer token, or both may be set.
type Credentials struct {
	CookieName    string
	SessionCookie string
	AccessToken   string
}

// Apply attaches the credentials to req.
func (c Credentials) Apply(req *http.Request) {
	if c.SessionCookie != "" {
		name := c.CookieName
		if name == "" {
			name = DefaultCookieName
		}
		req.AddCookie(&http.Cookie{Name: name, Value: c.SessionCookie})
	}
	if c.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	}
}

func (c Credentials) Empty() bool {
	return c.SessionCookie == "" && c.AccessToken == ""
}

// Transport returns a RoundTripper that applies c to every request before
// handing it to next. A nil next uses http.DefaultTransport.
func (c Credentials) Transport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		req = req.Clone(req.Context())
		c.Apply(req)
		return next.RoundTrip(req)
	})
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }
