// Package http exposes identity resolution to gin: the cookie transport, the
// middleware that attaches a principal to each request and the login/logout handlers.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	rememberDomain "github.com/allisson/rememberme/internal/remember/domain"
	sessionDomain "github.com/allisson/rememberme/internal/session/domain"
)

// CookieConfig names the auth cookies and their shared security attributes.
type CookieConfig struct {
	SessionName string
	TokenName   string
	SecretName  string
	Domain      string
	Secure      bool
}

// CookieTransport reads auth cookies from the request and writes them to the
// response. Values written during the request shadow the incoming ones, so later
// handlers observe the rotated state.
type CookieTransport struct {
	c       *gin.Context
	config  CookieConfig
	written map[string]string
	now     func() time.Time
}

// NewCookieTransport binds a transport to a gin request.
func NewCookieTransport(c *gin.Context, config CookieConfig) *CookieTransport {
	return &CookieTransport{
		c:       c,
		config:  config,
		written: make(map[string]string),
		now:     time.Now,
	}
}

// Get returns the current value of a cookie, or an empty string.
func (t *CookieTransport) Get(name string) string {
	if value, ok := t.written[name]; ok {
		return value
	}
	value, err := t.c.Cookie(name)
	if err != nil {
		return ""
	}
	return value
}

// Set writes an HttpOnly, SameSite=Strict cookie valid for maxAge seconds.
func (t *CookieTransport) Set(name, value string, maxAge int) {
	t.written[name] = value
	t.c.SetSameSite(http.SameSiteStrictMode)
	t.c.SetCookie(name, value, maxAge, "/", t.config.Domain, t.config.Secure, true)
}

// Clear expires a cookie in the browser.
func (t *CookieTransport) Clear(name string) {
	t.Set(name, "", -1)
}

func (t *CookieTransport) maxAge(expiresAt time.Time) int {
	seconds := int(expiresAt.Sub(t.now()).Seconds())
	if seconds < 1 {
		return 1
	}
	return seconds
}

func (t *CookieTransport) SessionID() string {
	return t.Get(t.config.SessionName)
}

func (t *CookieTransport) SetSession(session *sessionDomain.Session) {
	t.Set(t.config.SessionName, session.ID, t.maxAge(session.ExpiresAt))
}

func (t *CookieTransport) ClearSession() {
	t.Clear(t.config.SessionName)
}

func (t *CookieTransport) RememberedPair() (string, string) {
	return t.Get(t.config.TokenName), t.Get(t.config.SecretName)
}

// SetRememberedPair writes token and secret with one max-age so the browser drops them together.
func (t *CookieTransport) SetRememberedPair(pair *rememberDomain.Pair) {
	maxAge := t.maxAge(pair.ExpiresAt)
	t.Set(t.config.TokenName, pair.Token, maxAge)
	t.Set(t.config.SecretName, pair.Secret, maxAge)
}

func (t *CookieTransport) ClearRememberedPair() {
	t.Clear(t.config.TokenName)
	t.Clear(t.config.SecretName)
}
