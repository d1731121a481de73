package usecase_test

import (
	"sync"

	rememberDomain "github.com/allisson/rememberme/internal/remember/domain"
	sessionDomain "github.com/allisson/rememberme/internal/session/domain"
)

// browserTransport plays the role of a cookie jar for a single browser.
type browserTransport struct {
	mu             sync.Mutex
	sessionID      string
	token          string
	secret         string
	sessionCleared bool
	pairCleared    bool
	pairWrites     int
}

func (b *browserTransport) SessionID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sessionID
}

func (b *browserTransport) SetSession(session *sessionDomain.Session) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessionID = session.ID
}

func (b *browserTransport) ClearSession() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessionID = ""
	b.sessionCleared = true
}

func (b *browserTransport) RememberedPair() (string, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.token, b.secret
}

func (b *browserTransport) SetRememberedPair(pair *rememberDomain.Pair) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = pair.Token
	b.secret = pair.Secret
	b.pairWrites++
}

func (b *browserTransport) ClearRememberedPair() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = ""
	b.secret = ""
	b.pairCleared = true
}

// clone copies the jar, as when a cookie is exfiltrated to another browser.
func (b *browserTransport) clone() *browserTransport {
	b.mu.Lock()
	defer b.mu.Unlock()
	return &browserTransport{sessionID: b.sessionID, token: b.token, secret: b.secret}
}
