// Package auth holds bearer credentials shared by all transport calls.
package auth

import (
	"sync"
)

// Credentials is an explicit holder for the bearer token attached to
// backend requests. It replaces implicit process-global token state: the
// transport receives one at construction and invalidates it on a 401.
// All sessions sharing a Credentials share its invalidation.
type Credentials struct {
	mu    sync.RWMutex
	token string
}

// NewCredentials creates a holder, optionally pre-loaded with a token.
func NewCredentials(token string) *Credentials {
	return &Credentials{token: token}
}

// Token returns the current bearer token, or "" when none is held.
func (c *Credentials) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken replaces the held token.
func (c *Credentials) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Invalidate clears the held token. Called by the transport when the
// backend rejects it with a 401.
func (c *Credentials) Invalidate() {
	c.SetToken("")
}
