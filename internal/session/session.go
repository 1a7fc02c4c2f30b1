// Package session maps opaque tokens to the logins that opened them. Sessions live only in memory.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrNoSession      = errors.New("no session")
	ErrInvalidSession = errors.New("invalid session")
)

type Manager struct {
	mu     sync.RWMutex
	logins map[string]string
}

func NewManager() *Manager {
	return &Manager{logins: make(map[string]string)}
}

// Open starts a new session for login. A login may hold several sessions at once.
func (m *Manager) Open(login string) string {
	token := uuid.NewString()

	m.mu.Lock()
	m.logins[token] = login
	m.mu.Unlock()

	log.Debug().Str("login", login).Msg("session opened")
	return token
}

func (m *Manager) Resolve(token string) (string, error) {
	if token == "" {
		return "", ErrNoSession
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	login, ok := m.logins[token]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidSession, token)
	}
	return login, nil
}

// Revoke ends every session of login.
func (m *Manager) Revoke(login string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, l := range m.logins {
		if l == login {
			delete(m.logins, token)
		}
	}
}

func (m *Manager) Clear() {
	m.mu.Lock()
	clear(m.logins)
	m.mu.Unlock()
}
