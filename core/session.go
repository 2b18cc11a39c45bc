package core

import (
	"sync"

	"cineadmin-tui/model"
)

// Session holds the auth token and current user. It is created on
// successful login, destroyed on logout and never persisted across
// restarts. The update loop writes it while network commands read the
// token concurrently, so every access goes through the mutex.
type Session struct {
	mu    sync.RWMutex
	token string
	user  *model.User
}

// Login installs a token and user pair.
func (s *Session) Login(token string, user model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = &user
}

// Logout clears token and user together. Calling it while already logged
// out is a no-op.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
}

// Token returns the current auth token, or "" when anonymous.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the current user, if any.
func (s *Session) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// LoggedIn reports whether a session is active.
func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

// IsAdmin is false whenever the user is absent; it is never an independent
// flag.
func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.IsAdmin
}

// AccountID returns the acting account id, or 0 when anonymous.
func (s *Session) AccountID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return 0
	}
	return s.user.ID
}
