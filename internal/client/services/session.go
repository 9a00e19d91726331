package services

import (
	"sync"

	"github.com/dmitrijs2005/taskboard/internal/client/models"
)

// Session is the currently authenticated identity on the client.
type Session struct {
	mu   sync.RWMutex
	user *models.User
}

func NewSession() *Session {
	return &Session{}
}

// User returns a copy of the signed-in user, nil when signed out.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	cp := *s.user
	return &cp
}

// UserID returns "" when signed out.
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

func (s *Session) LoggedIn() bool {
	return s.UserID() != ""
}

func (s *Session) set(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		s.user = nil
		return
	}
	cp := *u
	s.user = &cp
}

func (s *Session) clear() {
	s.set(nil)
}
