package service

import (
	"sync"

	"github.com/cloo-solutions/resumechat/internal/domain"
)

// Session holds the process-wide "current user" record derived from the most
// recent upload. The service supports one client session at a time: each
// upload replaces the record wholesale, and a chat request racing an upload
// sees whichever record was last fully written. There is no transactional
// isolation between the session and the vector index rebuild.
type Session struct {
	mu   sync.RWMutex
	user domain.UserInfo
}

func NewSession() *Session {
	return &Session{}
}

// Replace overwrites the current user record.
func (s *Session) Replace(user domain.UserInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

// User returns the current user record.
func (s *Session) User() domain.UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}
