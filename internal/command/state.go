package command

import (
	"sync"

	"github.com/kapu/cinefact-client-go/internal/domain"
)

// SessionState is the client's view of the signed-in user, refreshed from
// profile fetches and kept current by the editor's observer. It is the
// value the UI renders, including the optimistic one.
type SessionState struct {
	mu            sync.RWMutex
	userID        string
	displayName   string
	favoriteMovie string
	onboarded     bool
	loaded        bool
}

func NewSessionState() *SessionState {
	return &SessionState{}
}

// ApplyProfile replaces the snapshot with a fresh server record.
func (s *SessionState) ApplyProfile(profile *domain.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = profile.ID
	s.displayName = profile.DisplayName()
	s.favoriteMovie = profile.GetFavoriteMovie()
	s.onboarded = profile.Onboarded
	s.loaded = true
}

// SetFavoriteMovie is the editor's observer target. It runs for optimistic
// commits, server corrections, and reverts alike.
func (s *SessionState) SetFavoriteMovie(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favoriteMovie = title
}

func (s *SessionState) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *SessionState) DisplayName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.displayName
}

func (s *SessionState) FavoriteMovie() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.favoriteMovie
}

func (s *SessionState) Onboarded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.onboarded
}

// Loaded reports whether a profile fetch has succeeded this session.
func (s *SessionState) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}
