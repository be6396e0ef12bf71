// Package auth tracks the signed-in user.
package auth

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
)

var ErrEmptyUserID = errors.New("empty user id")

// Persister stores the signed-in user between runs.
type Persister interface {
	CurrentUser(ctx context.Context) (string, bool, error)
	SetCurrentUser(ctx context.Context, userID string) error
	ClearCurrentUser(ctx context.Context) error
}

// Session is the identity provider. Reads are served from memory.
type Session struct {
	persist Persister

	mu        sync.RWMutex
	userID    string
	listeners []func(userID string, signedIn bool)
}

// NewSession restores the persisted user, if any.
func NewSession(ctx context.Context, p Persister) (*Session, error) {
	s := &Session{persist: p}
	if p == nil {
		return s, nil
	}
	userID, ok, err := p.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		s.userID = userID
	}
	return s, nil
}

// UserID returns the signed-in user.
func (s *Session) UserID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID, s.userID != ""
}

// Login signs userID in.
func (s *Session) Login(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrEmptyUserID
	}
	if s.persist != nil {
		if err := s.persist.SetCurrentUser(ctx, userID); err != nil {
			return err
		}
	}
	s.set(userID)
	return nil
}

// Logout signs the current user out.
func (s *Session) Logout(ctx context.Context) error {
	if s.persist != nil {
		if err := s.persist.ClearCurrentUser(ctx); err != nil {
			return err
		}
	}
	s.set("")
	return nil
}

// Subscribe registers fn to be called after every login or logout.
func (s *Session) Subscribe(fn func(userID string, signedIn bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Session) set(userID string) {
	s.mu.Lock()
	s.userID = userID
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(userID, userID != "")
	}
}
