package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memPersister struct {
	userID string
	err    error
}

func (m *memPersister) CurrentUser(context.Context) (string, bool, error) {
	return m.userID, m.userID != "", m.err
}

func (m *memPersister) SetCurrentUser(_ context.Context, userID string) error {
	if m.err != nil {
		return m.err
	}
	m.userID = userID
	return nil
}

func (m *memPersister) ClearCurrentUser(context.Context) error {
	if m.err != nil {
		return m.err
	}
	m.userID = ""
	return nil
}

func TestSession_RestoresPersistedUser(t *testing.T) {
	s, err := NewSession(context.Background(), &memPersister{userID: "u1"})
	require.NoError(t, err)

	user, ok := s.UserID()
	assert.True(t, ok)
	assert.Equal(t, "u1", user)
}

func TestSession_LoginLogout(t *testing.T) {
	p := &memPersister{}
	s, err := NewSession(context.Background(), p)
	require.NoError(t, err)

	var changes []string
	s.Subscribe(func(userID string, signedIn bool) {
		if signedIn {
			changes = append(changes, "in:"+userID)
		} else {
			changes = append(changes, "out")
		}
	})

	_, ok := s.UserID()
	assert.False(t, ok)

	require.NoError(t, s.Login(context.Background(), "  u2 "))
	user, ok := s.UserID()
	assert.True(t, ok)
	assert.Equal(t, "u2", user)
	assert.Equal(t, "u2", p.userID)

	require.NoError(t, s.Logout(context.Background()))
	_, ok = s.UserID()
	assert.False(t, ok)
	assert.Empty(t, p.userID)

	assert.Equal(t, []string{"in:u2", "out"}, changes)
}

func TestSession_LoginRejectsEmpty(t *testing.T) {
	s, err := NewSession(context.Background(), nil)
	require.NoError(t, err)
	assert.ErrorIs(t, s.Login(context.Background(), " "), ErrEmptyUserID)
}

func TestSession_PersistFailureKeepsState(t *testing.T) {
	boom := errors.New("disk full")
	s, err := NewSession(context.Background(), &memPersister{})
	require.NoError(t, err)
	s.persist = &memPersister{err: boom}

	assert.ErrorIs(t, s.Login(context.Background(), "u1"), boom)
	_, ok := s.UserID()
	assert.False(t, ok)

	_, err = NewSession(context.Background(), &memPersister{err: boom})
	assert.ErrorIs(t, err, boom)
}
