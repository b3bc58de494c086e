package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/plantopia/internal/identity"
	"github.com/redmonkez12/plantopia/internal/profile"
)

func newTestManager(t *testing.T, now time.Time) *SessionManager {
	t.Helper()
	m := NewSessionManager(tokenServices(t)["jwt"], 0)
	m.now = func() time.Time { return now }
	return m
}

func TestIssueAndValidate(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m := newTestManager(t, now)

	id := &identity.Claims{UID: "u1", Email: "u1@example.com", Name: "Ivy", Picture: "https://example.com/ivy.png"}
	sess, err := m.Issue(id, nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultSessionDuration, sess.MaxAge)
	assert.Equal(t, now.Add(DefaultSessionDuration), sess.Claims.ExpiresAt)
	assert.Equal(t, "u1", sess.Hint.UID)
	assert.Equal(t, "Ivy", sess.Hint.DisplayName)
	assert.False(t, sess.Hint.CompletedOnboarding)

	claims, err := m.Validate(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UID)

	m.now = func() time.Time { return now.Add(DefaultSessionDuration) }
	_, err = m.Validate(sess.Token)
	assert.ErrorIs(t, err, ErrExpiredSession)
}

func TestIssueUsesStoredProfileForHint(t *testing.T) {
	m := newTestManager(t, time.Now())

	sess, err := m.Issue(&identity.Claims{UID: "u1", Name: "From Token"}, &profile.Profile{
		UID:                 "u1",
		DisplayName:         "Stored Name",
		CompletedOnboarding: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Stored Name", sess.Hint.DisplayName)
	assert.True(t, sess.Hint.CompletedOnboarding)
}

func TestIssueRejectsEmptyIdentity(t *testing.T) {
	m := newTestManager(t, time.Now())

	_, err := m.Issue(&identity.Claims{}, nil)
	assert.Error(t, err)

	_, err = m.Validate("")
	assert.ErrorIs(t, err, ErrInvalidSession)
}
