package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/timecard/timecard-backend/pkg/actor"
	"github.com/timecard/timecard-backend/pkg/config"
	"github.com/timecard/timecard-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager(&config.JWTConfig{
		Secret:       "test-secret",
		AccessExpiry: time.Hour,
		Issuer:       "timecard-test",
	})
}

func TestManager_IssueAndValidate(t *testing.T) {
	m := newTestManager()
	in := &actor.Actor{UserID: "user-1", Role: actor.RoleEmployee, EmployeeID: "emp-1"}

	token, expiresAt, err := m.Issue(in)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "timecard-test", claims.Issuer)
	assert.Equal(t, in, claims.Actor())
}

func TestManager_ValidateExpired(t *testing.T) {
	m := newTestManager()
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := m.Issue(&actor.Actor{UserID: "user-1", Role: actor.RoleAdmin})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Validate(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTokenExpired))
}

func TestManager_ValidateRejects(t *testing.T) {
	m := newTestManager()

	t.Run("wrong secret", func(t *testing.T) {
		other := NewManager(&config.JWTConfig{Secret: "other", AccessExpiry: time.Hour})
		token, _, err := other.Issue(&actor.Actor{UserID: "u", Role: actor.RoleAdmin})
		require.NoError(t, err)

		_, err = m.Validate(token)
		assert.True(t, errors.Is(err, errors.ErrTokenInvalid))
	})

	t.Run("unknown role", func(t *testing.T) {
		token, _, err := m.Issue(&actor.Actor{UserID: "u", Role: "MANAGER"})
		require.NoError(t, err)

		_, err = m.Validate(token)
		assert.True(t, errors.Is(err, errors.ErrTokenInvalid))
	})

	t.Run("none algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u", Role: "ADMIN"})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.Validate(signed)
		assert.True(t, errors.Is(err, errors.ErrTokenInvalid))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Validate("not-a-token")
		assert.True(t, errors.Is(err, errors.ErrTokenInvalid))
	})
}

func TestClaims_ActorFallsBackToSubject(t *testing.T) {
	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "sub-1"}, Role: "EMPLOYEE"}
	assert.Equal(t, "sub-1", c.Actor().UserID)
}
