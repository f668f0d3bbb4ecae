package auth_test

import (
	"testing"
	"time"

	"github.com/goliatone/go-router"

	auth "github.com/goliatone/go-principal"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sessionsFixture() (*auth.RouteSessions, *auth.TokenServiceImpl) {
	cfg := &auth.SimpleConfig{SigningKey: "session-test-key", CookieDays: 7}
	tokens := auth.NewTokenService([]byte(cfg.GetSigningKey()), cfg.GetTokenExpiration(), "", nil, nil)
	return auth.NewRouteSessions(tokens, cfg), tokens
}

func TestRouteSessions_Issue(t *testing.T) {
	sessions, tokens := sessionsFixture()

	principal := &auth.PrincipalRecord{
		ID:     uuid.New(),
		Email:  "alice@example.com",
		Role:   auth.RoleUser,
		Active: true,
	}

	t.Run("writes the envelope and sets the cookie", func(t *testing.T) {
		c := &MockContext{}

		var cookie *router.Cookie
		c.On("Cookie", mock.Anything).Run(func(args mock.Arguments) {
			cookie = args.Get(0).(*router.Cookie)
		})
		c.On("GetString", "X-Forwarded-Proto", "").Return("https")

		var envelope auth.SuccessEnvelope
		c.On("JSON", 200, mock.Anything).Run(func(args mock.Arguments) {
			envelope = args.Get(1).(auth.SuccessEnvelope)
		}).Return(nil)

		require.NoError(t, sessions.Issue(c, principal, 200))

		assert.Equal(t, "success", envelope.Status)
		assert.Equal(t, principal, envelope.Data["user"])

		claims, err := tokens.Validate(envelope.Token)
		require.NoError(t, err)
		assert.Equal(t, principal.ID.String(), claims.UserID())
		assert.Equal(t, auth.RoleUser, claims.Role())

		require.NotNil(t, cookie)
		assert.Equal(t, "jwt", cookie.Name)
		assert.Equal(t, envelope.Token, cookie.Value)
		assert.True(t, cookie.HTTPOnly)
		assert.True(t, cookie.Secure)
		assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), cookie.Expires, time.Minute)
	})

	t.Run("cookie is not secure for plain http", func(t *testing.T) {
		c := &MockContext{}

		var cookie *router.Cookie
		c.On("Cookie", mock.Anything).Run(func(args mock.Arguments) {
			cookie = args.Get(0).(*router.Cookie)
		})
		c.On("GetString", "X-Forwarded-Proto", "").Return("")
		c.On("JSON", 200, mock.Anything).Return(nil)

		require.NoError(t, sessions.Issue(c, principal, 200))

		require.NotNil(t, cookie)
		assert.False(t, cookie.Secure)
	})
}

func TestRouteSessions_Logout(t *testing.T) {
	sessions, _ := sessionsFixture()

	c := &MockContext{}

	var cookie *router.Cookie
	c.On("Cookie", mock.Anything).Run(func(args mock.Arguments) {
		cookie = args.Get(0).(*router.Cookie)
	})
	c.On("GetString", "X-Forwarded-Proto", "").Return("")

	var payload map[string]any
	c.On("JSON", 200, mock.Anything).Run(func(args mock.Arguments) {
		payload, _ = args.Get(1).(map[string]any)
	}).Return(nil)

	require.NoError(t, sessions.Logout(c))

	assert.Equal(t, "success", payload["status"])

	require.NotNil(t, cookie)
	assert.Equal(t, "jwt", cookie.Name)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.Expires.Before(time.Now()))
}

func TestRouteSessions_GetCookieDuration(t *testing.T) {
	sessions, _ := sessionsFixture()
	assert.Equal(t, 7*24*time.Hour, sessions.GetCookieDuration())
}
