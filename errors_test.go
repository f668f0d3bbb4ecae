package auth_test

import (
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	auth "github.com/goliatone/go-principal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	t.Run("4xx rich error renders a fail envelope", func(t *testing.T) {
		c := &MockContext{}

		var payload map[string]any
		c.On("JSON", 401, mock.Anything).Run(func(args mock.Arguments) {
			payload, _ = args.Get(1).(map[string]any)
		}).Return(nil)

		require.NoError(t, auth.WriteError(c, auth.ErrNotAuthenticated))

		assert.Equal(t, "fail", payload["status"])
		assert.Equal(t, auth.MsgNotLoggedIn, payload["message"])
	})

	t.Run("5xx rich error renders an error envelope", func(t *testing.T) {
		c := &MockContext{}

		var payload map[string]any
		c.On("JSON", 500, mock.Anything).Run(func(args mock.Arguments) {
			payload, _ = args.Get(1).(map[string]any)
		}).Return(nil)

		boom := goerrors.New("disk exploded", goerrors.CategoryInternal).
			WithCode(goerrors.CodeInternal)

		require.NoError(t, auth.WriteError(c, boom))

		assert.Equal(t, "error", payload["status"])
	})

	t.Run("plain error is hidden behind a generic 500", func(t *testing.T) {
		c := &MockContext{}

		var payload map[string]any
		c.On("JSON", 500, mock.Anything).Run(func(args mock.Arguments) {
			payload, _ = args.Get(1).(map[string]any)
		}).Return(nil)

		require.NoError(t, auth.WriteError(c, errors.New("pq: relation does not exist")))

		assert.Equal(t, "error", payload["status"])
		assert.Equal(t, auth.MsgInternalError, payload["message"])
		assert.NotContains(t, payload["message"], "pq:")
	})
}

func TestErrorTaxonomy(t *testing.T) {
	cases := []struct {
		name     string
		err      *goerrors.Error
		category goerrors.Category
		code     int
	}{
		{"not authenticated", auth.ErrNotAuthenticated, goerrors.CategoryAuth, 401},
		{"bad credentials", auth.ErrMismatchedHashAndPassword, goerrors.CategoryAuth, 401},
		{"expired token", auth.ErrTokenExpired, goerrors.CategoryAuth, 401},
		{"malformed token", auth.ErrTokenMalformed, goerrors.CategoryAuth, 401},
		{"stale credentials", auth.ErrStaleCredentials, goerrors.CategoryAuth, 401},
		{"forbidden", auth.ErrForbidden, goerrors.CategoryAuthz, 403},
		{"confirmation invalid", auth.ErrConfirmationTokenInvalid, goerrors.CategoryValidation, 400},
		{"email taken", auth.ErrEmailTaken, goerrors.CategoryValidation, 400},
		{"missing credentials", auth.ErrMissingCredentials, goerrors.CategoryValidation, 400},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.category, tc.err.Category)
			assert.Equal(t, tc.code, tc.err.Code)
			assert.NotEmpty(t, tc.err.TextCode)
		})
	}
}

func TestTokenErrorHelpers(t *testing.T) {
	assert.True(t, auth.IsTokenExpiredError(auth.ErrTokenExpired))
	assert.False(t, auth.IsTokenExpiredError(auth.ErrTokenMalformed))
	assert.False(t, auth.IsTokenExpiredError(nil))

	assert.True(t, auth.IsMalformedError(auth.ErrTokenMalformed))
	assert.False(t, auth.IsMalformedError(auth.ErrTokenExpired))
	assert.False(t, auth.IsMalformedError(nil))

	// the jwt library message shapes are recognized too
	assert.True(t, auth.IsTokenExpiredError(errors.New("token is expired")))
	assert.True(t, auth.IsMalformedError(errors.New("token is malformed")))
}
