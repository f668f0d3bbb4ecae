package auth_test

import (
	"context"
	"testing"

	auth "github.com/goliatone/go-principal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrincipalContext(t *testing.T) {
	t.Run("round trips a principal", func(t *testing.T) {
		record := &auth.PrincipalRecord{Email: "alice@example.com"}

		ctx := auth.WithContext(context.Background(), record)

		got, ok := auth.FromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, record, got)
	})

	t.Run("empty context has no principal", func(t *testing.T) {
		got, ok := auth.FromContext(context.Background())
		assert.False(t, ok)
		assert.Nil(t, got)
	})
}
