package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextResolver(t *testing.T) {
	t.Run("Should resolve the stored identity", func(t *testing.T) {
		ctx := WithIdentity(context.Background(), "alice")
		id, err := ContextResolver{}.CurrentCaller(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, "alice", id)
	})
	t.Run("Should fail without an identity", func(t *testing.T) {
		_, err := ContextResolver{}.CurrentCaller(context.Background())
		assert.ErrorIs(t, err, ErrNoIdentity)
	})
	t.Run("Should treat an empty identity as missing", func(t *testing.T) {
		_, ok := FromContext(WithIdentity(context.Background(), ""))
		assert.False(t, ok)
	})
}
