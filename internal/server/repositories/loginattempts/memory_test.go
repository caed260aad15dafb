package loginattempts

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/authservice/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemory_AppendAssignsSequentialIDs(t *testing.T) {
	r := NewInMemoryRepository()
	ctx := context.Background()

	first, err := r.Append(ctx, &models.LoginAttempt{Login: "a", LoginNormalized: "A"})
	require.NoError(t, err)
	second, err := r.Append(ctx, &models.LoginAttempt{Login: "a", LoginNormalized: "A", Success: true})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	list := r.List()
	require.Len(t, list, 2)
	assert.False(t, list[0].Success)
	assert.True(t, list[1].Success)
}

func TestInMemory_AppendCancelled(t *testing.T) {
	r := NewInMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Append(ctx, &models.LoginAttempt{Login: "a"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, r.List())
}
