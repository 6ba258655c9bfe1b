package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	type payload struct {
		Name string `json:"name"`
	}

	assert.NoError(t, c.Set(ctx, "k", payload{Name: "minimax"}, time.Minute))

	var got payload
	assert.NoError(t, c.Get(ctx, "k", &got))
	assert.Equal(t, "minimax", got.Name)
}

func TestMemoryCache_MissAndExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	var got string
	assert.ErrorIs(t, c.Get(ctx, "absent", &got), ErrMiss)

	assert.NoError(t, c.Set(ctx, "short", "v", -time.Second))
	assert.ErrorIs(t, c.Get(ctx, "short", &got), ErrMiss)
}

func TestMemoryCache_Delete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	assert.NoError(t, c.Delete(ctx, "k"))
	// idempotent
	assert.NoError(t, c.Delete(ctx, "k"))

	var got string
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrMiss)
}
