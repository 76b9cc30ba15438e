package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, RequestIDFromContext(ctx))
	_, ok := UserIDFromContext(ctx)
	assert.False(t, ok)

	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithUserID(ctx, 7)

	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	id, ok := UserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)
}

func TestNewRequestIDIsUnique(t *testing.T) {
	assert.NotEqual(t, NewRequestID(), NewRequestID())
}

func TestWithContextIgnoresForeignStringKeys(t *testing.T) {
	// Values stored under plain string keys must not leak into logs; only
	// the typed keys written by ContextWithRequestID/ContextWithUserID count.
	type plainKey string
	ctx := context.WithValue(context.Background(), plainKey("request_id"), "spoofed")

	assert.Empty(t, RequestIDFromContext(ctx))
	assert.NotNil(t, WithContext(ctx))
}
