package identity

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/issuehub/issuehub/pkg/model"
)

func TestSetAndGet(t *testing.T) {
	id := &Identity{User: &model.User{ID: 7, Email: "a@example.com"}, RemoteIP: "10.0.0.1"}

	ctx := Set(context.Background(), id)
	got, ok := Get(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(7), got.ID())
	assert.Equal(t, "10.0.0.1", got.RemoteIP)
}

func TestGetMissing(t *testing.T) {
	_, ok := Get(context.Background())
	assert.False(t, ok)
}

func TestRemoteIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.168.1.5:51234"
	assert.Equal(t, "192.168.1.5", RemoteIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", RemoteIP(r))
}
