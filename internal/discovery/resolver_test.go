package discovery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticResolver_RoundRobin(t *testing.T) {
	resolver := NewStaticResolver(map[string][]string{
		"user-service": {"host-a:8081", "host-b:8081"},
	})
	ctx := context.Background()

	first, err := resolver.Resolve(ctx, "user-service")
	require.NoError(t, err)
	second, err := resolver.Resolve(ctx, "user-service")
	require.NoError(t, err)
	third, err := resolver.Resolve(ctx, "user-service")
	require.NoError(t, err)

	assert.Equal(t, "host-a:8081", first)
	assert.Equal(t, "host-b:8081", second)
	assert.Equal(t, "host-a:8081", third)
}

func TestStaticResolver_SingleInstance(t *testing.T) {
	resolver := NewStaticResolver(map[string][]string{
		"user-service": {"localhost:8081"},
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		addr, err := resolver.Resolve(ctx, "user-service")
		require.NoError(t, err)
		assert.Equal(t, "localhost:8081", addr)
	}
}

func TestStaticResolver_UnknownService(t *testing.T) {
	resolver := NewStaticResolver(map[string][]string{})

	_, err := resolver.Resolve(context.Background(), "user-service")

	assert.ErrorIs(t, err, ErrUnknownService)
}

func TestStaticResolver_CopiesInput(t *testing.T) {
	addrs := map[string][]string{
		"user-service": {"host-a:8081"},
	}
	resolver := NewStaticResolver(addrs)
	addrs["user-service"][0] = "mutated:9999"

	addr, err := resolver.Resolve(context.Background(), "user-service")
	require.NoError(t, err)
	assert.Equal(t, "host-a:8081", addr)
}
