package infra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisOptions(t *testing.T) {
	opts, err := RedisOptions("localhost:6379", "", 0)
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)

	opts, err = RedisOptions("redis://:pw@cache:6380/2", "", 0)
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)

	opts, err = RedisOptions("redis://cache:6380/2", "override", 5)
	require.NoError(t, err)
	assert.Equal(t, "override", opts.Password)
	assert.Equal(t, 5, opts.DB)

	_, err = RedisOptions("", "", 0)
	assert.Error(t, err)
}

func TestHasScheme(t *testing.T) {
	for addr, want := range map[string]bool{
		"redis://cache:6379":     true,
		"rediss://cache:6380":    true,
		"unix:///tmp/redis.sock": true,
		"cache:6379":             false,
		"redis:/cache":           false,
		"":                       false,
	} {
		assert.Equal(t, want, hasScheme(addr), addr)
	}
}
