package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBlacklist(t *testing.T) {
	token := "some.jwt.token"
	assert.False(t, IsTokenBlacklisted(token))

	BlacklistToken(token, time.Now().Add(time.Hour))
	assert.True(t, IsTokenBlacklisted(token))
}

func TestBlacklistExpiredTokenIgnored(t *testing.T) {
	token := "already.expired.token"
	BlacklistToken(token, time.Now().Add(-time.Minute))
	assert.False(t, IsTokenBlacklisted(token))
}

func TestOAuthStateSingleUse(t *testing.T) {
	SaveState("state-abc", time.Minute)
	assert.True(t, ConsumeState("state-abc"))
	// Second consumption must fail.
	assert.False(t, ConsumeState("state-abc"))
	assert.False(t, ConsumeState("never-saved"))
}

func TestCacheRoundtrip(t *testing.T) {
	CacheSetBytes("cache:test:a", []byte(`{"ok":true}`), time.Minute)
	got, ok := CacheGetBytes("cache:test:a")
	require.True(t, ok)
	assert.JSONEq(t, `{"ok":true}`, string(got))

	_, ok = CacheGetBytes("cache:test:missing")
	assert.False(t, ok)
}

func TestInvalidateByPrefix(t *testing.T) {
	CacheSetBytes("cache:questions:list:page=1", []byte("a"), time.Minute)
	CacheSetBytes("cache:questions:list:page=2", []byte("b"), time.Minute)
	CacheSetBytes("cache:question:detail:7", []byte("c"), time.Minute)

	InvalidateByPrefix("cache:questions:list:")

	_, ok := CacheGetBytes("cache:questions:list:page=1")
	assert.False(t, ok)
	_, ok = CacheGetBytes("cache:questions:list:page=2")
	assert.False(t, ok)
	// Other prefixes survive.
	_, ok = CacheGetBytes("cache:question:detail:7")
	assert.True(t, ok)
}
