package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2secret")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2secret", hash)

	assert.True(t, CheckPassword(hash, "hunter2secret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
