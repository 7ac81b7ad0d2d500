package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcrypt(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)

	hash, err := h.Hash("password")
	require.NoError(t, err)
	assert.NotEqual(t, "password", hash)

	assert.True(t, h.Verify("password", hash))
	assert.False(t, h.Verify("Password", hash))
	assert.False(t, h.Verify("password", "not-a-hash"))
}

func TestBcrypt_DefaultCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcrypt(0).cost)
}

func TestBcrypt_TooLong(t *testing.T) {
	// bcrypt refuses inputs over 72 bytes
	_, err := NewBcrypt(bcrypt.MinCost).Hash(strings.Repeat("a", 73))
	assert.Error(t, err)
}
