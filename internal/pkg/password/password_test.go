package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("pw123456")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$2a$"))
	require.NotEqual(t, "pw123456", hash)

	ok, err := Verify("pw123456", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Verify("wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashIsSalted(t *testing.T) {
	a, err := Hash("pw123456")
	require.NoError(t, err)
	b, err := Hash("pw123456")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyMalformedHash(t *testing.T) {
	// A corrupt stored hash must surface as an error, not a quiet mismatch
	ok, err := Verify("pw123456", "not-a-bcrypt-hash")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("12345678"))
	assert.True(t, ValidatePassword("a much longer passphrase"))
	assert.False(t, ValidatePassword("1234567"))
	assert.False(t, ValidatePassword(""))
}
