package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cretpass")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cretpass", hash)
	assert.True(t, CheckPassword(hash, "s3cretpass"))
	assert.False(t, CheckPassword(hash, "S3cretpass"))
	assert.False(t, CheckPassword("not-a-hash", "s3cretpass"))

	again, err := HashPassword("s3cretpass")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "hashes are salted")
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = HashPassword(strings.Repeat("a", 72))
	assert.NoError(t, err)
}

func TestCheckDummyPassword(t *testing.T) {
	hash, err := HashPassword("s3cretpass")
	require.NoError(t, err)

	assert.False(t, CheckDummyPassword("s3cretpass"))
	assert.False(t, CheckDummyPassword("course-api-unknown-user"))

	cost, err := bcrypt.Cost(dummyHash)
	require.NoError(t, err)
	expected, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, expected, cost)
}
