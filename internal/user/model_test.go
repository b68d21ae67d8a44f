package user

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetPasswordHashesValue(t *testing.T) {
	u := &User{}
	u.SetPassword("secret123")

	require.NotEmpty(t, u.PasswordHash)
	assert.NotContains(t, u.PasswordHash, "secret123")
	assert.True(t, strings.HasPrefix(u.PasswordHash, "$argon2id$"))
}

func TestSetPasswordEmptyIsNoOp(t *testing.T) {
	u := &User{}
	u.SetPassword("secret123")
	before := u.PasswordHash

	u.SetPassword("")

	assert.Equal(t, before, u.PasswordHash)
}

func TestCheckPassword(t *testing.T) {
	u := &User{}
	u.SetPassword("secret123")

	assert.True(t, u.CheckPassword("secret123"))
	assert.False(t, u.CheckPassword("wrong"))
	assert.False(t, u.CheckPassword(""), "empty password never matches")
}

func TestCheckPasswordWithoutHash(t *testing.T) {
	u := &User{}

	assert.False(t, u.CheckPassword("anything"))
}

func TestHashPasswordSaltsEachCall(t *testing.T) {
	first := HashPassword("secret123")
	second := HashPassword("secret123")

	assert.NotEqual(t, first, second)
	assert.True(t, VerifyPassword(first, "secret123"))
	assert.True(t, VerifyPassword(second, "secret123"))
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	assert.False(t, VerifyPassword("not-a-hash", "secret123"))
	assert.False(t, VerifyPassword("", "secret123"))
}

func TestNewGeneratesAPIKey(t *testing.T) {
	u := New()

	require.NotEmpty(t, u.APIKey)
	assert.NotContains(t, u.APIKey, "-")
	assert.NotEqual(t, u.APIKey, New().APIKey)
}

func TestCheckAPIKey(t *testing.T) {
	u := New()

	assert.True(t, u.CheckAPIKey(u.APIKey))
	assert.False(t, u.CheckAPIKey("wrong"))
	assert.False(t, u.CheckAPIKey(""), "empty key never matches")
}

func TestCheckAPIKeyWithoutKey(t *testing.T) {
	u := &User{}

	assert.False(t, u.CheckAPIKey(""))
	assert.False(t, u.CheckAPIKey("anything"))
}

func TestRegenerateAPIKey(t *testing.T) {
	u := New()
	before := u.APIKey

	u.RegenerateAPIKey()

	assert.NotEqual(t, before, u.APIKey)
	assert.False(t, u.CheckAPIKey(before))
}
