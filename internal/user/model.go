package user

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is an identity usable for authentication. The password hash is never
// serialized at any privacy level; the API key is compared by exact value.
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Username     string    `bun:"username"`
	Email        string    `bun:"email"`
	PasswordHash string    `bun:"password_hash"`
	APIKey       string    `bun:"api_key"`
	IsAdmin      bool      `bun:"is_admin"`
	CreatedAt    time.Time `bun:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at"`
}

// New instantiates a transient user with a freshly generated API key.
func New() *User {
	return &User{APIKey: GenerateAPIKey()}
}

// GenerateAPIKey returns a random, unguessable API key.
func GenerateAPIKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// SetPassword hashes the given value onto the user. Setting an empty
// password is a no-op: the stored hash is left unchanged.
func (u *User) SetPassword(value string) {
	if value == "" {
		return
	}
	u.PasswordHash = HashPassword(value)
}

// CheckPassword reports whether the given password matches the stored hash.
// An empty password never matches.
func (u *User) CheckPassword(value string) bool {
	if value == "" {
		return false
	}
	return VerifyPassword(u.PasswordHash, value)
}

// CheckAPIKey reports whether the given key matches the stored API key.
// An empty key never matches.
func (u *User) CheckAPIKey(value string) bool {
	if value == "" || u.APIKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(u.APIKey), []byte(value)) == 1
}

// RegenerateAPIKey replaces the stored API key with a fresh one.
func (u *User) RegenerateAPIKey() {
	u.APIKey = GenerateAPIKey()
}
