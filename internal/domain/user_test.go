package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("demo", "demo@medcards.com", "password123")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "demo", user.Username)
	assert.Equal(t, "password123", user.Password)
	assert.False(t, user.IsAdmin)
	assert.Nil(t, user.LastLoginAt)
}

func TestUserValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		username string
		email    string
		password string
		hashed   string
		wantErr  error
	}{
		{"valid plaintext", "demo", "demo@example.com", "password123", "", nil},
		{"valid hashed", "demo", "demo@example.com", "", "$2a$10$hash", nil},
		{"empty username", "", "demo@example.com", "password123", "", ErrEmptyUsername},
		{"long username", strings.Repeat("u", 81), "demo@example.com", "password123", "", ErrUsernameTooLong},
		{"empty email", "demo", "", "password123", "", ErrEmptyEmail},
		{"invalid email", "demo", "not-an-email", "password123", "", ErrInvalidEmail},
		{"display name email", "demo", "Demo <demo@example.com>", "password123", "", ErrInvalidEmail},
		{"short password", "demo", "demo@example.com", "short", "", ErrPasswordTooShort},
		{"long password", "demo", "demo@example.com", strings.Repeat("p", 73), "", ErrPasswordTooLong},
		{"no password", "demo", "demo@example.com", "", "", ErrEmptyPassword},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u := User{
				ID:             uuid.New(),
				Username:       tc.username,
				Email:          tc.email,
				Password:       tc.password,
				HashedPassword: tc.hashed,
			}
			err := u.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestUserRecordLogin(t *testing.T) {
	t.Parallel()

	u := User{}
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	u.RecordLogin(at)

	require.NotNil(t, u.LastLoginAt)
	assert.Equal(t, at.UTC(), *u.LastLoginAt)
	assert.Equal(t, time.UTC, u.LastLoginAt.Location())
}
