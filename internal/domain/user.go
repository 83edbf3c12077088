package domain

import (
	"net/mail"
	"time"

	"github.com/google/uuid"
)

// User validation errors
var (
	ErrEmptyUserID         = validationError("user ID cannot be empty")
	ErrEmptyUsername       = validationError("username cannot be empty")
	ErrUsernameTooLong     = validationError("username must be at most 80 characters long")
	ErrInvalidEmail        = validationError("invalid email format")
	ErrEmptyEmail          = validationError("email cannot be empty")
	ErrPasswordTooShort    = validationError("password must be at least 8 characters long")
	ErrPasswordTooLong     = validationError("password must be at most 72 characters long")
	ErrEmptyPassword       = validationError("password cannot be empty")
	ErrEmptyHashedPassword = validationError("hashed password cannot be empty")
)

const (
	// MinPasswordLength is the shortest accepted plaintext password.
	MinPasswordLength = 8
	// MaxPasswordLength is bcrypt's input limit.
	MaxPasswordLength = 72
	maxUsernameLength = 80
)

// User represents a registered user of the study application.
type User struct {
	ID             uuid.UUID  `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	Password       string     `json:"-"` // Plaintext password, only set during registration/updates
	HashedPassword string     `json:"-"`
	IsAdmin        bool       `json:"is_admin"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
}

// NewUser creates a new User with the given username, email and plaintext password.
//
// The caller is responsible for hashing the password before storing the user.
func NewUser(username, email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Username:  username,
		Email:     email,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Username == "" {
		return ErrEmptyUsername
	}
	if len(u.Username) > maxUsernameLength {
		return ErrUsernameTooLong
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}
	if addr, err := mail.ParseAddress(u.Email); err != nil || addr.Address != u.Email {
		return ErrInvalidEmail
	}

	// A plaintext password is only present during registration or password
	// changes; persisted users carry the hash instead.
	if u.Password != "" {
		if len(u.Password) < MinPasswordLength {
			return ErrPasswordTooShort
		}
		if len(u.Password) > MaxPasswordLength {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// RecordLogin stamps the last login time.
func (u *User) RecordLogin(at time.Time) {
	t := at.UTC()
	u.LastLoginAt = &t
	u.UpdatedAt = t
}
