package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/mocks"
	"github.com/phrazzld/medcards-api/internal/service"
	"github.com/phrazzld/medcards-api/internal/service/auth"
	"github.com/phrazzld/medcards-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthHandler(users *mocks.MockUserStore, verifier *mocks.MockPasswordVerifier, jwt *mocks.MockJWTService) *AuthHandler {
	svc := service.NewUserService(users, &mocks.MockTransactor{}, verifier, verifier, testClock, nil)
	h := NewAuthHandler(svc, jwt, nil)
	h.now = testClock
	return h
}

func tokens() *mocks.MockJWTService {
	return &mocks.MockJWTService{Token: "access", RefreshToken: "refresh", Lifetime: 15 * time.Minute}
}

func TestAuthHandler_Register(t *testing.T) {
	t.Parallel()

	var created *domain.User
	users := &mocks.MockUserStore{CreateFn: func(_ context.Context, u *domain.User) error {
		created = u
		return nil
	}}
	h := newAuthHandler(users, &mocks.MockPasswordVerifier{}, tokens())

	rec := serve(t, h.Register, request{
		method: http.MethodPost, pattern: "/auth/register", path: "/auth/register",
		body: RegisterRequest{Username: "nurse_joy", Email: "joy@example.com", Password: "correct horse"},
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[AuthResponse](t, rec)
	assert.Equal(t, created.ID, resp.UserID)
	assert.Equal(t, "access", resp.AccessToken)
	assert.Equal(t, "refresh", resp.RefreshToken)
	assert.Equal(t, "2024-04-02T10:15:00Z", resp.ExpiresAt)
	assert.Equal(t, "hashed:correct horse", created.HashedPassword)
	assert.NotContains(t, rec.Body.String(), "correct horse")
}

func TestAuthHandler_RegisterErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    any
		create  error
		status  int
		message string
	}{
		{
			name: "malformed json", body: `{"username":`,
			status: http.StatusBadRequest, message: "Invalid request format",
		},
		{
			name: "short password", body: RegisterRequest{Username: "joy", Email: "joy@example.com", Password: "short"},
			status: http.StatusBadRequest, message: "Invalid password: must be at least 8 long",
		},
		{
			name: "email taken", body: RegisterRequest{Username: "joy", Email: "joy@example.com", Password: "long enough"},
			create: store.ErrEmailExists, status: http.StatusConflict, message: "Email already exists",
		},
		{
			name: "username taken", body: RegisterRequest{Username: "joy", Email: "joy@example.com", Password: "long enough"},
			create: store.ErrUsernameExists, status: http.StatusConflict, message: "Username already exists",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			users := &mocks.MockUserStore{CreateFn: func(context.Context, *domain.User) error { return tc.create }}
			h := newAuthHandler(users, &mocks.MockPasswordVerifier{}, tokens())

			rec := serve(t, h.Register, request{
				method: http.MethodPost, pattern: "/auth/register", path: "/auth/register", body: tc.body,
			})
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.message, errorBody(t, rec).Error)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	t.Parallel()

	user := &domain.User{ID: uuid.New(), Username: "demo", Email: "demo@example.com", HashedPassword: "hashed:pw"}
	var stamped time.Time
	users := &mocks.MockUserStore{
		GetByUsernameFn: func(_ context.Context, name string) (*domain.User, error) {
			if name == "demo" {
				return user, nil
			}
			return nil, store.ErrUserNotFound
		},
		UpdateLastLoginFn: func(_ context.Context, _ uuid.UUID, at time.Time) error {
			stamped = at
			return nil
		},
	}
	verifier := &mocks.MockPasswordVerifier{CompareFn: func(hash, pw string) error {
		if hash == "hashed:"+pw {
			return nil
		}
		return mocks.ErrPasswordMismatch
	}}
	h := newAuthHandler(users, verifier, tokens())

	rec := serve(t, h.Login, request{
		method: http.MethodPost, pattern: "/auth/login", path: "/auth/login",
		body: LoginRequest{Username: "demo", Password: "pw"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[AuthResponse](t, rec)
	assert.Equal(t, user.ID, resp.UserID)
	require.NotNil(t, resp.User)
	assert.Equal(t, "demo", resp.User.Username)
	assert.Equal(t, testNow, stamped)

	for _, body := range []LoginRequest{
		{Username: "demo", Password: "wrong"},
		{Username: "ghost", Password: "pw"},
	} {
		rec = serve(t, h.Login, request{
			method: http.MethodPost, pattern: "/auth/login", path: "/auth/login", body: body,
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid username or password", errorBody(t, rec).Error)
	}
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	jwt := tokens()
	jwt.ValidateRefreshTokenFn = func(_ context.Context, token string) (*auth.Claims, error) {
		switch token {
		case "good":
			return &auth.Claims{UserID: userID, TokenType: "refresh"}, nil
		case "access-token":
			return nil, auth.ErrWrongTokenType
		}
		return nil, auth.ErrExpiredRefreshToken
	}
	h := newAuthHandler(&mocks.MockUserStore{}, &mocks.MockPasswordVerifier{}, jwt)

	rec := serve(t, h.RefreshToken, request{
		method: http.MethodPost, pattern: "/auth/refresh", path: "/auth/refresh",
		body: RefreshTokenRequest{RefreshToken: "good"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[AuthResponse](t, rec)
	assert.Equal(t, userID, resp.UserID)
	assert.Equal(t, "refresh", resp.RefreshToken)
	assert.Nil(t, resp.User)

	for _, token := range []string{"access-token", "stale"} {
		rec = serve(t, h.RefreshToken, request{
			method: http.MethodPost, pattern: "/auth/refresh", path: "/auth/refresh",
			body: RefreshTokenRequest{RefreshToken: token},
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid refresh token", errorBody(t, rec).Error)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	t.Parallel()

	user := &domain.User{ID: uuid.New(), Username: "demo", Email: "demo@example.com", HashedPassword: "secret-hash"}
	users := &mocks.MockUserStore{GetByIDFn: func(_ context.Context, id uuid.UUID) (*domain.User, error) {
		if id == user.ID {
			return user, nil
		}
		return nil, store.ErrUserNotFound
	}}
	h := newAuthHandler(users, &mocks.MockPasswordVerifier{}, tokens())

	rec := serve(t, h.Me, request{method: http.MethodGet, pattern: "/me", path: "/me", userID: user.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "demo", decode[domain.User](t, rec).Username)
	assert.NotContains(t, rec.Body.String(), "secret-hash")

	rec = serve(t, h.Me, request{method: http.MethodGet, pattern: "/me", path: "/me"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(t, h.Me, request{method: http.MethodGet, pattern: "/me", path: "/me", userID: uuid.New()})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
