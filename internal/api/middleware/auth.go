// Package middleware provides the HTTP middleware of the API: request
// tracing, JWT authentication and the admin gate.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/api/shared"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/platform/logger"
	"github.com/phrazzld/medcards-api/internal/redact"
	"github.com/phrazzld/medcards-api/internal/service/auth"
	"github.com/phrazzld/medcards-api/internal/store"
)

// UserLookup loads the authenticated user for the admin gate.
type UserLookup interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
	users      UserLookup
	logger     *slog.Logger
}

// NewAuthMiddleware creates an AuthMiddleware. users is only needed by
// RequireAdmin and may be nil otherwise.
func NewAuthMiddleware(jwtService auth.JWTService, users UserLookup, logger *slog.Logger) *AuthMiddleware {
	if jwtService == nil {
		panic("jwtService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
		logger:     logger.With(slog.String("component", "auth_middleware")),
	}
}

// Authenticate validates the bearer access token and stores the user ID in
// the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), strings.TrimSpace(token))
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, auth.ErrInvalidToken),
				errors.Is(err, auth.ErrWrongTokenType),
				errors.Is(err, auth.ErrTokenNotYetValid):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				logger.FromContextOrDefault(r.Context(), m.logger).Error("failed to validate token",
					redact.Attr(err))
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			}
			return
		}

		ctx := shared.WithUserID(r.Context(), claims.UserID)
		log := logger.FromContextOrDefault(ctx, m.logger).With(slog.String("user_id", claims.UserID.String()))
		ctx = logger.WithLogger(ctx, log)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects requests from users without the admin flag. It must
// run after Authenticate.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := shared.UserIDFromContext(r.Context())
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}
		if m.users == nil {
			panic("RequireAdmin used without a user lookup")
		}

		user, err := m.users.GetUser(r.Context(), userID)
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
			return
		case err != nil:
			status := http.StatusInternalServerError
			if store.IsStorageError(err) {
				status = http.StatusServiceUnavailable
			}
			shared.RespondWithErrorAndLog(w, r, status, "Failed to verify permissions", err)
			return
		case !user.IsAdmin:
			shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, "Admin access required", nil,
				shared.WithElevatedLogLevel())
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetUserID extracts the user ID from the request context.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	return shared.UserIDFromContext(r.Context())
}
