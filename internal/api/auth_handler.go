package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/api/shared"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/platform/logger"
	"github.com/phrazzld/medcards-api/internal/service"
	"github.com/phrazzld/medcards-api/internal/service/auth"
)

// AuthHandler handles registration, login, token refresh and the profile.
type AuthHandler struct {
	users      service.UserService
	jwtService auth.JWTService
	now        func() time.Time
	logger     *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users service.UserService, jwtService auth.JWTService, logger *slog.Logger) *AuthHandler {
	if users == nil || jwtService == nil {
		panic("users and jwtService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		users:      users,
		jwtService: jwtService,
		now:        time.Now,
		logger:     logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	h.respondWithTokens(w, r, http.StatusCreated, user.ID, user)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	h.respondWithTokens(w, r, http.StatusOK, user.ID, user)
}

// RefreshToken handles POST /auth/refresh. The refresh token is exchanged
// for a new access and refresh token pair.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to refresh token")
		return
	}

	h.respondWithTokens(w, r, http.StatusOK, claims.UserID, nil)
}

// Me handles GET /me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load profile")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

func (h *AuthHandler) respondWithTokens(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userID uuid.UUID,
	user *domain.User,
) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	accessToken, err := h.jwtService.GenerateToken(r.Context(), userID)
	if err != nil {
		log.Error("failed to generate access token", slog.String("user_id", userID.String()))
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return
	}
	refreshToken, err := h.jwtService.GenerateRefreshToken(r.Context(), userID)
	if err != nil {
		log.Error("failed to generate refresh token", slog.String("user_id", userID.String()))
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return
	}

	expiresAt := h.now().Add(h.jwtService.AccessTokenLifetime()).UTC().Format(time.RFC3339)
	shared.RespondWithJSON(w, r, status, AuthResponse{
		UserID:       userID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         user,
	})
}
