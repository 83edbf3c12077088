package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/medcards-api/internal/api/shared"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/generation"
	"github.com/phrazzld/medcards-api/internal/redact"
	"github.com/phrazzld/medcards-api/internal/service"
	"github.com/phrazzld/medcards-api/internal/service/auth"
	"github.com/phrazzld/medcards-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking their type to clients.
func MapErrorToStatusCode(err error) int {
	var verrs validator.ValidationErrors

	switch {
	case err == nil:
		return http.StatusOK

	// Authentication
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Authorization
	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflicts with the current state
	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrInUse),
		errors.Is(err, service.ErrSessionEnded):
		return http.StatusConflict

	// Bad input
	case errors.As(err, &verrs),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrThemeCategoryMismatch),
		errors.Is(err, generation.ErrEmptyQuestion):
		return http.StatusBadRequest

	// Answer suggestions
	case errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrGenerationDisabled),
		errors.Is(err, generation.ErrTransientFailure):
		return http.StatusServiceUnavailable
	case errors.Is(err, generation.ErrGenerationFailed),
		errors.Is(err, generation.ErrInvalidResponse):
		return http.StatusBadGateway

	// Persistence failures are retryable
	case store.IsStorageError(err):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err. Validation
// messages are passed through (redacted); everything else gets a fixed text.
func GetSafeErrorMessage(err error) string {
	var verrs validator.ValidationErrors

	switch {
	case err == nil:
		return "An unexpected error occurred"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid username or password"
	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"
	case errors.Is(err, domain.ErrUnauthorized):
		return "Authentication required"

	case errors.Is(err, service.ErrNotOwned):
		return "You do not have access to this resource"
	case errors.Is(err, service.ErrForbidden):
		return "Operation not permitted"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrCategoryNotFound):
		return "Category not found"
	case errors.Is(err, store.ErrThemeNotFound):
		return "Theme not found"
	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"
	case errors.Is(err, store.ErrSessionNotFound):
		return "Study session not found"
	case errors.Is(err, store.ErrGoalNotFound):
		return "Study goal not found"
	case errors.Is(err, store.ErrQuestionListNotFound):
		return "Question list not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"
	case errors.Is(err, store.ErrUsernameExists):
		return "Username already exists"
	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"
	case errors.Is(err, store.ErrCategoryHasCards):
		return "Category still has cards; move or delete them first"
	case errors.Is(err, store.ErrInUse):
		return "Resource is still in use"
	case errors.Is(err, service.ErrSessionEnded):
		return "Study session has already ended"

	case errors.As(err, &verrs):
		return SanitizeValidationError(err)
	case errors.Is(err, service.ErrInvalidRating):
		return "Difficulty rating must be between 1 and 5"
	case errors.Is(err, service.ErrThemeCategoryMismatch):
		return "Theme does not belong to the card's category"
	case errors.Is(err, generation.ErrEmptyQuestion):
		return "Question cannot be empty"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return redact.Error(err)
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, service.ErrGenerationDisabled):
		return "Answer suggestions are not enabled"
	case errors.Is(err, generation.ErrContentBlocked):
		return "The question was blocked by the language model's safety filters"
	case errors.Is(err, generation.ErrTransientFailure):
		return "Answer suggestion is temporarily unavailable"
	case errors.Is(err, generation.ErrGenerationFailed),
		errors.Is(err, generation.ErrInvalidResponse):
		return "Failed to generate an answer"

	case store.IsStorageError(err):
		return "Service temporarily unavailable, please retry"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator errors into a message naming the
// first failing field and rule. Other errors yield a generic text.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}
	fe := verrs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), validationTagMessage(fe))
}

func validationTagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "must be at least " + fe.Param() + " long"
	case "max":
		return "must be at most " + fe.Param() + " long"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "hexcolor":
		return "must be a color like #2E86AB"
	case "alphanum":
		return "only letters and digits are allowed"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status and safe message for err and logs the
// redacted details. A non-empty fallback replaces the generic message of
// 500 responses.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}

	var opts []shared.ResponseOption
	if status == http.StatusForbidden || status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
