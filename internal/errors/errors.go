package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserExists is returned when the username or email is already taken.
	ErrUserExists = errors.New("a user with that username or email already exists")
	// ErrInvalidRole is returned when the role is not one of the permitted values.
	ErrInvalidRole = errors.New("role must be one of: tenant, landlord, admin")
	// ErrInvalidToken is returned for malformed, expired, or tampered tokens.
	ErrInvalidToken = errors.New("token is invalid or expired")
	// ErrTokenRevoked is returned when a token's JTI is on the blacklist.
	ErrTokenRevoked = errors.New("token is blacklisted")
	// ErrTokenNotFound is returned when a token's JTI has no outstanding record.
	ErrTokenNotFound = errors.New("token not found")
	// ErrMissingRefreshToken is returned when the refresh field is absent.
	ErrMissingRefreshToken = errors.New("refresh token required")
)

// DetailResponse is the JSON error body: every failure surfaces as a
// 4xx with a single human-readable detail message.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// HTTPError carries a status code and a detail message.
type HTTPError struct {
	StatusCode int
	Detail     string
}

func (e *HTTPError) Error() string {
	return e.Detail
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, detail string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Detail: detail}
}

// ToDetailResponse converts an HTTPError to a DetailResponse body.
func (e *HTTPError) ToDetailResponse() DetailResponse {
	return DetailResponse{Detail: e.Detail}
}

// MapAuthError maps domain errors to HTTP errors with detail messages.
func MapAuthError(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, "No active account found with the given credentials.")
	case errors.Is(err, ErrUserExists):
		return NewHTTPError(http.StatusBadRequest, "A user with that username or email already exists.")
	case errors.Is(err, ErrInvalidRole):
		return NewHTTPError(http.StatusBadRequest, "Invalid role.")
	case errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrTokenRevoked),
		errors.Is(err, ErrTokenNotFound):
		return NewHTTPError(http.StatusUnauthorized, "Token is invalid or expired.")
	case errors.Is(err, ErrMissingRefreshToken):
		return NewHTTPError(http.StatusBadRequest, "Refresh token required.")
	default:
		return NewHTTPError(http.StatusInternalServerError, "Internal server error.")
	}
}
