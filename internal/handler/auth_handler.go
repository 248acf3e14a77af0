package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "github.com/Towet-Tum/Authentications/internal/errors"
	"github.com/Towet-Tum/Authentications/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,max=150"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Role      string `json:"role" validate:"required,oneof=tenant landlord admin"`
	FirstName string `json:"first_name" validate:"omitempty,max=150"`
	LastName  string `json:"last_name" validate:"omitempty,max=150"`
	Phone     string `json:"phone" validate:"omitempty,max=32"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// VerifyRequest represents a token verification request.
type VerifyRequest struct {
	Token string `json:"token" validate:"required"`
}

// LogoutRequest represents a logout request. The refresh field is
// checked by the handler so a missing value gets its own message.
type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

// TokenPairResponse is returned by register and login.
type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	ID      string `json:"id"`
	Detail  string `json:"detail"`
}

// AccessResponse is returned by refresh.
type AccessResponse struct {
	Access string `json:"access"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} TokenPairResponse
// @Failure 400 {object} errors.DetailResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.DetailResponse{Detail: "Invalid request body."})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.DetailResponse{Detail: err.Error()})
	}

	user, pair, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		httpErr := apperrors.MapAuthError(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToDetailResponse())
	}

	return c.JSON(http.StatusCreated, TokenPairResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
		Email:   user.Email,
		Role:    user.Role,
		ID:      strconv.FormatUint(uint64(user.ID), 10),
		Detail:  fmt.Sprintf("%s, %s, you have registered successfully.", user.Username, user.Role),
	})
}

// Login godoc
// @Summary Obtain access and refresh tokens using email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} TokenPairResponse
// @Failure 400 {object} errors.DetailResponse
// @Failure 401 {object} errors.DetailResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.DetailResponse{Detail: "Invalid request body."})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.DetailResponse{Detail: err.Error()})
	}

	user, pair, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		httpErr := apperrors.MapAuthError(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToDetailResponse())
	}

	return c.JSON(http.StatusOK, TokenPairResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
		Email:   user.Email,
		Role:    user.Role,
		ID:      strconv.FormatUint(uint64(user.ID), 10),
		Detail:  fmt.Sprintf("%s, %s, you have logged in successfully.", user.Username, user.Role),
	})
}

// Refresh godoc
// @Summary Refresh an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} AccessResponse
// @Failure 400 {object} errors.DetailResponse
// @Failure 401 {object} errors.DetailResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.DetailResponse{Detail: "Invalid request body."})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.DetailResponse{Detail: err.Error()})
	}

	access, err := h.authService.Refresh(c.Request().Context(), req.Refresh)
	if err != nil {
		httpErr := apperrors.MapAuthError(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToDetailResponse())
	}

	return c.JSON(http.StatusOK, AccessResponse{Access: access})
}

// Verify godoc
// @Summary Verify a token's validity
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyRequest true "Token"
// @Success 200 {object} errors.DetailResponse
// @Failure 400 {object} errors.DetailResponse
// @Failure 401 {object} errors.DetailResponse
// @Router /auth/verify [post]
func (h *AuthHandler) Verify(c echo.Context) error {
	var req VerifyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.DetailResponse{Detail: "Invalid request body."})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.DetailResponse{Detail: err.Error()})
	}

	if err := h.authService.Verify(c.Request().Context(), req.Token); err != nil {
		httpErr := apperrors.MapAuthError(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToDetailResponse())
	}

	return c.JSON(http.StatusOK, apperrors.DetailResponse{Detail: "Token is valid."})
}

// Logout godoc
// @Summary Blacklist a refresh token to log the user out
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LogoutRequest true "Refresh token"
// @Success 200 {object} errors.DetailResponse
// @Failure 400 {object} errors.DetailResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req LogoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.DetailResponse{Detail: "Invalid request body."})
	}
	if req.Refresh == "" {
		httpErr := apperrors.MapAuthError(apperrors.ErrMissingRefreshToken)
		return c.JSON(httpErr.StatusCode, httpErr.ToDetailResponse())
	}

	// Any revocation failure collapses to the same message: the caller
	// only learns the token is no longer usable.
	if err := h.authService.Logout(c.Request().Context(), req.Refresh); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.DetailResponse{Detail: "Invalid token."})
	}

	return c.JSON(http.StatusOK, apperrors.DetailResponse{Detail: "Successfully logged out."})
}
