package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	apperrors "github.com/Towet-Tum/Authentications/internal/errors"
	"github.com/Towet-Tum/Authentications/internal/service"
)

// UserHandler serves the admin user listing.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Failure 401 {object} errors.DetailResponse
// @Failure 403 {object} errors.DetailResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, apperrors.DetailResponse{Detail: "Internal server error."})
	}
	return c.JSON(http.StatusOK, users)
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.DetailResponse
// @Failure 404 {object} errors.DetailResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.DetailResponse{Detail: "Invalid user id."})
	}
	user, err := h.svc.GetUser(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, apperrors.DetailResponse{Detail: "User not found."})
		}
		return c.JSON(http.StatusInternalServerError, apperrors.DetailResponse{Detail: "Internal server error."})
	}
	return c.JSON(http.StatusOK, user)
}
