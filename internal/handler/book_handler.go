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

// BookHandler serves the admin book listing.
type BookHandler struct {
	svc service.BookService
}

// NewBookHandler creates a handler layer.
func NewBookHandler(svc service.BookService) *BookHandler {
	return &BookHandler{svc: svc}
}

// ListBooks godoc
// @Summary List books
// @Tags books
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Book
// @Failure 401 {object} errors.DetailResponse
// @Failure 403 {object} errors.DetailResponse
// @Router /books [get]
func (h *BookHandler) ListBooks(c echo.Context) error {
	books, err := h.svc.ListBooks(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, apperrors.DetailResponse{Detail: "Internal server error."})
	}
	return c.JSON(http.StatusOK, books)
}

// GetBook godoc
// @Summary Get book by id
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} model.Book
// @Failure 400 {object} errors.DetailResponse
// @Failure 404 {object} errors.DetailResponse
// @Router /books/{id} [get]
func (h *BookHandler) GetBook(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.DetailResponse{Detail: "Invalid book id."})
	}
	book, err := h.svc.GetBook(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, apperrors.DetailResponse{Detail: "Book not found."})
		}
		return c.JSON(http.StatusInternalServerError, apperrors.DetailResponse{Detail: "Internal server error."})
	}
	return c.JSON(http.StatusOK, book)
}
