package service

import (
	"context"

	"github.com/Towet-Tum/Authentications/internal/model"
	"github.com/Towet-Tum/Authentications/internal/repository"
)

// BookService exposes the book catalog for the admin listing.
type BookService interface {
	GetBook(ctx context.Context, id uint) (*model.Book, error)
	ListBooks(ctx context.Context) ([]model.Book, error)
}

type bookService struct {
	repo repository.BookRepository
}

// NewBookService creates a book service.
func NewBookService(repo repository.BookRepository) BookService {
	return &bookService{repo: repo}
}

func (s *bookService) GetBook(ctx context.Context, id uint) (*model.Book, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *bookService) ListBooks(ctx context.Context) ([]model.Book, error) {
	return s.repo.List(ctx)
}
