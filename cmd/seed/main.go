package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Towet-Tum/Authentications/internal/config"
	"github.com/Towet-Tum/Authentications/internal/db"
	"github.com/Towet-Tum/Authentications/internal/model"
	"github.com/Towet-Tum/Authentications/internal/repository"
)

// seedUser is a demo account created by the seed script.
type seedUser struct {
	Username  string
	Email     string
	Password  string
	Role      string
	FirstName string
	LastName  string
	Phone     string
}

var demoUsers = []seedUser{
	{Username: "admin", Email: "admin@example.com", Password: "adminpassword", Role: model.RoleAdmin, FirstName: "Site", LastName: "Admin"},
	{Username: "alice", Email: "alice@example.com", Password: "alicepassword", Role: model.RoleTenant, FirstName: "Alice", LastName: "Doe", Phone: "1234567890"},
	{Username: "bob", Email: "bob@example.com", Password: "bobpassword", Role: model.RoleLandlord, FirstName: "Bob", LastName: "Roe", Phone: "0987654321"},
}

var demoBooks = []model.Book{
	{Author: "Jane Jacobs", Name: "The Death and Life of Great American Cities"},
	{Author: "Matthew Desmond", Name: "Evicted"},
	{Author: "Stewart Brand", Name: "How Buildings Learn"},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Book{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	bookRepo := repository.NewBookRepository(gormDB)

	created, skipped, err := seedUsers(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	log.Printf("Users: %d created, %d already present", created, skipped)

	created, skipped, err = seedBooks(ctx, gormDB, bookRepo)
	if err != nil {
		log.Fatalf("Failed to seed books: %v", err)
	}
	log.Printf("Books: %d created, %d already present", created, skipped)

	log.Println("Seed completed successfully!")
}

// seedUsers creates the demo users that do not exist yet, keyed by email.
func seedUsers(ctx context.Context, repo repository.UserRepository) (created, skipped int, err error) {
	for _, su := range demoUsers {
		_, err := repo.FindByEmail(ctx, su.Email)
		if err == nil {
			skipped++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, skipped, fmt.Errorf("check user %s: %w", su.Email, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
		if err != nil {
			return created, skipped, fmt.Errorf("hash password for %s: %w", su.Email, err)
		}

		user := &model.User{
			Username:     su.Username,
			Email:        su.Email,
			FirstName:    su.FirstName,
			LastName:     su.LastName,
			Phone:        su.Phone,
			PasswordHash: string(hash),
			Role:         su.Role,
		}
		if err := repo.Create(ctx, user); err != nil {
			return created, skipped, fmt.Errorf("create user %s: %w", su.Email, err)
		}
		created++
	}
	return created, skipped, nil
}

// seedBooks creates the demo books that do not exist yet, keyed by name.
func seedBooks(ctx context.Context, gormDB *gorm.DB, repo repository.BookRepository) (created, skipped int, err error) {
	for _, book := range demoBooks {
		var existing model.Book
		findErr := gormDB.WithContext(ctx).Where("name = ?", book.Name).First(&existing).Error
		if findErr == nil {
			skipped++
			continue
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return created, skipped, fmt.Errorf("check book %s: %w", book.Name, findErr)
		}

		b := book
		if err := repo.Create(ctx, &b); err != nil {
			return created, skipped, fmt.Errorf("create book %s: %w", book.Name, err)
		}
		created++
	}
	return created, skipped, nil
}
