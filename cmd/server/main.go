package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Towet-Tum/Authentications/internal/audit"
	"github.com/Towet-Tum/Authentications/internal/auth"
	"github.com/Towet-Tum/Authentications/internal/cache"
	"github.com/Towet-Tum/Authentications/internal/config"
	"github.com/Towet-Tum/Authentications/internal/db"
	"github.com/Towet-Tum/Authentications/internal/handler"
	"github.com/Towet-Tum/Authentications/internal/model"
	"github.com/Towet-Tum/Authentications/internal/repository"
	"github.com/Towet-Tum/Authentications/internal/router"
	"github.com/Towet-Tum/Authentications/internal/service"
)

// @title Authentications API
// @version 1.0
// @description Rental-platform authentication backend: registration, login, JWT refresh/verify, and logout via refresh-token blacklist.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.BlacklistedToken{},
			&model.RefreshTokenRecord{},
			&audit.Entry{},
			&model.Book{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Book{},
		&model.RefreshTokenRecord{},
		&model.BlacklistedToken{},
		&audit.Entry{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	bookRepo := repository.NewBookRepository(gormDB)
	tokenRepo := repository.NewTokenRepository(gormDB)

	// Expired rows only slow down blacklist lookups; drop them at boot.
	if purged, err := tokenRepo.PurgeExpired(context.Background(), time.Now()); err != nil {
		log.Printf("Warning: purge expired tokens: %v", err)
	} else if purged > 0 {
		log.Printf("Purged %d expired token rows", purged)
	}

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	tokenStore := auth.NewTokenStore(tokenRepo, cacheClient)
	auditor := audit.NewRecorder(gormDB)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, auditor)
	userService := service.NewUserService(userRepo)
	bookService := service.NewBookService(bookRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	bookHandler := handler.NewBookHandler(bookService)

	// Register routes
	router.Register(e, cfg, authHandler, userHandler, bookHandler)

	swaggerHost := cfg.SwaggerHost
	if swaggerHost == "" {
		swaggerHost = "localhost:" + cfg.ServerPort
	}
	log.Printf("Swagger documentation available at: http://%s/swagger/index.html", swaggerHost)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
