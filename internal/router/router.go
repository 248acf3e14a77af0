package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	jwtv5 "github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/Towet-Tum/Authentications/internal/config"
	apperrors "github.com/Towet-Tum/Authentications/internal/errors"
	"github.com/Towet-Tum/Authentications/internal/handler"
	"github.com/Towet-Tum/Authentications/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Auth routes are public: register, login, refresh, verify, and
	// logout all run unauthenticated.
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/verify", authHandler.Verify)
	api.POST("/auth/logout", authHandler.Logout)

	// Admin listings require a valid access token with the admin role.
	admin := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
	}), requireRole(model.RoleAdmin))

	admin.GET("/users", userHandler.ListUsers)
	admin.GET("/users/:id", userHandler.GetUser)
	admin.GET("/books", bookHandler.ListBooks)
	admin.GET("/books/:id", bookHandler.GetBook)
}

// requireRole rejects authenticated requests whose token does not carry
// the given role claim. echo-jwt parses into v5 MapClaims.
func requireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwtv5.Token)
			if !ok {
				return c.JSON(http.StatusUnauthorized, apperrors.DetailResponse{Detail: "Token is invalid or expired."})
			}
			claims, ok := token.Claims.(jwtv5.MapClaims)
			if !ok || claims["role"] != role {
				return c.JSON(http.StatusForbidden, apperrors.DetailResponse{Detail: "You do not have permission to perform this action."})
			}
			return next(c)
		}
	}
}

// CustomValidator adapts go-playground/validator to echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
