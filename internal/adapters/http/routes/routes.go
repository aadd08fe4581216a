package routes

import (
	"userhub/internal/adapters/http/handlers"
	"userhub/internal/adapters/http/middleware"
	"userhub/internal/adapters/persistence/repositories"
	"userhub/internal/config"
	"userhub/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	detailRepo := repositories.NewUserDetailRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, detailRepo, cfg)
	userService := services.NewUserService(userRepo)
	detailService := services.NewUserDetailService(detailRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService, cfg)
	detailHandler := handlers.NewUserDetailHandler(detailService, cfg)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public)
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, userRepo, cfg)

	// Profile routes (authenticated users)
	detailRoutes := apiV1.Group("/user-details")
	detailRoutes.Use(middleware.AuthMiddleware(cfg))
	detailRoutes.Use(middleware.RequireUser(userRepo))
	setupUserDetailRoutes(detailRoutes, detailHandler)

	// User management routes (authenticated; most admin only)
	userRoutes := apiV1.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	userRoutes.Use(middleware.RequireUser(userRepo))
	setupUserRoutes(userRoutes, userHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, userRepo repositories.UserRepository, cfg *config.Config) {
	// Stricter limiter on credential endpoints
	authLimiter := middleware.AuthRateLimiter()

	router.Post("/register", authLimiter, handler.Register)
	router.Post("/login", authLimiter, handler.Login)
	router.Post("/refresh", authLimiter, handler.Refresh)
	router.Post("/logout", handler.Logout)

	// Current user (requires valid access token and a live account)
	router.Get("/me",
		middleware.AuthMiddleware(cfg),
		middleware.RequireUser(userRepo),
		handler.Me,
	)
}

// setupUserDetailRoutes configures profile routes
func setupUserDetailRoutes(router fiber.Router, handler *handlers.UserDetailHandler) {
	// /me must be registered before /:id
	router.Get("/me", handler.GetUserDetail)

	// List all profiles (admin only)
	router.Get("/", middleware.AdminOnly(), handler.ListUserDetails)

	router.Get("/:id", handler.GetUserDetail)
	router.Put("/:id", handler.UpdateUserDetail)

	// Delete profile (admin only)
	router.Delete("/:id", middleware.AdminOnly(), handler.DeleteUserDetail)
}

// setupUserRoutes configures user management routes
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	// Change own password (any authenticated user)
	router.Put("/me/password", handler.ChangePassword)

	// Admin only
	router.Get("/", middleware.AdminOnly(), handler.ListUsers)
	router.Get("/:id", middleware.AdminOnly(), handler.GetUser)
	router.Put("/:id", middleware.AdminOnly(), handler.UpdateUser)
	router.Delete("/:id", middleware.AdminOnly(), handler.DeleteUser)
}
