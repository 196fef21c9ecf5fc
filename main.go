package main

import (
	"log"
	"time"

	"tasker-be/internal/cache"
	"tasker-be/internal/config"
	"tasker-be/internal/controllers"
	"tasker-be/internal/database"
	"tasker-be/internal/jwt"
	"tasker-be/internal/middleware"
	"tasker-be/internal/repository"
	"tasker-be/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close() // Close connection when program exits

	// Run database migrations
	if err := database.RunMigrations(db, "migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Redis cache (optional - continue if Redis is unavailable)
	var cacheClient cache.Cache
	cacheClient, err = cache.NewRedisCache(cfg.RedisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis (%v). Continuing without cache.", err)
		cacheClient = nil
	} else {
		log.Println("Connected to Redis cache")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Initialize JWT service
	jwtService := jwt.NewJWTService(
		cfg.JWTSecret,
		time.Duration(cfg.JWTTTL)*time.Hour,
	)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService)
	userService := service.NewUserService(userRepo, cacheClient)
	taskService := service.NewTaskService(taskRepo)

	// Initialize controllers
	authController := controllers.NewAuthController(authService)
	userController := controllers.NewUserController(userService, cfg.MaxAvatarBytes)
	taskController := controllers.NewTaskController(taskService)

	// Create a Gin router
	router := gin.Default()

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Public routes
	router.POST("/users", authController.Signup)
	router.POST("/users/login", authController.Login)
	router.GET("/users/:id/avatar", userController.GetAvatar)

	// Protected routes - require a valid, unrevoked token
	protected := router.Group("")
	protected.Use(middleware.AuthMiddleware(jwtService, userRepo))
	{
		protected.POST("/users/logout", authController.Logout)
		protected.POST("/users/logoutAll", authController.LogoutAll)
		protected.GET("/users/me", userController.Me)
		protected.PATCH("/users/me", userController.UpdateMe)
		protected.DELETE("/users/me", userController.DeleteMe)
		protected.POST("/users/me/avatar", userController.UploadAvatar)
		protected.DELETE("/users/me/avatar", userController.DeleteAvatar)

		protected.POST("/tasks", taskController.Create)
		protected.GET("/tasks", taskController.List)
		protected.GET("/tasks/:id", taskController.Get)
		protected.PATCH("/tasks/:id", taskController.Update)
		protected.DELETE("/tasks/:id", taskController.Delete)
	}

	// Start the server
	log.Printf("Server starting on http://localhost:%s", cfg.Port)
	router.Run(":" + cfg.Port)
}
