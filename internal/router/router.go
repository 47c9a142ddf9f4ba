package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ryanwills/accounts-backend/config"
	"github.com/ryanwills/accounts-backend/internal/app/controller"
	"github.com/ryanwills/accounts-backend/internal/middleware"
)

type Router struct {
	authController *controller.AuthController
	userController *controller.UserController
	authMiddleware *middleware.AuthMiddleware
	config         *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	userController *controller.UserController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController: authController,
		userController: userController,
		authMiddleware: authMiddleware,
		config:         cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Accounts API is running",
		})
	})

	// Public auth routes
	router.POST("/register", r.authController.Register)
	router.POST("/login", r.authController.Login)
	router.POST("/forgot-password", r.authController.ForgotPassword)
	router.POST("/verify-reset-code", r.authController.VerifyResetCode)
	router.POST("/reset-password", r.authController.ResetPassword)

	// Protected routes
	auth := r.authMiddleware.Authenticate()

	router.GET("/verify-token", auth, r.userController.VerifyToken)

	users := router.Group("/users", auth)
	{
		users.GET("", r.userController.ListUsers)
		users.GET("/:id", r.userController.GetUserByID)
	}

	profile := router.Group("/profile", auth)
	{
		profile.GET("", r.userController.GetProfile)
		profile.PUT("/update", r.userController.UpdateProfile)
		profile.PUT("/change-password", r.userController.ChangePassword)
		profile.DELETE("/delete", r.userController.DeleteAccount)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
