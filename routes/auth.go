package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theuzairlab/WrenchEX-Backend/controllers"
	"github.com/theuzairlab/WrenchEX-Backend/middleware"
)

// SetupAuthRoutes configures all authentication related routes
func SetupAuthRoutes(api fiber.Router) {
	auth := api.Group("/auth")

	// Public routes
	auth.Post("/register", controllers.Register)
	auth.Post("/login", controllers.Login)
	auth.Post("/oauth/google", controllers.OAuthLogin)
	auth.Post("/refresh", controllers.RefreshToken)

	// Protected routes
	auth.Get("/me", middleware.Protected(), controllers.Me)
	auth.Post("/logout", middleware.Protected(), controllers.Logout)
	auth.Post("/verify/request", middleware.Protected(), controllers.RequestVerification)
	auth.Post("/verify/confirm", middleware.Protected(), controllers.VerifyEmail)
}
