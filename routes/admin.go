package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theuzairlab/WrenchEX-Backend/controllers/admin"
	"github.com/theuzairlab/WrenchEX-Backend/middleware"
	"github.com/theuzairlab/WrenchEX-Backend/models"
)

// SetupAdminRoutes configures the moderation routes
func SetupAdminRoutes(api fiber.Router) {
	adminGroup := api.Group("/admin", middleware.Protected(), middleware.RequireRole(models.RoleAdmin))

	adminGroup.Get("/stats", admin.GetStats)

	adminGroup.Get("/sellers/pending", admin.ListPendingSellers)
	adminGroup.Patch("/sellers/:id/approval", admin.SetSellerApproval)

	adminGroup.Get("/users", admin.ListUsers)
	adminGroup.Delete("/users/:id", admin.DeleteUser)

	adminGroup.Post("/products/:id/deactivate", admin.DeactivateProduct)
	adminGroup.Post("/services/:id/deactivate", admin.DeactivateService)

	adminGroup.Post("/categories", admin.CreateCategory)
	adminGroup.Patch("/categories/:id", admin.UpdateCategory)
	adminGroup.Post("/categories/:id/deactivate", admin.DeactivateCategory)
	adminGroup.Delete("/categories/:id", admin.DeleteCategory)
}
