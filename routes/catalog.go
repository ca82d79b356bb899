package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theuzairlab/WrenchEX-Backend/controllers/buyer"
)

// SetupCatalogRoutes configures the public browse and search routes. No
// authentication is required on any of these.
func SetupCatalogRoutes(api fiber.Router) {
	api.Get("/products", buyer.SearchProducts)
	api.Get("/products/:id", buyer.GetProduct)
	api.Get("/services", buyer.SearchServices)
	api.Get("/services/slots", buyer.GetAvailableSlots)
	api.Get("/services/next-slot", buyer.GetNextAvailableSlot)
	api.Get("/services/:id", buyer.GetService)
	api.Get("/sellers/:id", buyer.GetSeller)
	api.Get("/sellers/:id/reviews", buyer.GetSellerReviews)
	api.Get("/categories", buyer.GetCategories)
}
