package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theuzairlab/WrenchEX-Backend/controllers/seller"
	"github.com/theuzairlab/WrenchEX-Backend/middleware"
	"github.com/theuzairlab/WrenchEX-Backend/models"
)

// SetupSellerRoutes configures all seller related routes. Everything here
// requires a seller token; listing and scheduling routes additionally require
// the shop to be approved.
func SetupSellerRoutes(api fiber.Router) {
	sellerGroup := api.Group("/seller", middleware.Protected(), middleware.RequireRole(models.RoleSeller))

	// Profile is reachable before approval so a new seller can finish setup.
	sellerGroup.Get("/profile", seller.GetProfile)
	sellerGroup.Patch("/profile", seller.UpdateProfile)
	sellerGroup.Post("/profile/logo", seller.UploadLogo)
	sellerGroup.Get("/chat-settings", seller.GetChatSettings)
	sellerGroup.Patch("/chat-settings", seller.UpdateChatSettings)

	approved := sellerGroup.Group("/", middleware.RequireApprovedSeller())

	approved.Get("/products", seller.ListProducts)
	approved.Post("/products", seller.CreateProduct)
	approved.Patch("/products/:id", seller.UpdateProduct)
	approved.Delete("/products/:id", seller.DeleteProduct)
	approved.Post("/products/:id/images", seller.UploadProductImage)

	approved.Get("/services", seller.ListServices)
	approved.Post("/services", seller.CreateService)
	approved.Patch("/services/:id", seller.UpdateService)
	approved.Delete("/services/:id", seller.DeleteService)

	approved.Get("/availability", seller.GetAvailability)
	approved.Put("/availability", seller.SetAvailability)
	approved.Get("/time-off", seller.ListTimeOff)
	approved.Post("/time-off", seller.CreateTimeOff)
	approved.Delete("/time-off/:id", seller.CancelTimeOff)

	approved.Get("/appointments/upcoming", seller.UpcomingAppointments)
	approved.Get("/appointments/history", seller.AppointmentHistory)
	approved.Get("/appointments/:id", seller.GetAppointment)
	approved.Patch("/appointments/:id/status", seller.UpdateAppointmentStatus)
	approved.Post("/appointments/:id/reschedule", seller.RescheduleAppointment)

	approved.Get("/dashboard", seller.Dashboard)
}
