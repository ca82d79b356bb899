package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theuzairlab/WrenchEX-Backend/controllers/buyer"
	"github.com/theuzairlab/WrenchEX-Backend/middleware"
)

// SetupAppointmentRoutes configures the buyer-side appointment routes
func SetupAppointmentRoutes(api fiber.Router) {
	appointments := api.Group("/appointments", middleware.Protected())

	appointments.Post("/", buyer.CreateAppointment)
	appointments.Get("/", buyer.MyAppointments)
	appointments.Get("/:id", buyer.GetAppointment)
	appointments.Post("/:id/cancel", buyer.CancelAppointment)
	appointments.Post("/:id/messages", buyer.SendAppointmentMessage)
	appointments.Get("/:id/messages", buyer.ListAppointmentMessages)

	reviews := api.Group("/reviews", middleware.Protected())
	reviews.Post("/", buyer.CreateReview)
}
