package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theuzairlab/WrenchEX-Backend/controllers/buyer"
	"github.com/theuzairlab/WrenchEX-Backend/middleware"
	"github.com/theuzairlab/WrenchEX-Backend/ws"
)

// SetupChatRoutes configures the product chat REST routes plus the realtime
// websocket endpoint backed by the hub.
func SetupChatRoutes(api fiber.Router, hub *ws.Hub) {
	chats := api.Group("/chats", middleware.Protected())

	chats.Post("/", buyer.OpenChat)
	chats.Get("/", buyer.MyChats)
	chats.Get("/:id/messages", buyer.GetChatMessages)
	chats.Post("/:id/messages", buyer.SendChatMessage)
	chats.Post("/:id/read", buyer.MarkChatRead)

	// The upgrade request authenticates via a token query parameter instead of
	// the Authorization header.
	api.Use("/ws/chat", ws.Upgrade)
	api.Get("/ws/chat", ws.Handler(hub))
}
