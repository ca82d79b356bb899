package main

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/theuzairlab/WrenchEX-Backend/cache"
	"github.com/theuzairlab/WrenchEX-Backend/chat"
	"github.com/theuzairlab/WrenchEX-Backend/controllers/admin"
	"github.com/theuzairlab/WrenchEX-Backend/controllers/buyer"
	"github.com/theuzairlab/WrenchEX-Backend/cron"
	"github.com/theuzairlab/WrenchEX-Backend/db"
	"github.com/theuzairlab/WrenchEX-Backend/logger"
	"github.com/theuzairlab/WrenchEX-Backend/redis"
	"github.com/theuzairlab/WrenchEX-Backend/routes"
	"github.com/theuzairlab/WrenchEX-Backend/ws"
)

func main() {
	godotenv.Load()

	db.Init()
	db.Migrate()

	// Redis is optional; without it the read caches stay no-op.
	if os.Getenv("REDIS_ADDR") != "" {
		redis.InitRedis()
		buyer.ResponseCache = cache.NewRedis(redis.Client)
		admin.StatsCache = cache.NewRedis(redis.Client)
	}

	hub := ws.NewHub()
	chat.SetNotifier(hub)

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")
	routes.SetupAuthRoutes(api)
	routes.SetupCatalogRoutes(api)
	routes.SetupAppointmentRoutes(api)
	routes.SetupChatRoutes(api, hub)
	routes.SetupSellerRoutes(api)
	routes.SetupAdminRoutes(api)

	cron.StartCronJobs()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	logger.L().Info("server starting", zap.String("port", port))
	if err := app.Listen(":" + port); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
