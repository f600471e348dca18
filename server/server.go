package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog/log"

	"github.com/Qoopi/checkers/bot"
	"github.com/Qoopi/checkers/config"
)

// NewApp wires the routes. games and b may be shared with other services.
func NewApp(cfg *config.Config, games *GameManager, b *bot.Bot) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CorsOrigins(),
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Debug().Str("method", c.Method()).Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("took", time.Since(start)).Msg("request")
		return err
	})

	gameController := NewGameController(games, b)
	wsController := NewWebSocketController(games)

	app.Use("/ws", WebSocketUpgrade())
	app.Get("/ws/game/:gameId", websocket.New(wsController.HandleConnection, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}))

	api := app.Group("/api")
	api.Post("/moves", gameController.LegalMoves)
	api.Post("/plan", gameController.Plan)
	api.Post("/cells", gameController.PlanCells)

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/create", gameController.CreateGame)
	gameRoutes.Get("/:gameId", gameController.GetGameState)
	gameRoutes.Post("/:gameId/move", gameController.MakeMove)
	gameRoutes.Post("/:gameId/bot", gameController.BotMove)

	return app
}
