package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, users UserService, ingest Ingestor, chat Chatter, llm ModelLister, log *slog.Logger) {
	h := NewHandler(users, ingest, chat, llm, log)

	app.Get("/", h.Welcome)
	app.Get("/health", h.Health)
	app.Get("/models", h.ListModels)
	app.Get("/users", h.Users)
	app.Post("/register", h.Register)
	app.Post("/login", h.Login)
	app.Post("/upload", h.Upload)
	app.Post("/chat", h.Chat)
}
