package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/mimir-ai/pdfchat/internal/api"
	"github.com/mimir-ai/pdfchat/internal/config"
	"github.com/mimir-ai/pdfchat/internal/service"
	"github.com/mimir-ai/pdfchat/internal/store"
	"github.com/mimir-ai/pdfchat/internal/user"
)

func main() {
	// config
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// vector index registry
	var registry store.Registry
	switch cfg.VectorStore {
	case "postgres":
		pg, err := store.NewPgRegistry(cfg.PgConn, cfg.EmbedDim)
		if err != nil {
			log.Fatal(err)
		}
		registry = pg
	default:
		registry = store.NewMemoryRegistry()
	}

	// users
	users := user.NewStore()
	userSvc := user.NewService(users)

	// services
	llm := service.NewLLMClient(cfg)
	ingest := service.NewIngestor(users, registry, llm, cfg, logger)
	rag := service.NewRAGService(registry, llm, llm, cfg, logger)

	// api
	app := fiber.New()
	app.Use(recover.New())
	api.RegisterRoutes(app, userSvc, ingest, rag, llm, logger)

	logger.Info("server started", "addr", cfg.ServerAddr, "vector_store", cfg.VectorStore)
	log.Fatal(app.Listen(cfg.ServerAddr))
}
