package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sashabaranov/go-openai"

	"github.com/mimir-ai/pdfchat/internal/model"
	"github.com/mimir-ai/pdfchat/internal/service"
	"github.com/mimir-ai/pdfchat/internal/user"
)

// UserService covers registration, login and listing.
type UserService interface {
	Register(companyName, email, password string) (model.UserOut, error)
	Login(email, password string) (model.Token, error)
	Users() []model.UserOut
}

// Ingestor runs the upload-to-index pipeline.
type Ingestor interface {
	Ingest(ctx context.Context, userID int, filename, contentType string, data []byte) (string, error)
}

// Chatter answers a question from a user's ingested document.
type Chatter interface {
	Ask(ctx context.Context, userID int, question string) (string, error)
}

// ModelLister proxies the endpoint's model list.
type ModelLister interface {
	ListModels(ctx context.Context) ([]openai.Model, error)
}

// Handler holds the dependencies for all HTTP handlers.
type Handler struct {
	users  UserService
	ingest Ingestor
	chat   Chatter
	llm    ModelLister
	log    *slog.Logger
}

func NewHandler(users UserService, ingest Ingestor, chat Chatter, llm ModelLister, log *slog.Logger) *Handler {
	return &Handler{users: users, ingest: ingest, chat: chat, llm: llm, log: log}
}

func (h *Handler) Welcome(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Welcome to the Mimir backend API!"})
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.SendString("ok")
}

func (h *Handler) ListModels(c *fiber.Ctx) error {
	models, err := h.llm.ListModels(c.UserContext())
	if err != nil {
		h.log.Error("list models failed", "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list models"})
	}
	return c.JSON(models)
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var req model.RegisterRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request, expected JSON: {\"company_name\", \"email\", \"password\"}"})
	}

	out, err := h.users.Register(req.CompanyName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) || errors.Is(err, user.ErrInvalidEmail) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		h.log.Error("register failed", "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "registration failed"})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req model.LoginRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request, expected JSON: {\"email\", \"password\"}"})
	}

	token, err := h.users.Login(req.Email, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": user.ErrInvalidCredentials.Error()})
	}
	return c.JSON(token)
}

// Upload takes a multipart form with a user_id field and a PDF file and
// builds that user's index.
func (h *Handler) Upload(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.FormValue("user_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id is required (form field: user_id)"})
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required (form field: file)"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.log.Error("open upload failed", "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": service.ErrProcessing.Error()})
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		h.log.Error("read upload failed", "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": service.ErrProcessing.Error()})
	}

	msg, err := h.ingest.Ingest(c.UserContext(), userID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrUnsupportedContentType):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			// cause goes to the log, not to the client
			h.log.Error("ingest failed", "user_id", userID, "err", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": service.ErrProcessing.Error()})
		}
	}
	return c.JSON(fiber.Map{"message": msg})
}

func (h *Handler) Chat(c *fiber.Ctx) error {
	var req model.ChatRequest
	if err := c.BodyParser(&req); err != nil || req.Question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request, expected JSON: {\"user_id\", \"question\"}"})
	}

	answer, err := h.chat.Ask(c.UserContext(), req.UserID, req.Question)
	if err != nil {
		if errors.Is(err, service.ErrNoIndex) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		h.log.Error("chat failed", "user_id", req.UserID, "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": service.ErrGeneration.Error()})
	}
	return c.JSON(model.ChatResponse{Answer: answer})
}

func (h *Handler) Users(c *fiber.Ctx) error {
	return c.JSON(h.users.Users())
}
