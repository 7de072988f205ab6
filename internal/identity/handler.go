package identity

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/carhive/carhive/internal/token"
)

// Handler exposes the register and login endpoints.
type Handler struct {
	service *Service
	tokens  *token.Service
	logger  *slog.Logger
}

// NewHandler constructs an identity HTTP handler.
func NewHandler(service *Service, tokens *token.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, tokens: tokens, logger: logger}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// Register handles user onboarding. The response acknowledges creation and
// never echoes the password or its hash.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	user, err := h.service.Register(c.UserContext(), Credentials{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return fiber.NewError(http.StatusConflict, "user already exists")
		}
		if errors.Is(err, ErrValidation) {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		h.logger.Error("register failed", "error", err)
		return fiber.NewError(http.StatusInternalServerError, "internal server error")
	}
	h.logger.Info("user registered", "user_id", user.ID)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"message": "user registered successfully"})
}

// Login verifies credentials and issues a bearer token. Unknown email and
// wrong password produce the identical response.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	user, err := h.service.Authenticate(c.UserContext(), Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return fiber.NewError(http.StatusUnauthorized, "invalid credentials")
		}
		h.logger.Error("login failed", "error", err)
		return fiber.NewError(http.StatusInternalServerError, "internal server error")
	}
	signed, _, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.logger.Error("issue token", "error", err)
		return fiber.NewError(http.StatusInternalServerError, "internal server error")
	}
	return c.Status(http.StatusOK).JSON(loginResponse{Token: signed, ExpiresIn: int64(h.tokens.TTL().Seconds())})
}
