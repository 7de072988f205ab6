package cars

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/carhive/carhive/internal/downstream"
)

// Handler exposes the car search endpoint. The search does not verify the
// bearer token locally; authorization is delegated to the car service, which
// receives the credential unchanged.
type Handler struct {
	inventory downstream.CarInventory
	logger    *slog.Logger
}

// NewHandler constructs a car search handler.
func NewHandler(inventory downstream.CarInventory, logger *slog.Logger) *Handler {
	return &Handler{inventory: inventory, logger: logger}
}

// Search forwards the location filter and bearer credential to the car
// service and relays its response body. A missing or malformed credential is
// forwarded as absent; the car service decides whether to reject it.
func (h *Handler) Search(c *fiber.Ctx) error {
	bearer := bearerFrom(c.Get(fiber.HeaderAuthorization))

	body, err := h.inventory.Search(c.UserContext(), c.Query("location"), bearer)
	if err != nil {
		h.logger.Error("car search failed", "error", err)
		return fiber.NewError(http.StatusInternalServerError, "internal server error")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(http.StatusOK).Send(body)
}

func bearerFrom(header string) string {
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[len("Bearer "):])
}
