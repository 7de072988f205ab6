package payments

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the payment endpoint.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs a payment handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type payRequest struct {
	BookingID string `json:"booking_id"`
	Amount    int64  `json:"amount"`
}

// Pay charges the authenticated caller's booking.
func (h *Handler) Pay(c *fiber.Ctx) error {
	var req payRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	uid, _ := c.Locals("user_id").(string)

	err := h.service.Pay(c.UserContext(), PayInput{
		UserID:         uid,
		BookingID:      req.BookingID,
		Amount:         req.Amount,
		IdempotencyKey: c.Get("Idempotency-Key"),
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrNotOwner):
			return fiber.NewError(http.StatusForbidden, "forbidden")
		default:
			h.logger.Error("payment failed", "error", err, "booking_id", req.BookingID)
			return fiber.NewError(http.StatusInternalServerError, "internal server error")
		}
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"message": "payment successful"})
}
