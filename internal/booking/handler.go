package booking

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the booking endpoint.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs a booking handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type bookRequest struct {
	CarID     string `json:"car_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Book reserves a car for the authenticated caller.
func (h *Handler) Book(c *fiber.Ctx) error {
	var req bookRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	uid, _ := c.Locals("user_id").(string)
	bearer, _ := c.Locals("bearer_token").(string)

	created, err := h.service.Book(c.UserContext(), BookInput{
		UserID:    uid,
		CarID:     req.CarID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Bearer:    bearer,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrCarUnavailable):
			return fiber.NewError(http.StatusConflict, ErrCarUnavailable.Error())
		default:
			h.logger.Error("booking failed", "error", err, "car_id", req.CarID)
			return fiber.NewError(http.StatusInternalServerError, "internal server error")
		}
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(http.StatusCreated).Send(created)
}
