package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/carhive/carhive/internal/booking"
)

// RegisterBookingRoutes wires the booking endpoint behind bearer auth.
func RegisterBookingRoutes(r fiber.Router, h *booking.Handler, auth fiber.Handler) {
	r.Post("/book", auth, h.Book)
}
