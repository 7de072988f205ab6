package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/carhive/carhive/internal/payments"
)

// RegisterPaymentRoutes wires the payment endpoint behind bearer auth and,
// when Redis is configured, the idempotency replay cache.
func RegisterPaymentRoutes(r fiber.Router, h *payments.Handler, auth fiber.Handler, idem fiber.Handler) {
	handlers := []fiber.Handler{auth}
	if idem != nil {
		handlers = append(handlers, idem)
	}
	handlers = append(handlers, h.Pay)
	r.Post("/payments", handlers...)
}
