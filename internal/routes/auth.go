package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/carhive/carhive/internal/identity"
)

// RegisterAuthRoutes wires the registration and login endpoints.
func RegisterAuthRoutes(r fiber.Router, h *identity.Handler, rateLimiter fiber.Handler) {
	r.Post("/register", h.Register)
	if rateLimiter != nil {
		r.Post("/login", rateLimiter, h.Login)
	} else {
		r.Post("/login", h.Login)
	}
}
