package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/carhive/carhive/internal/cars"
)

// RegisterCarRoutes wires the car search endpoint.
func RegisterCarRoutes(r fiber.Router, h *cars.Handler) {
	r.Get("/cars", h.Search)
}
