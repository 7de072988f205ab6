package routes

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/carhive/carhive/internal/booking"
	"github.com/carhive/carhive/internal/cars"
	"github.com/carhive/carhive/internal/config"
	"github.com/carhive/carhive/internal/downstream"
	"github.com/carhive/carhive/internal/identity"
	"github.com/carhive/carhive/internal/middleware"
	"github.com/carhive/carhive/internal/notification"
	"github.com/carhive/carhive/internal/payments"
	"github.com/carhive/carhive/internal/token"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	// Credential store: Postgres when configured, in-memory otherwise.
	var identityRepo identity.Repository
	if d.DB != nil {
		identityRepo = identity.NewPostgresRepository(d.DB)
	} else {
		identityRepo = identity.NewMemoryRepository()
	}
	identitySvc := identity.NewService(identityRepo)
	tokenSvc := token.NewService(d.Cfg.JWTSecret, d.Cfg.TokenTTL)
	identityHandler := identity.NewHandler(identitySvc, tokenSvc, d.Logger)

	// Downstream collaborators share one transport with the configured
	// per-call timeout.
	httpClient := &http.Client{Timeout: d.Cfg.DownstreamTimeout}
	carClient := downstream.NewCarClient(d.Cfg.CarServiceURL, httpClient)
	bookingClient := downstream.NewBookingClient(d.Cfg.BookingServiceURL, httpClient)
	paymentClient := downstream.NewPaymentClient(d.Cfg.PaymentServiceURL, httpClient)

	notifier := notification.NewLoggerNotifier(d.Logger)
	bookingSvc := booking.NewService(carClient, bookingClient, notifier)
	paymentSvc := payments.NewService(bookingClient, paymentClient, notifier)

	carsHandler := cars.NewHandler(carClient, d.Logger)
	bookingHandler := booking.NewHandler(bookingSvc, d.Logger)
	paymentHandler := payments.NewHandler(paymentSvc, d.Logger)

	// Public routes
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(app, identityHandler, rateLimiter)

	// /cars forwards the bearer credential without verifying it locally;
	// the car service is the authorizer there.
	RegisterCarRoutes(app, carsHandler)

	// Protected routes
	authmw := middleware.BearerAuth(tokenSvc)
	RegisterBookingRoutes(app, bookingHandler, authmw)

	var idem fiber.Handler
	if d.Cache != nil {
		idem = middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)
	}
	RegisterPaymentRoutes(app, paymentHandler, authmw, idem)

	return nil
}
