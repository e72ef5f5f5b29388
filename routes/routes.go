package routes

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"

	"contactus-backend/config"
	"contactus-backend/controllers"
	"contactus-backend/middlewares"
)

// Deps carries what the routes need. A nil Auth leaves the staff API
// unregistered; a nil DB disables the idempotency guard.
type Deps struct {
	Contacts  *controllers.ContactController
	Auth      *controllers.AuthController
	DB        *gorm.DB
	JWTSecret []byte
	Logger    *slog.Logger
}

// NewApp builds the Fiber app with the global middleware stack. storage backs
// the rate limiter; nil keeps limiter state in process memory.
func NewApp(cfg *config.Config, logger *slog.Logger, storage fiber.Storage) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          middlewares.ErrorHandler(logger),
		BodyLimit:             cfg.Server.BodyLimitBytes,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowCredentials: false, // using Bearer tokens, not cookies
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
	}))

	if cfg.RateLimit.Max > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit.Max,
			Expiration: cfg.RateLimit.Window(),
			Storage:    storage,
			Next: func(c *fiber.Ctx) bool {
				return c.Path() == "/healthz"
			},
		}))
	}
	return app
}

// Register wires all HTTP routes.
func Register(app *fiber.App, d Deps) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Public contact form; Idempotency-Key replays the first response
	api.Post("/contact", middlewares.Idempotency(d.DB, d.Logger), d.Contacts.Submit)

	if d.Auth == nil {
		return
	}

	admin := api.Group("/admin")
	admin.Post("/login", d.Auth.Login)

	protected := admin.Group("", middlewares.IsAuthenticatedHeader(d.JWTSecret))
	protected.Get("/contacts", d.Contacts.ListContacts)
	protected.Get("/contacts/:id", d.Contacts.GetContact)
}
