package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"

	applog "decohogar/internal/log"
)

// Limit is a fixed-window request budget per client IP.
type Limit struct {
	Max    int
	Window time.Duration
}

type AppConfig struct {
	BodyLimit    int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	RateLimit    Limit
	LoginLimit   Limit
}

// NewApp builds the fiber app with the middleware stack and every route
// from d.Routes mounted.
func NewApp(d *Deps, cfg AppConfig) *fiber.App {
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = 1 << 20
	}
	app := fiber.New(fiber.Config{
		AppName:      "decohogar",
		BodyLimit:    cfg.BodyLimit,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: ErrorHandler,
	})

	app.Use(applog.AccessLog())
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(helmet.New())
	if cfg.RateLimit.Max > 0 {
		app.Use(newLimiter("rate.limit.hit", cfg.RateLimit, func(c *fiber.Ctx) bool {
			return c.Path() == "/healthz"
		}))
	}

	var throttle fiber.Handler
	if cfg.LoginLimit.Max > 0 {
		throttle = newLimiter("rate.login.hit", cfg.LoginLimit, nil)
	}
	Register(app, d.Routes(), RequireUser(d.AuthService), throttle)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "route not found")
	})
	return app
}

func newLimiter(action string, l Limit, skip func(*fiber.Ctx) bool) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        l.Max,
		Expiration: l.Window,
		Next:       skip,
		KeyGenerator: func(c *fiber.Ctx) string {
			return utils.CopyString(c.IP())
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, action, nil)
			return fiber.NewError(fiber.StatusTooManyRequests, "rate limit exceeded, retry soon")
		},
	})
}
