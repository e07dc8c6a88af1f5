// Package webapi provides the HTTP API of the cinema backend.
// It is organized into sub-packages per resource:
// - auth: register, login, logout and token check
// - user: profile view and edit
// - film: catalog and the caller's approved list
// - transaction: purchase submission, history and admin review
package webapi

import (
	"errors"

	"github.com/amirasaad/cinema/infra/observability"
	"github.com/amirasaad/cinema/pkg/app"
	authweb "github.com/amirasaad/cinema/webapi/auth"
	"github.com/amirasaad/cinema/webapi/common"
	filmweb "github.com/amirasaad/cinema/webapi/film"
	transactionweb "github.com/amirasaad/cinema/webapi/transaction"
	userweb "github.com/amirasaad/cinema/webapi/user"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"

	_ "github.com/amirasaad/cinema/docs"
)

// multipartOverhead leaves room for the form fields next to the largest
// accepted upload.
const multipartOverhead = 1 << 20

// SetupApp Initialize Fiber with custom configuration
func SetupApp(app *app.App) *fiber.App {
	cfg := app.Config
	bodyLimit := fiber.DefaultBodyLimit
	if cfg.Upload != nil && cfg.Upload.MaxSize > 0 {
		// A film carries a thumbnail and a poster.
		bodyLimit = int(2*cfg.Upload.MaxSize) + multipartOverhead
	}

	fiberCfg := fiber.Config{
		BodyLimit: bodyLimit,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return common.ErrorResponseJSON(c, fe.Code, fe.Message, nil)
			}
			log.Errorf("%s %s failed: %v", c.Method(), c.Path(), err)
			return common.ErrorResponseJSON(c, fiber.StatusInternalServerError, "Internal Server Error", nil)
		},
	}
	if cfg.Server != nil && len(cfg.Server.TrustedProxies) > 0 {
		fiberCfg.ProxyHeader = cfg.Server.ProxyHeader
		fiberCfg.EnableTrustedProxyCheck = true
		fiberCfg.TrustedProxies = cfg.Server.TrustedProxies
		fiberCfg.EnableIPValidation = true
	}
	fiberApp := fiber.New(fiberCfg)

	observability.InitMetrics()
	fiberApp.Use(recover.New())
	fiberApp.Use(observability.Middleware())
	fiberApp.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Cors.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Requests are keyed by c.IP(), which only honours the proxy header
	// when the peer is a trusted proxy.
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit.MaxRequests,
		Expiration: cfg.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ErrorResponseJSON(c, fiber.StatusTooManyRequests, "Too Many Requests", nil)
		},
	}))
	fiberApp.Use(logger.New())

	fiberApp.Get("/swagger/*", swagger.New(swagger.Config{
		TryItOutEnabled:      true,
		PersistAuthorization: true,
	}))
	fiberApp.Get("/metrics", observability.Handler())

	// Health check endpoint
	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Cinema API is running!")
	})

	// Debug endpoint to list all routes
	fiberApp.Get("/debug/routes", func(c *fiber.Ctx) error {
		routes := fiberApp.GetRoutes(true)
		routeList := make([]fiber.Map, 0, len(routes))
		for _, route := range routes {
			if route.Path != "" {
				routeList = append(routeList, fiber.Map{
					"method": route.Method,
					"path":   route.Path,
				})
			}
		}
		return c.JSON(routeList)
	})

	api := fiberApp.Group("/api/v1")
	authweb.Routes(api, app.AuthService, app.UserService, cfg)
	userweb.Routes(api, app.UserService, app.AuthService, cfg)
	filmweb.Routes(api, app.FilmService, app.TransactionService, app.AuthService, cfg)
	transactionweb.Routes(api, app.TransactionService, app.AuthService, cfg)
	return fiberApp
}
