package router

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/zap"

	handler "github.com/zdziszkee/bankmap/internal/api/handlers"
	"github.com/zdziszkee/bankmap/internal/api/middleware"
	config "github.com/zdziszkee/bankmap/internal/configuration"
	"github.com/zdziszkee/bankmap/internal/logger"
	"github.com/zdziszkee/bankmap/internal/metrics"
)

// Dependencies is everything SetupRoutes mounts
type Dependencies struct {
	AppName      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Site         config.SiteConfig
	Views        fiber.Views
	Logger       *zap.Logger
	Metrics      *metrics.Metrics

	Guard       *middleware.SessionGuard
	Locations   *handler.LocationHandler
	Accounts    *handler.AccountHandler
	Permissions *handler.PermissionHandler
}

// SetupRoutes configures all routes
func SetupRoutes(deps Dependencies) *fiber.App {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:      deps.AppName,
		ReadTimeout:  deps.ReadTimeout,
		WriteTimeout: deps.WriteTimeout,
		Views:        deps.Views,
		ErrorHandler: errorHandler,
	})

	// Add global middleware
	app.Use(recover.New())
	app.Use(middleware.RequestLogger(log, deps.Metrics))
	app.Use(middleware.SiteLabels(deps.Site))

	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	// Accounts
	users := app.Group("/users")
	users.Get("/login/", deps.Accounts.LoginPage)
	users.Post("/login/", deps.Accounts.Login)
	users.Get("/register/", deps.Accounts.RegisterPage)
	users.Post("/register/", deps.Accounts.Register)
	users.Post("/logout/", deps.Accounts.Logout)

	// Map page and location endpoints. fiber takes the handler first and
	// runs the trailing middleware before it.
	login := deps.Guard.RequireLogin()
	app.Get("/", deps.Locations.MapView, login)
	app.Post("/banks/save/", deps.Locations.SaveBank, login)
	app.Post("/banks/delete/", deps.Locations.DeleteBank, login)
	app.Post("/branches/save/", deps.Locations.SaveBranch, login)
	app.Post("/branches/delete/", deps.Locations.DeleteBranch, login)
	app.Post("/atms/save/", deps.Locations.SaveATM, login)
	app.Post("/atms/delete/", deps.Locations.DeleteATM, login)
	app.Post("/atms/status/", deps.Locations.SetATMStatus, login)
	app.Get("/atms/", deps.Locations.ATMPinsByBank, login)
	app.Get("/atms/:bank_id<int>/", deps.Locations.ATMsByBank, login)

	// Superuser permissions
	superuser := deps.Guard.RequireSuperuser()
	app.Get("/permissions/", deps.Permissions.List, superuser)
	app.Post("/permissions/", deps.Permissions.Toggle, superuser)

	return app
}

// errorHandler keeps fiber errors (404, 405, ...) and hides everything else
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal server error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		msg = e.Message
	} else {
		logger.FromContext(c.Context()).Error("unhandled error",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	return c.Status(code).JSON(fiber.Map{
		"ok":  false,
		"msg": msg,
	})
}
