package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/authapp/portal/internal/api/handler"
	"github.com/authapp/portal/internal/api/middleware"
	"github.com/authapp/portal/internal/core/domain"
	"github.com/authapp/portal/internal/core/ports"
	"github.com/authapp/portal/internal/infrastructure/http/handlers"
)

// Dependencies is everything the HTTP surface needs from the outside.
type Dependencies struct {
	Log      zerolog.Logger
	Renderer echo.Renderer
	Sessions ports.SessionStore
	Resolver middleware.Resolver
	Tokens   *middleware.SessionTokens
	Cookie   middleware.CookieOptions

	Credentials ports.CredentialForms
	Profiles    ports.ProfileEditor
	Roles       ports.RoleAdministration

	// Readiness lists the dependencies checked by /health/ready.
	Readiness map[string]handlers.Pinger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = deps.Renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.BodyLimit("64K"))
	e.Use(echoprometheus.NewMiddleware("portal"))

	// --- Operational endpoints (no browser session) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Pages ---
	pages := e.Group("", middleware.Sessions(deps.Sessions, deps.Resolver, deps.Tokens, deps.Cookie, deps.Log))

	authHandler := handler.NewAuthHandler(deps.Credentials, deps.Log)
	profileHandler := handler.NewProfileHandler(deps.Profiles)
	usersHandler := handler.NewUsersHandler(deps.Roles)

	pages.GET("/", authHandler.LoginPage, middleware.Guard(domain.ViewRoot))
	pages.GET("/login", authHandler.LoginPage, middleware.Guard(domain.ViewLogin))
	pages.POST("/login", authHandler.Login, middleware.Guard(domain.ViewLogin))
	pages.GET("/register", authHandler.RegisterPage, middleware.Guard(domain.ViewRegister))
	pages.POST("/register", authHandler.Register, middleware.Guard(domain.ViewRegister))
	pages.POST("/logout", authHandler.Logout, middleware.Guard(domain.ViewDashboard))

	pages.GET("/dashboard", handler.Dashboard, middleware.Guard(domain.ViewDashboard))

	pages.GET("/profile", profileHandler.Show, middleware.Guard(domain.ViewProfile))
	pages.POST("/profile", profileHandler.Update, middleware.Guard(domain.ViewProfile))

	pages.GET("/users", usersHandler.List, middleware.Guard(domain.ViewUsers))
	pages.POST("/users/:id/role", usersHandler.ChangeRole, middleware.Guard(domain.ViewUsers))

	return e
}

// requestLogger feeds Echo's request log into zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/health" || c.Path() == "/metrics"
		},
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
