package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/sirpyerre/inventory-api/internal/api/handler"
	"github.com/sirpyerre/inventory-api/internal/api/middleware"
	"github.com/sirpyerre/inventory-api/internal/core/ports"
	_ "github.com/sirpyerre/inventory-api/internal/docs"
	"github.com/sirpyerre/inventory-api/internal/infrastructure/http/handlers"
)

// Dependencies are the services the router mounts. Readiness may be nil when
// there is nothing to probe.
type Dependencies struct {
	Auth        ports.AuthService
	Items       ports.ItemService
	Tokens      ports.TokenVerifier
	Readiness   map[string]handlers.Pinger
	CORSOrigins []string
	Logger      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// Each router gets its own registry for HTTP metrics so that building
	// more than one (tests) does not collide on the default registerer.
	httpMetrics := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "inventory",
		Registerer: httpMetrics,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  deps.CORSOrigins,
		AllowHeaders:  []string{echo.HeaderAuthorization, echo.HeaderContentType, "Idempotency-Key"},
		ExposeHeaders: []string{"Idempotent-Replayed", echo.HeaderXRequestID},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	itemHandler := handler.NewItemHandler(deps.Items)
	requireAuth := middleware.Auth(deps.Tokens, deps.Logger)

	// --- Operational routes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, httpMetrics},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, requireAuth)

	// --- Item routes (owner-scoped) ---
	items := api.Group("/items", requireAuth)
	items.GET("", itemHandler.List)
	items.POST("", itemHandler.Create)
	items.GET("/summary", itemHandler.Summary)
	items.GET("/:id", itemHandler.Get)
	items.PUT("/:id", itemHandler.Update)
	items.DELETE("/:id", itemHandler.Delete)

	return e
}
