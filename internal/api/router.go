package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/coffeetica/coffeetica/docs"
	"github.com/coffeetica/coffeetica/internal/api/handler"
	"github.com/coffeetica/coffeetica/internal/api/middleware"
	"github.com/coffeetica/coffeetica/internal/core/authz"
	"github.com/coffeetica/coffeetica/internal/core/domain"
	"github.com/coffeetica/coffeetica/internal/core/ports"
)

// Deps collects everything the router wires into handlers and middleware.
type Deps struct {
	Log         zerolog.Logger
	Development bool
	// ForceHTTPS redirects plain HTTP requests to HTTPS. Only production
	// deployments behind TLS set it.
	ForceHTTPS bool

	Auth     ports.AuthService
	Accounts ports.AccountService
	Reviews  ports.ReviewService
	Engine   middleware.Authorizer

	HealthChecks map[string]handler.Check

	// Registerer and Gatherer back the HTTP metrics and /metrics. Nil means
	// the Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
// Every route is guarded by exactly one authorization rule.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(middleware.SecureHeaders(d.Development, d.ForceHTTPS))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "coffeetica",
		Subsystem:  "http",
		Registerer: d.Registerer,
	}))
	e.Use(middleware.Identity(d.Auth, d.Log))

	guard := func(rule authz.Rule) echo.MiddlewareFunc {
		return middleware.Authorize(d.Engine, rule, "id")
	}
	public := guard(authz.Public())

	authHandler := handler.NewAuthHandler(d.Auth, d.Accounts)
	accountHandler := handler.NewAccountHandler(d.Accounts)
	reviewHandler := handler.NewReviewHandler(d.Reviews)

	// --- Auth ---
	e.POST("/api/auth/login", authHandler.Login, public)

	// --- Accounts ---
	users := e.Group("/api/users")
	users.POST("/register", authHandler.Register, public)
	users.GET("/me", authHandler.Me, guard(authz.Authenticated()))
	users.GET("/:id", accountHandler.Get, public)
	users.PUT("/:id/update-email", accountHandler.UpdateEmail, guard(authz.RequireSelf()))
	users.PUT("/:id/change-password", accountHandler.ChangePassword, guard(authz.RequireSelf()))
	users.PUT("/:id", accountHandler.Update, guard(authz.RequireSelfOrProtectedRole(domain.RoleAdmin)))
	users.PUT("/:id/reset-password", accountHandler.ResetPassword, guard(authz.RequireRole(domain.RoleAdmin).Protected()))
	users.PUT("/:id/update-roles", accountHandler.UpdateRoles, guard(authz.RequireRole(domain.RoleSuperAdmin).Protected()))
	users.DELETE("/:id", accountHandler.Delete, guard(authz.RequireRole(domain.RoleAdmin).Protected()))

	// --- Reviews ---
	reviews := e.Group("/api/reviews")
	reviews.GET("/:id", reviewHandler.Get, public)
	reviews.POST("", reviewHandler.Create, guard(authz.RequireRole(domain.RoleUser)))
	reviews.PUT("/:id", reviewHandler.Update, guard(authz.RequireRoleOrOwner(domain.ResourceReview, domain.RoleAdmin)))
	reviews.DELETE("/:id", reviewHandler.Delete, guard(authz.RequireRoleOrOwner(domain.ResourceReview, domain.RoleAdmin)))

	// --- Operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler(d.HealthChecks)
	e.GET("/health", healthHandler.Liveness)        // liveness
	e.GET("/health/ready", healthHandler.Readiness) // readiness
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
