package api

import (
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/huntsmart/client-engine/docs"
	"github.com/huntsmart/client-engine/internal/api/handler"
	"github.com/huntsmart/client-engine/internal/api/middleware"
	"github.com/huntsmart/client-engine/internal/core/domain"
	"github.com/huntsmart/client-engine/internal/core/ports"
	"github.com/huntsmart/client-engine/internal/core/service"
)

// Deps carries everything the HTTP layer needs from the composition root.
type Deps struct {
	Profiles        handler.ProfileSource
	Claims          ports.ClaimService
	Tokens          *service.TokenIssuer
	JWTSecret       string
	Probes          map[string]handler.Pinger
	StreamKeepAlive time.Duration
	Log             zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))

	// --- Handlers ---
	sessions := handler.NewSessionHandler(d.Profiles, d.Tokens, d.Log)
	roles := handler.NewRoleHandler(d.Profiles)
	passes := handler.NewEntitlementHandler(d.Profiles)
	checkouts := handler.NewCheckoutHandler(d.Profiles)
	verification := handler.NewVerificationHandler(d.Profiles)
	claims := handler.NewClaimHandler(d.Claims)
	stream := handler.NewStreamHandler(d.Profiles, d.StreamKeepAlive, d.Log)
	health := handler.NewHealthHandler(d.Probes)

	auth := middleware.Auth(d.JWTSecret)
	agentOnly := middleware.RBAC(handler.SessionRole(d.Profiles), domain.RoleAgent)
	passRequired := middleware.RequirePass(handler.PassActive(d.Profiles))

	v1 := e.Group("/v1")

	// --- Session routes ---
	v1.POST("/session/signup", sessions.SignUp, middleware.OptionalAuth(d.JWTSecret))

	session := v1.Group("/session", auth)
	session.GET("", sessions.Get)
	session.PATCH("", sessions.Update)
	session.DELETE("", sessions.SignOut)
	session.GET("/role", roles.Get)
	session.PUT("/role", roles.Choose)

	// --- Entitlement routes ---
	entitlement := v1.Group("/entitlement", auth)
	entitlement.GET("", passes.Get)
	entitlement.POST("/inspections", passes.ConsumeInspection, passRequired)

	// --- Checkout routes ---
	checkout := v1.Group("/checkout", auth)
	checkout.POST("", checkouts.Open)
	checkout.GET("/:id", checkouts.Get)
	checkout.POST("/:id/submit", checkouts.Submit)
	checkout.DELETE("/:id", checkouts.Close)

	// --- Verification routes (agents only) ---
	verify := v1.Group("/verification", auth, agentOnly)
	verify.POST("", verification.Open)
	verify.GET("/:id", verification.Get)
	verify.PUT("/:id/code", verification.SetCode)
	verify.POST("/:id/submit", verification.Submit)
	verify.POST("/:id/reset", verification.Reset)
	verify.DELETE("/:id", verification.Close)

	v1.GET("/claims", claims.List, auth, agentOnly)
	v1.GET("/stream", stream.Stream, auth)

	// --- Health probes (no auth required) ---
	e.GET("/health", health.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", health.Readiness) // readiness – are dependencies up?

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error()
			}
			evt.
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
