package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/jiralite/tracker/internal/api/handler"
	"github.com/jiralite/tracker/internal/api/middleware"
	"github.com/jiralite/tracker/internal/core/domain"
	"github.com/jiralite/tracker/internal/core/ports"

	_ "github.com/jiralite/tracker/docs"
)

// Dependencies are the services and probes the HTTP layer is built on.
type Dependencies struct {
	Auth     ports.AuthService
	Users    ports.UserService
	Issues   ports.IssueService
	Comments ports.CommentService
	// Readiness maps a dependency name to its ping, e.g. "mongodb" or "redis".
	Readiness map[string]handler.Pinger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("tracker"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users)
	issueHandler := handler.NewIssueHandler(deps.Issues)
	commentHandler := handler.NewCommentHandler(deps.Comments)
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Readiness)

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")

	// --- Auth routes ---
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)

	secured := v1.Group("", middleware.Auth(jwtSecret))

	// --- Users ---
	secured.GET("/users/me", userHandler.Me)
	secured.GET("/users", userHandler.List)
	secured.GET("/users/:id", userHandler.Get)
	adminOnly := middleware.RBAC(string(domain.RoleAdmin))
	secured.POST("/users/:id/roles", userHandler.AssignRole, adminOnly)
	secured.DELETE("/users/:id/roles/:role", userHandler.RemoveRole, adminOnly)

	// --- Issues ---
	secured.POST("/issues", issueHandler.Create)
	secured.GET("/issues", issueHandler.Search)
	secured.GET("/issues/:id", issueHandler.Get)
	secured.PATCH("/issues/:id", issueHandler.Update)
	secured.DELETE("/issues/:id", issueHandler.Delete)
	secured.PATCH("/issues/:id/status", issueHandler.ChangeStatus)
	secured.PATCH("/issues/:id/assignee", issueHandler.Assign)

	// --- Watchers ---
	secured.GET("/issues/:id/watchers", issueHandler.ListWatchers)
	secured.POST("/issues/:id/watchers", issueHandler.AddWatcher)
	secured.DELETE("/issues/:id/watchers/:userId", issueHandler.RemoveWatcher)

	// --- Comments ---
	secured.POST("/issues/:id/comments", commentHandler.Add)
	secured.GET("/issues/:id/comments", commentHandler.List)
	secured.PUT("/comments/:id", commentHandler.Update)
	secured.DELETE("/comments/:id", commentHandler.Delete)

	return e
}
