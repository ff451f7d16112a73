package http

import (
	"log/slog"

	"github.com/geocoder89/taskhub/internal/config"
	"github.com/geocoder89/taskhub/internal/http/handlers"
	"github.com/geocoder89/taskhub/internal/http/middlewares"
	"github.com/geocoder89/taskhub/internal/observability"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Deps is everything the router needs from the composition root.
type Deps struct {
	Config   config.Config
	Accounts interface {
		handlers.AccountService
		middlewares.UserResolver
	}
	Tasks   handlers.TaskService
	Tokens  handlers.TokenService
	Revoked interface {
		handlers.TokenRevoker
		middlewares.RevocationChecker
	}
	Prom   *observability.Prom
	Health *handlers.HealthHandler
}

func NewRouter(log *slog.Logger, d Deps) *gin.Engine {
	if d.Config.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(otelgin.Middleware("taskhub"))
	r.Use(middlewares.RequestLogger(log))
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(d.Config.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(d.Config.MaxBodyBytes))

	// health
	h := d.Health
	if h == nil {
		h = handlers.NewHealthHandler(nil)
	}
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if d.Prom != nil {
		r.GET("/metrics", gin.WrapH(d.Prom.Handler()))
	}

	gate := middlewares.NewAuthMiddleware(d.Tokens, d.Accounts, d.Revoked, d.Prom)
	limiter := middlewares.NewRateLimiter(d.Config.AuthRateLimit, d.Config.AuthRateWindow)
	jsonOnly := middlewares.RequireJSON()

	// auth
	authHandler := handlers.NewAuthHandler(d.Accounts, d.Tokens, d.Revoked)
	authGroup := r.Group("/auth")
	{
		limited := limiter.RateLimiterMiddleware(middlewares.KeyByIP)
		authGroup.POST("/register", limited, jsonOnly, authHandler.Register)
		authGroup.POST("/login", limited, jsonOnly, authHandler.Login)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.GET("/me", gate.RequireAuth(), authHandler.Me)
	}

	// tasks
	tasksHandler := handlers.NewTasksHandler(d.Tasks)
	tasks := r.Group("/tasks", gate.RequireAuth())
	{
		tasks.GET("", tasksHandler.ListTasks)
		tasks.POST("", jsonOnly, tasksHandler.CreateTask)
		tasks.GET("/:id", tasksHandler.GetTask)
		tasks.PUT("/:id", jsonOnly, tasksHandler.UpdateTask)
		tasks.DELETE("/:id", tasksHandler.DeleteTask)
	}

	return r
}
