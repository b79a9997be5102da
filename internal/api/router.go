package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/wperaltaarriaga/songs-api/docs"
	"github.com/wperaltaarriaga/songs-api/internal/api/handler"
	"github.com/wperaltaarriaga/songs-api/internal/api/metrics"
	"github.com/wperaltaarriaga/songs-api/internal/api/middleware"
	"github.com/wperaltaarriaga/songs-api/internal/core/domain"
	"github.com/wperaltaarriaga/songs-api/internal/core/ports"
	"github.com/wperaltaarriaga/songs-api/internal/core/service"
)

// Deps carries everything the router needs. Repositories and the report
// cache are interfaces so tests can swap in in-memory implementations;
// MongoDB/Redis handles are only used by the readiness probe and may be nil.
type Deps struct {
	UserRepo       ports.UserRepository
	SongRepo       ports.SongRepository
	Tokens         *service.TokenService
	Cache          ports.ReportCache
	BlockedDomains []string
	MongoDB        *mongo.Database
	Redis          *redis.Client
	Registry       *prometheus.Registry // nil disables HTTP metrics
	Logger         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	if deps.Registry != nil {
		metrics.Register(deps.Registry)
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  "songsapi",
			Registerer: deps.Registry,
		}))
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: deps.Registry,
		}))
	}

	// --- Dependencies ---
	userService := service.NewUserService(deps.UserRepo, deps.Tokens, deps.Cache, deps.BlockedDomains, deps.Logger)
	songService := service.NewSongService(deps.SongRepo, deps.Logger)
	userHandler := handler.NewUserHandler(userService)
	songHandler := handler.NewSongHandler(songService)
	healthHandler := handler.NewHealthHandler(deps.MongoDB, deps.Redis)

	auth := middleware.Authenticate(deps.Tokens)

	// --- Users ---
	users := e.Group("/api/users")
	users.POST("/create", userHandler.Create)
	users.POST("/login", userHandler.Login)
	users.GET("/all", userHandler.List, auth)
	users.GET("/user/:id", userHandler.Get, auth)
	users.PATCH("/update", userHandler.Update, auth) // body-addressed; ownership checked in handler
	users.DELETE("/delete/:id", userHandler.Delete, auth, middleware.RequireOwnerOrAdmin())
	users.PATCH("/status/:id", userHandler.UpdateStatus, auth, middleware.RequireRole(domain.RoleAdmin))
	users.GET("/export/users", userHandler.Export, auth)
	users.GET("/indicators/users", userHandler.Indicators, auth)

	// --- Songs ---
	songs := e.Group("/api/songs")
	songs.GET("/all", songHandler.List, auth)
	songs.GET("/song/:id", songHandler.Get, auth)
	songs.POST("/create", songHandler.Create, auth)
	songs.PATCH("/update", songHandler.Update, auth, middleware.RequireSongOwner(deps.SongRepo))
	songs.DELETE("/delete/:id", songHandler.Delete, auth, middleware.RequireSongOwnerOrAdmin(deps.SongRepo))
	songs.GET("/report/songs-by-author", songHandler.ReportByAuthor, auth)

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	// --- API docs ---
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// Unmatched routes answer in plain text naming the path.
	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.String(http.StatusNotFound, "endpoint not available: "+c.Request().URL.Path)
	})

	return e
}
