package http

import (
	"context"
	stdhttp "net/http"

	"image-service/internal/auth"
	"image-service/internal/config"
	"image-service/internal/http/handler"
	"image-service/internal/http/middleware"
	"image-service/internal/policy"
	"image-service/internal/repository/postgres"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

const (
	jsonKeyStatus    = "status"
	statusOK         = "ok"
	requestBodyLimit = "25M"
)

type ServerDependencies struct {
	Config         *config.Config
	PlanRepo       *postgres.PlanRepository
	AccountRepo    *postgres.AccountRepository
	ImageRepo      *postgres.ImageRepository
	BlobStore      handler.BlobStore
	Thumbnails     handler.ThumbnailRenderer
	LinkSigner     handler.LinkSigner
	JWTService     *auth.JWTService
	AuthMiddleware *auth.Middleware
	AuditLogger    handler.AuditLogger
}

type Server struct {
	echo *echo.Echo
	deps *ServerDependencies
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Set custom HTTP error handler
	e.HTTPErrorHandler = CustomHTTPErrorHandler

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	// Request ID middleware (first, so all logs have request ID)
	e.Use(middleware.RequestID())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit(requestBodyLimit))

	// Global rate limiting
	globalRateLimiter := middleware.NewGlobalRateLimiter()
	e.Use(globalRateLimiter.Middleware())

	// Strict rate limiting for auth endpoints and anonymous link redemption
	strictRateLimiter := middleware.NewStrictRateLimiter()

	evaluator := policy.NewEvaluator()
	baseURL := deps.Config.Links.PublicBaseURL

	authHandler := handler.NewAuthHandler(deps.AccountRepo, deps.JWTService, deps.AuditLogger)
	imageHandler := handler.NewImageHandler(deps.ImageRepo, deps.AccountRepo, deps.PlanRepo, deps.BlobStore, evaluator, baseURL, deps.Config.App.MaxUploadSize, deps.Config.App.PageSize, deps.AuditLogger)
	thumbnailHandler := handler.NewThumbnailHandler(deps.ImageRepo, deps.AccountRepo, deps.PlanRepo, deps.BlobStore, deps.Thumbnails, evaluator, deps.AuditLogger)
	linkHandler := handler.NewLinkHandler(deps.ImageRepo, deps.AccountRepo, deps.PlanRepo, deps.BlobStore, deps.LinkSigner, evaluator, baseURL, deps.AuditLogger)

	// Auth endpoints with strict rate limiting
	e.POST("/auth/signup", authHandler.Signup, strictRateLimiter.Middleware())
	e.POST("/auth/login", authHandler.Login, strictRateLimiter.Middleware())

	// Expiring links are redeemed without authentication
	e.GET("/images/:uuid/link/:expiry", linkHandler.RedeemLink, strictRateLimiter.Middleware())
	e.GET("/health", healthCheck)

	api := e.Group("/api")
	api.Use(deps.AuthMiddleware.RequireJWT())

	api.GET("/images", imageHandler.ListImages)
	api.POST("/images", imageHandler.UploadImage)
	api.GET("/images/:uuid", imageHandler.GetImage)
	api.PATCH("/images/:uuid", imageHandler.UpdateImage)
	api.DELETE("/images/:uuid", imageHandler.DeleteImage)
	api.GET("/images/:uuid/original", imageHandler.GetOriginal)
	api.GET("/images/:uuid/generate-link/:expiry", linkHandler.GenerateLink)
	api.GET("/images/:uuid/:height", thumbnailHandler.GetThumbnail)

	return &Server{
		echo: e,
		deps: deps,
	}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func healthCheck(c echo.Context) error {
	return c.JSON(stdhttp.StatusOK, map[string]string{
		jsonKeyStatus: statusOK,
	})
}
