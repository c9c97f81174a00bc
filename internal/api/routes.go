package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"eduport/internal/api/controllers"
	"eduport/internal/api/middleware"
	"eduport/internal/backend"
	"eduport/internal/models"
	"eduport/internal/resource"
)

func (s *Server) registerRoutes() {
	s.echo.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Hello, World!")
	})
	s.echo.GET("/health", s.healthCheck)

	catalog := models.Catalog()
	client := backend.NewGormClient(s.db)
	notify := resource.LogNotifier{Log: log}

	resourceController := controllers.NewResourceController(client, catalog, notify)
	publicController := controllers.NewPublicController(client, catalog)
	authController := controllers.NewAuthController(s.db)

	base := s.echo.Group("/api/v1")

	// Public auth routes
	base.POST("/auth/login", authController.Login)

	// Admin surface: one uniform CRUD contract per catalog resource
	auth := middleware.NewAuthMiddleware(s.config.JWT.Secret)
	admin := base.Group("/admin")
	admin.Use(auth.Middleware())

	admin.GET("/me", authController.Me)
	admin.GET("/:resource", resourceController.List)
	admin.GET("/:resource/export", resourceController.Export)
	admin.GET("/:resource/:id", resourceController.Get)
	admin.POST("/:resource", resourceController.Create)
	admin.PUT("/:resource/:id", resourceController.Update)
	admin.DELETE("/:resource/:id", resourceController.Delete)
	admin.POST("/:resource/:id/move", resourceController.Move)
	admin.PATCH("/:resource/:id/flag", resourceController.Flag)
	admin.POST("/:resource/bulk", resourceController.Bulk)

	// Public read-only projection for the marketing site
	base.GET("/:resource", publicController.List)
	base.GET("/:resource/:id", publicController.Get)
}
