package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// RegisterRoutes 注册全部接口。
func RegisterRoutes(e *echo.Echo, h *Handlers) {
	e.GET("/health", h.HandleHealth)

	g := e.Group("/api")
	g.GET("/sets", h.HandleSets)
	g.GET("/card-types", h.HandleCardTypes)
	g.GET("/templates", h.HandleTemplates)
	g.GET("/cache/stats", h.HandleCacheStats)
	g.POST("/generate-pdf", h.HandleGeneratePDF)
}

// SetupMiddleware 挂载错误处理与通用中间件。
func SetupMiddleware(e *echo.Echo) {
	e.HTTPErrorHandler = ErrorHandler
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
}
