package routes

import (
	"usuariosapi/internal/adapter/http/handler"
	"usuariosapi/internal/adapter/http/middleware"
	"usuariosapi/pkg/middlewares"

	. "usuariosapi/pkg/config"
	. "usuariosapi/pkg/tracing"

	"github.com/gin-gonic/gin"
)

type HandlersConfig struct {
	UsuarioHandler *handler.UsuarioHandler
}

func SetupRouter(handlers HandlersConfig, metrics *AppMetrics, logger *LokiLogger) *gin.Engine {
	return SetupRouterWithConfig(handlers, metrics, logger, GetDefaultConfig())
}

func SetupRouterWithConfig(handlers HandlersConfig, metrics *AppMetrics, logger *LokiLogger, config *AppConfig) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	middlewares.SetupGinMiddlewareWithConfig(router, "usuariosapi", metrics, logger, config)

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	if handlers.UsuarioHandler != nil {
		setupUsuarioRoutes(router, handlers.UsuarioHandler)
	}

	return router
}

func setupUsuarioRoutes(router *gin.Engine, usuarioHandler *handler.UsuarioHandler) {
	usuarios := router.Group("/")
	usuarios.Use(middleware.CurrentMiddleware())
	{
		usuarios.POST("/usuarios", usuarioHandler.Create)
		usuarios.GET("/usuarios", usuarioHandler.FindAll)
		usuarios.GET("/usuarios/:id", usuarioHandler.FindForUpdate)
		usuarios.DELETE("/usuarios/:id", usuarioHandler.Delete)
		usuarios.PUT("/usuarios", usuarioHandler.Update)
		usuarios.PATCH("/usuarios/name", usuarioHandler.UpdateName)
		usuarios.PATCH("/usuarios/birthDate", usuarioHandler.UpdateBirthDate)
		usuarios.PATCH("/usuarios/document", usuarioHandler.UpdateDocument)
		usuarios.PATCH("/usuarios/address", usuarioHandler.UpdateAddress)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func SetupRouterForTests(handlers HandlersConfig) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	if handlers.UsuarioHandler != nil {
		setupUsuarioRoutes(router, handlers.UsuarioHandler)
	}

	return router
}
