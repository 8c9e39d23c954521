package handlers

import (
	"net/http"
	"time"

	_ "irrigation_console/docs"
	"irrigation_console/internal/logger"
	"irrigation_console/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const defaultStreamInterval = time.Second

// Handler wires the local gateway to services and logging.
type Handler struct {
	services       *service.Service
	log            *logger.Logger
	streamInterval time.Duration
	allowedOrigins []string
}

// NewHandler constructs a new HTTP handler with dependencies. A non-positive
// streamInterval uses the default of 1s.
func NewHandler(services *service.Service, log *logger.Logger, streamInterval time.Duration) *Handler {
	if streamInterval <= 0 || streamInterval > maxInterval {
		streamInterval = defaultStreamInterval
	}
	return &Handler{services: services, log: log, streamInterval: streamInterval}
}

// AllowOrigins enables CORS for the given browser origins.
func (h *Handler) AllowOrigins(origins ...string) *Handler {
	h.allowedOrigins = origins
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if len(h.allowedOrigins) > 0 {
		router.Use(corsMiddleware(h.allowedOrigins))
	}
	router.Use(h.requestIDMiddleware)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerSessionRoutes(router)
	h.registerAPIRoutes(router)

	// Dashboard stream (HTTP upgrade) on the same port
	router.GET("/ws", h.sessionMiddleware, h.wsConnect)

	return router
}

func (h *Handler) registerSessionRoutes(r *gin.Engine) {
	session := r.Group("/session")
	{
		session.GET("", h.getSession)
		session.POST("/login", h.login)
		session.POST("/logout", h.logout)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.sessionMiddleware)
	{
		api.GET("/dashboard", h.getDashboard)
		api.GET("/logs", h.getLogs)
		api.GET("/forecast", h.getForecast)
		api.GET("/location", h.getLocation)
		api.POST("/location", h.saveLocation)
		api.POST("/irrigate", h.irrigate)
		api.POST("/plan/recompute", h.recomputePlan)
		api.POST("/password", h.changePassword)

		h.registerAdminRoutes(api)
	}
}

func (h *Handler) registerAdminRoutes(api *gin.RouterGroup) {
	admin := api.Group("/admin", h.adminMiddleware)
	{
		admin.GET("/users", h.listUsers)
		admin.POST("/users", h.createUser)
		admin.DELETE("/users/:id", h.deleteUser)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}
