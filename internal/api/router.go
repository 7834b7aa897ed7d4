package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// #region router
// RouterConfig controls middleware on the HTTP router.
type RouterConfig struct {
	CORSOrigins []string // empty allows every origin
}

// NewRouter builds a gin engine with recovery, request ids, access logs
// and CORS, and mounts the handler's routes.
func NewRouter(h *Handler, config RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), AccessLog(), cors.New(corsConfig(config.CORSOrigins)))
	h.RegisterRoutes(router)
	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept", RequestIDHeader}
	cfg.ExposeHeaders = []string{"Content-Length", RequestIDHeader}
	cfg.MaxAge = 12 * time.Hour
	return cfg
}

// #endregion router
