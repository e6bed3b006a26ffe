package api

import (
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with all routes registered. Paths keep
// their trailing slashes; clients depend on them.
func NewRouter(a *API) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.RedirectTrailingSlash = true

	RegisterRoutes(router, a)
	return router
}

// RegisterRoutes registers all service routes on the router.
func RegisterRoutes(router *gin.Engine, a *API) {
	router.GET("/", a.RootHandler)
	router.POST("/upload/", a.UploadHandler)
	router.POST("/query/", a.QueryHandler)
	router.GET("/stats/", a.StatsHandler)
	router.DELETE("/clear/", a.ClearHandler)
	router.GET("/health/", a.HealthHandler)
}
