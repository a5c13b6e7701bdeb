// Package api exposes the dashboard over HTTP.
package api

import (
	"github.com/gin-gonic/gin"

	"vehicle-dashboard/utils"
)

// NewRouter wires the middleware, the HTML dashboard and the /api/v1 routes.
func NewRouter(h *Handler, logger *utils.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), Tracing(), RequestLogger(logger))
	r.SetHTMLTemplate(dashboardTemplate)

	r.GET("/health", h.health)
	r.GET("/", h.dashboard)
	h.RegisterRoutes(r.Group("/api/v1"))

	return r
}
