package handlers

import (
	portssvc "github.com/MessaoudiOussama/fx-pipeline/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(r *gin.Engine, reportingService portssvc.ReportingSvc) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	v1 := r.Group("/api/v1")
	registerReportingRoutes(v1, reportingService)
}
