package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/kien-ship-it/event-matcher-sub000/handlers"
)

// RegisterSlotRoutes registers the availability-slot editing endpoints.
func RegisterSlotRoutes(r *gin.Engine, sh *handlers.SlotHandler) {
	api := r.Group("/api/slots")
	{
		api.POST("", sh.CreateSlotHandler)
		api.PUT("/:id", sh.UpdateSlotHandler)
		api.DELETE("/:id", sh.DeleteSlotHandler)
		api.GET("/participant/:participantId", sh.ListSlotsHandler)
	}
}

// RegisterScheduleRoutes registers expansion, heat-map, and export
// endpoints.
func RegisterScheduleRoutes(r *gin.Engine, sch *handlers.ScheduleHandler) {
	api := r.Group("/api/schedule")
	{
		api.GET("/instances", sch.GetInstancesHandler)
		api.POST("/heatmap", sch.HeatmapHandler)
		api.GET("/export.csv", sch.ExportCSVHandler)
		api.GET("/export.ics", sch.ExportICSHandler)
	}
}

// RegisterHealthRoute registers the liveness endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, sh *handlers.SlotHandler, sch *handlers.ScheduleHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterSlotRoutes(r, sh)
	RegisterScheduleRoutes(r, sch)
}
