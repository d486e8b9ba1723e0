package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Маршруты для управления инцидентами (CRUD + прием свободного текста)
	incidents := api.Group("/incidents")
	{
		incidents.POST("", h.createIncident)
		incidents.POST("/from-text", h.createIncidentFromText)
		incidents.GET("", h.listIncidents)
		incidents.GET("/:id", h.getIncident)
		incidents.PUT("/:id", h.updateIncident)
		incidents.DELETE("/:id", h.deleteIncident)
	}

	// Маршруты для управления миссиями
	missions := api.Group("/missions")
	{
		missions.POST("", h.createMission)
		missions.GET("", h.listMissions)
		missions.GET("/:id", h.getMission)
		missions.PUT("/:id", h.updateMission)
		missions.DELETE("/:id", h.deleteMission)
	}

	// Маршруты для управления волонтерами
	volunteers := api.Group("/volunteers")
	{
		volunteers.POST("", h.createVolunteer)
		volunteers.GET("", h.listVolunteers)
		volunteers.GET("/:id", h.getVolunteer)
		volunteers.PUT("/:id", h.updateVolunteer)
		volunteers.DELETE("/:id", h.deleteVolunteer)
	}

	// Маршруты для управления складом ресурсов
	inventory := api.Group("/inventory")
	{
		inventory.POST("", h.createInventoryItem)
		inventory.GET("", h.listInventory)
		inventory.GET("/:id", h.getInventoryItem)
		inventory.PUT("/:id", h.updateInventoryItem)
		inventory.DELETE("/:id", h.deleteInventoryItem)
	}

	// Внеочередной запуск фонового агента и health-check
	api.POST("/system/sweep", h.runSweep)
	api.GET("/system/health", h.healthCheck)
}
