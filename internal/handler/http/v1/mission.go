package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shenikar/disaster_response_hub/internal/service"
)

func (h *Handler) createMission(c *gin.Context) {
	var input CreateMissionRequest
	log := h.logger.WithField("method", "createMission")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.missionService.CreateMission(c.Request.Context(), DTOToMissionModel(input))
	if err != nil {
		if errors.Is(err, service.ErrDuplicateMission) {
			c.JSON(http.StatusConflict, gin.H{"error": "mission already exists for this incident"})
			return
		}
		log.WithError(err).Error("Failed to create mission in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) listMissions(c *gin.Context) {
	log := h.logger.WithField("method", "listMissions")

	missions, err := h.missionService.ListMissions(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list missions from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, missions)
}

func (h *Handler) getMission(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "getMission").WithField("id", id)

	mission, err := h.missionService.GetMission(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "mission not found"})
			return
		}
		log.WithError(err).Error("Failed to get mission from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, mission)
}

func (h *Handler) updateMission(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "updateMission").WithField("id", id)

	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if len(patch) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty patch"})
		return
	}

	updated, err := h.missionService.UpdateMission(c.Request.Context(), id, sanitizePatch(patch))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "mission not found"})
			return
		}
		log.WithError(err).Error("Failed to update mission in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteMission(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "deleteMission").WithField("id", id)

	deleted, err := h.missionService.DeleteMission(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "mission not found"})
			return
		}
		log.WithError(err).Error("Failed to delete mission in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, deleted)
}
