package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shenikar/disaster_response_hub/internal/models"
	"github.com/shenikar/disaster_response_hub/internal/service"
)

func (h *Handler) createVolunteer(c *gin.Context) {
	var input CreateVolunteerRequest
	log := h.logger.WithField("method", "createVolunteer")

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

	created, err := h.volunteerService.CreateVolunteer(c.Request.Context(), DTOToVolunteerModel(input))
	if err != nil {
		log.WithError(err).Error("Failed to create volunteer in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) listVolunteers(c *gin.Context) {
	log := h.logger.WithField("method", "listVolunteers")

	volunteers, err := h.volunteerService.ListVolunteers(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list volunteers from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, volunteers)
}

func (h *Handler) getVolunteer(c *gin.Context) {
	id := models.ParseDocID(c.Param("id"))
	log := h.logger.WithField("method", "getVolunteer").WithField("id", id.String())

	volunteer, err := h.volunteerService.GetVolunteer(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "volunteer not found"})
			return
		}
		log.WithError(err).Error("Failed to get volunteer from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, volunteer)
}

func (h *Handler) updateVolunteer(c *gin.Context) {
	id := models.ParseDocID(c.Param("id"))
	log := h.logger.WithField("method", "updateVolunteer").WithField("id", id.String())

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

	updated, err := h.volunteerService.UpdateVolunteer(c.Request.Context(), id, sanitizePatch(patch))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "volunteer not found"})
			return
		}
		log.WithError(err).Error("Failed to update volunteer in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteVolunteer(c *gin.Context) {
	id := models.ParseDocID(c.Param("id"))
	log := h.logger.WithField("method", "deleteVolunteer").WithField("id", id.String())

	deleted, err := h.volunteerService.DeleteVolunteer(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "volunteer not found"})
			return
		}
		log.WithError(err).Error("Failed to delete volunteer in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, deleted)
}
