package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shenikar/disaster_response_hub/internal/models"
	"github.com/shenikar/disaster_response_hub/internal/service"
)

func (h *Handler) createIncident(c *gin.Context) {
	var input CreateIncidentRequest
	log := h.logger.WithField("method", "createIncident")

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

	created, err := h.incidentService.CreateIncident(c.Request.Context(), DTOToIncidentModel(input))
	if err != nil {
		log.WithError(err).Error("Failed to create incident in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// createIncidentFromText принимает свободный текст сообщения и превращает его
// в структурированный инцидент через текстовую модель
func (h *Handler) createIncidentFromText(c *gin.Context) {
	var input CreateIncidentFromTextRequest
	log := h.logger.WithField("method", "createIncidentFromText")

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

	created, err := h.incidentService.CreateIncidentFromText(c.Request.Context(), input.Description)
	if err != nil {
		log.WithError(err).Error("Failed to create incident from text")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")

	incidents, err := h.incidentService.ListIncidents(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, incidents)
}

func (h *Handler) getIncident(c *gin.Context) {
	id := models.ParseDocID(c.Param("id"))
	log := h.logger.WithField("method", "getIncident").WithField("id", id.String())

	incident, err := h.incidentService.GetIncident(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
			return
		}
		log.WithError(err).Error("Failed to get incident from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, incident)
}

// updateIncident применяет частичный патч. Побочный эффект — триггер
// диспетчеризации миссий при переходе dispatched false -> true.
func (h *Handler) updateIncident(c *gin.Context) {
	id := models.ParseDocID(c.Param("id"))
	log := h.logger.WithField("method", "updateIncident").WithField("id", id.String())

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

	updated, err := h.incidentService.UpdateIncident(c.Request.Context(), id, sanitizePatch(patch))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
			return
		}
		log.WithError(err).Error("Failed to update incident in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteIncident(c *gin.Context) {
	id := models.ParseDocID(c.Param("id"))
	log := h.logger.WithField("method", "deleteIncident").WithField("id", id.String())

	deleted, err := h.incidentService.DeleteIncident(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
			return
		}
		log.WithError(err).Error("Failed to delete incident in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, deleted)
}
