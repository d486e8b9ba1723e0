package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shenikar/disaster_response_hub/internal/models"
	"github.com/shenikar/disaster_response_hub/internal/service"
)

func (h *Handler) createInventoryItem(c *gin.Context) {
	var input CreateInventoryItemRequest
	log := h.logger.WithField("method", "createInventoryItem")

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

	created, err := h.inventoryService.CreateItem(c.Request.Context(), DTOToInventoryModel(input))
	if err != nil {
		log.WithError(err).Error("Failed to create inventory item in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) listInventory(c *gin.Context) {
	log := h.logger.WithField("method", "listInventory")

	items, err := h.inventoryService.ListItems(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list inventory from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) getInventoryItem(c *gin.Context) {
	id := models.ParseDocID(c.Param("id"))
	log := h.logger.WithField("method", "getInventoryItem").WithField("id", id.String())

	item, err := h.inventoryService.GetItem(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "inventory item not found"})
			return
		}
		log.WithError(err).Error("Failed to get inventory item from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) updateInventoryItem(c *gin.Context) {
	id := models.ParseDocID(c.Param("id"))
	log := h.logger.WithField("method", "updateInventoryItem").WithField("id", id.String())

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

	updated, err := h.inventoryService.UpdateItem(c.Request.Context(), id, sanitizePatch(patch))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "inventory item not found"})
			return
		}
		log.WithError(err).Error("Failed to update inventory item in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteInventoryItem(c *gin.Context) {
	id := models.ParseDocID(c.Param("id"))
	log := h.logger.WithField("method", "deleteInventoryItem").WithField("id", id.String())

	deleted, err := h.inventoryService.DeleteItem(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "inventory item not found"})
			return
		}
		log.WithError(err).Error("Failed to delete inventory item in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, deleted)
}
