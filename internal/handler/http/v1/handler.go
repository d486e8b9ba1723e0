package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/disaster_response_hub/internal/config"
	"github.com/shenikar/disaster_response_hub/internal/service"
)

type Handler struct {
	incidentService  service.IncidentService
	missionService   service.MissionService
	volunteerService service.VolunteerService
	inventoryService service.InventoryService
	sweeper          *service.Sweeper
	logger           *logrus.Logger
	validate         *validator.Validate
	cfg              *config.Config
}

func NewHandler(
	incidentService service.IncidentService,
	missionService service.MissionService,
	volunteerService service.VolunteerService,
	inventoryService service.InventoryService,
	sweeper *service.Sweeper,
	logger *logrus.Logger,
	cfg *config.Config,
) *Handler {
	return &Handler{
		incidentService:  incidentService,
		missionService:   missionService,
		volunteerService: volunteerService,
		inventoryService: inventoryService,
		sweeper:          sweeper,
		logger:           logger,
		validate:         validator.New(),
		cfg:              cfg,
	}
}

// runSweep запускает внеочередной проход фонового агента
func (h *Handler) runSweep(c *gin.Context) {
	log := h.logger.WithField("method", "runSweep")

	summary, err := h.sweeper.Sweep(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Manual sweep failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if summary.AlreadyRunning {
		c.JSON(http.StatusOK, gin.H{"skipped": true, "reason": "sweep already in progress"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
