package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/disaster_response_hub/internal/broadcast"
	"github.com/shenikar/disaster_response_hub/internal/models"
)

// MissionRepository определяет контракт для работы с коллекцией миссий.
// FindByIncidentAndName и GetByID различают "нет документа" (nil, ErrNotFound
// либо nil, nil соответственно) и ошибку хранилища.
type MissionRepository interface {
	// Insert возвращает insertedId и гарантирует подтверждение записи;
	// нарушение уникальности (incident_id, name) мапится в ErrDuplicateMission
	Insert(ctx context.Context, mission *models.Mission) (string, error)
	GetByID(ctx context.Context, id string) (*models.Mission, error)
	List(ctx context.Context) ([]*models.Mission, error)
	FindByIncident(ctx context.Context, incidentID string) ([]*models.Mission, error)
	// FindByIncidentAndName возвращает (nil, nil), если миссии нет
	FindByIncidentAndName(ctx context.Context, incidentID, name string) (*models.Mission, error)
	Update(ctx context.Context, id string, patch map[string]interface{}) (*models.Mission, error)
	Delete(ctx context.Context, id string) (*models.Mission, error)
}

// MissionService определяет контракт бизнес-логики управления миссиями
type MissionService interface {
	CreateMission(ctx context.Context, mission *models.Mission) (*models.Mission, error)
	GetMission(ctx context.Context, id string) (*models.Mission, error)
	ListMissions(ctx context.Context) ([]*models.Mission, error)
	UpdateMission(ctx context.Context, id string, patch map[string]interface{}) (*models.Mission, error)
	DeleteMission(ctx context.Context, id string) (*models.Mission, error)
}

type missionService struct {
	repo        MissionRepository
	broadcaster broadcast.Broadcaster
	logger      *logrus.Logger
}

// NewMissionService создает сервис миссий
func NewMissionService(repo MissionRepository, broadcaster broadcast.Broadcaster, logger *logrus.Logger) MissionService {
	return &missionService{
		repo:        repo,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// CreateMission создает миссию вручную (вне агента)
func (s *missionService) CreateMission(ctx context.Context, mission *models.Mission) (*models.Mission, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "mission",
		"method":  "CreateMission",
		"name":    mission.Name,
	})
	log.Info("Attempting to create a new mission")

	if mission.ID == "" {
		mission.ID = GenerateMissionID()
	}
	if mission.Status == "" {
		mission.Status = models.MissionStatusPending
	}
	if mission.WorkflowStep == "" {
		mission.WorkflowStep = models.MissionWorkflowCreated
	}
	if mission.Timeline.CreatedAt.IsZero() {
		mission.Timeline.CreatedAt = time.Now().UTC()
	}

	if _, err := s.repo.Insert(ctx, mission); err != nil {
		log.WithError(err).Error("Failed to create mission in repository")
		return nil, fmt.Errorf("service: could not create mission: %w", err)
	}

	created, err := s.repo.GetByID(ctx, mission.ID)
	if err != nil {
		log.WithError(err).Error("Failed to re-read created mission")
		return nil, fmt.Errorf("service: could not re-read created mission: %w", err)
	}

	s.broadcaster.Broadcast(broadcast.NewEvent(broadcast.EventMissionCreated, created))

	log.WithField("mission_id", created.ID).Info("Mission created successfully")
	return created, nil
}

// GetMission получает миссию по ID
func (s *missionService) GetMission(ctx context.Context, id string) (*models.Mission, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "mission",
		"method":     "GetMission",
		"mission_id": id,
	})

	mission, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get mission from repository")
		return nil, fmt.Errorf("service: could not get mission: %w", err)
	}
	return mission, nil
}

// ListMissions возвращает все миссии
func (s *missionService) ListMissions(ctx context.Context) ([]*models.Mission, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "mission",
		"method":  "ListMissions",
	})

	missions, err := s.repo.List(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list missions from repository")
		return nil, fmt.Errorf("service: could not list missions: %w", err)
	}

	log.WithField("count", len(missions)).Debug("Missions listed successfully")
	return missions, nil
}

// UpdateMission применяет частичное обновление миссии
func (s *missionService) UpdateMission(ctx context.Context, id string, patch map[string]interface{}) (*models.Mission, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "mission",
		"method":     "UpdateMission",
		"mission_id": id,
	})
	log.Info("Attempting to update mission")

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		log.WithError(err).Error("Failed to update mission in repository")
		return nil, fmt.Errorf("service: could not update mission: %w", err)
	}

	s.broadcaster.Broadcast(broadcast.NewEvent(broadcast.EventMissionUpdated, updated))

	log.Info("Mission updated successfully")
	return updated, nil
}

// DeleteMission удаляет миссию
func (s *missionService) DeleteMission(ctx context.Context, id string) (*models.Mission, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "mission",
		"method":     "DeleteMission",
		"mission_id": id,
	})
	log.Info("Attempting to delete mission")

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to delete mission in repository")
		return nil, fmt.Errorf("service: could not delete mission: %w", err)
	}

	s.broadcaster.Broadcast(broadcast.NewEvent(broadcast.EventMissionDeleted, map[string]string{"_id": id}))

	log.Info("Mission deleted successfully")
	return deleted, nil
}
