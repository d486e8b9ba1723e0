package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/disaster_response_hub/internal/ai"
	"github.com/shenikar/disaster_response_hub/internal/broadcast"
	"github.com/shenikar/disaster_response_hub/internal/models"
)

// IncidentRepository определяет контракт для работы с коллекцией инцидентов
type IncidentRepository interface {
	Insert(ctx context.Context, incident *models.Incident) (*models.Incident, error)
	GetByID(ctx context.Context, id models.DocID) (*models.Incident, error)
	List(ctx context.Context) ([]*models.Incident, error)
	Update(ctx context.Context, id models.DocID, patch map[string]interface{}) (*models.Incident, error)
	Delete(ctx context.Context, id models.DocID) (*models.Incident, error)
}

// IncidentService определяет контракт бизнес-логики управления инцидентами
type IncidentService interface {
	CreateIncident(ctx context.Context, incident *models.Incident) (*models.Incident, error)
	CreateIncidentFromText(ctx context.Context, description string) (*models.Incident, error)
	GetIncident(ctx context.Context, id models.DocID) (*models.Incident, error)
	ListIncidents(ctx context.Context) ([]*models.Incident, error)
	UpdateIncident(ctx context.Context, id models.DocID, patch map[string]interface{}) (*models.Incident, error)
	DeleteIncident(ctx context.Context, id models.DocID) (*models.Incident, error)
}

type incidentService struct {
	repo        IncidentRepository
	intake      ai.IntakeParser
	agent       MissionSynthesizer
	broadcaster broadcast.Broadcaster
	logger      *logrus.Logger
}

// NewIncidentService создает сервис инцидентов
func NewIncidentService(repo IncidentRepository, intake ai.IntakeParser, agent MissionSynthesizer, broadcaster broadcast.Broadcaster, logger *logrus.Logger) IncidentService {
	return &incidentService{
		repo:        repo,
		intake:      intake,
		agent:       agent,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// CreateIncident создает инцидент
func (s *incidentService) CreateIncident(ctx context.Context, incident *models.Incident) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "CreateIncident",
		"type":    incident.Type,
	})
	log.Info("Attempting to create a new incident")

	created, err := s.repo.Insert(ctx, incident)
	if err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return nil, fmt.Errorf("service: could not create incident: %w", err)
	}

	s.broadcaster.Broadcast(broadcast.NewEvent(broadcast.EventIncidentCreated, created))

	log.WithField("incident_id", created.ID.String()).Info("Incident created successfully")
	return created, nil
}

// CreateIncidentFromText создает инцидент из свободного текста сообщения
func (s *incidentService) CreateIncidentFromText(ctx context.Context, description string) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "CreateIncidentFromText",
	})
	log.Info("Parsing incident report with AI")

	incident, err := s.intake.ParseIncidentReport(ctx, description)
	if err != nil {
		log.WithError(err).Error("Failed to parse incident report")
		return nil, fmt.Errorf("service: could not parse incident report: %w", err)
	}

	return s.CreateIncident(ctx, incident)
}

// GetIncident получает инцидент по ID
func (s *incidentService) GetIncident(ctx context.Context, id models.DocID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id.String(),
	})

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident from repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}
	return incident, nil
}

// ListIncidents возвращает все инциденты
func (s *incidentService) ListIncidents(ctx context.Context) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "ListIncidents",
	})

	incidents, err := s.repo.List(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	log.WithField("count", len(incidents)).Debug("Incidents listed successfully")
	return incidents, nil
}

// UpdateIncident применяет частичное обновление и запускает триггер
// диспетчеризации. Сбой синтеза миссий никогда не валит сам запрос
// обновления — это побочный канал.
func (s *incidentService) UpdateIncident(ctx context.Context, id models.DocID, patch map[string]interface{}) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "UpdateIncident",
		"incident_id": id.String(),
	})
	log.Info("Attempting to update incident")

	// Прежнее состояние нужно триггеру диспетчеризации. Если чтение не
	// удалось, считаем состояние отсутствующим: лучше лишний идемпотентный
	// синтез, чем молча пропущенная диспетчеризация.
	previous, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to fetch previous incident state, treating as absent")
		previous = nil
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		log.WithError(err).Error("Failed to update incident in repository")
		return nil, fmt.Errorf("service: could not update incident: %w", err)
	}

	s.broadcaster.Broadcast(broadcast.NewEvent(broadcast.EventIncidentUpdated, updated))

	missions := s.agent.OnIncidentUpdated(ctx, updated, previous)
	if len(missions) > 0 {
		log.WithField("missions", len(missions)).Info("Dispatch produced missions")
	}

	log.Info("Incident updated successfully")
	return updated, nil
}

// DeleteIncident удаляет инцидент
func (s *incidentService) DeleteIncident(ctx context.Context, id models.DocID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "DeleteIncident",
		"incident_id": id.String(),
	})
	log.Info("Attempting to delete incident")

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to delete incident in repository")
		return nil, fmt.Errorf("service: could not delete incident: %w", err)
	}

	s.broadcaster.Broadcast(broadcast.NewEvent(broadcast.EventIncidentDeleted, map[string]string{"_id": id.String()}))

	log.Info("Incident deleted successfully")
	return deleted, nil
}
