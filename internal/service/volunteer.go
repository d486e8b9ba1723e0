package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/disaster_response_hub/internal/broadcast"
	"github.com/shenikar/disaster_response_hub/internal/models"
)

// VolunteerRepository определяет контракт для работы с коллекцией волонтеров
type VolunteerRepository interface {
	Insert(ctx context.Context, volunteer *models.Volunteer) (*models.Volunteer, error)
	GetByID(ctx context.Context, id models.DocID) (*models.Volunteer, error)
	List(ctx context.Context) ([]*models.Volunteer, error)
	Update(ctx context.Context, id models.DocID, patch map[string]interface{}) (*models.Volunteer, error)
	Delete(ctx context.Context, id models.DocID) (*models.Volunteer, error)
}

// VolunteerService определяет контракт бизнес-логики управления волонтерами
type VolunteerService interface {
	CreateVolunteer(ctx context.Context, volunteer *models.Volunteer) (*models.Volunteer, error)
	GetVolunteer(ctx context.Context, id models.DocID) (*models.Volunteer, error)
	ListVolunteers(ctx context.Context) ([]*models.Volunteer, error)
	UpdateVolunteer(ctx context.Context, id models.DocID, patch map[string]interface{}) (*models.Volunteer, error)
	DeleteVolunteer(ctx context.Context, id models.DocID) (*models.Volunteer, error)
}

type volunteerService struct {
	repo        VolunteerRepository
	broadcaster broadcast.Broadcaster
	logger      *logrus.Logger
}

// NewVolunteerService создает сервис волонтеров
func NewVolunteerService(repo VolunteerRepository, broadcaster broadcast.Broadcaster, logger *logrus.Logger) VolunteerService {
	return &volunteerService{repo: repo, broadcaster: broadcaster, logger: logger}
}

func (s *volunteerService) CreateVolunteer(ctx context.Context, volunteer *models.Volunteer) (*models.Volunteer, error) {
	log := s.logger.WithFields(logrus.Fields{"service": "volunteer", "method": "CreateVolunteer"})

	if volunteer.Status == "" {
		volunteer.Status = models.VolunteerStatusIdle
	}

	created, err := s.repo.Insert(ctx, volunteer)
	if err != nil {
		log.WithError(err).Error("Failed to create volunteer in repository")
		return nil, fmt.Errorf("service: could not create volunteer: %w", err)
	}

	s.broadcaster.Broadcast(broadcast.NewEvent(broadcast.EventVolunteerCreated, created))
	return created, nil
}

func (s *volunteerService) GetVolunteer(ctx context.Context, id models.DocID) (*models.Volunteer, error) {
	volunteer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not get volunteer: %w", err)
	}
	return volunteer, nil
}

func (s *volunteerService) ListVolunteers(ctx context.Context) ([]*models.Volunteer, error) {
	volunteers, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: could not list volunteers: %w", err)
	}
	return volunteers, nil
}

func (s *volunteerService) UpdateVolunteer(ctx context.Context, id models.DocID, patch map[string]interface{}) (*models.Volunteer, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "volunteer",
		"method":       "UpdateVolunteer",
		"volunteer_id": id.String(),
	})

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		log.WithError(err).Error("Failed to update volunteer in repository")
		return nil, fmt.Errorf("service: could not update volunteer: %w", err)
	}

	s.broadcaster.Broadcast(broadcast.NewEvent(broadcast.EventVolunteerUpdated, updated))
	return updated, nil
}

func (s *volunteerService) DeleteVolunteer(ctx context.Context, id models.DocID) (*models.Volunteer, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not delete volunteer: %w", err)
	}

	s.broadcaster.Broadcast(broadcast.NewEvent(broadcast.EventVolunteerDeleted, map[string]string{"_id": id.String()}))
	return deleted, nil
}
