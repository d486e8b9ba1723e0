package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/disaster_response_hub/internal/broadcast"
	"github.com/shenikar/disaster_response_hub/internal/models"
)

// InventoryRepository определяет контракт для работы с коллекцией ресурсов
type InventoryRepository interface {
	Insert(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	GetByID(ctx context.Context, id models.DocID) (*models.InventoryItem, error)
	List(ctx context.Context) ([]*models.InventoryItem, error)
	Update(ctx context.Context, id models.DocID, patch map[string]interface{}) (*models.InventoryItem, error)
	Delete(ctx context.Context, id models.DocID) (*models.InventoryItem, error)
}

// InventoryService определяет контракт бизнес-логики управления складом
type InventoryService interface {
	CreateItem(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	GetItem(ctx context.Context, id models.DocID) (*models.InventoryItem, error)
	ListItems(ctx context.Context) ([]*models.InventoryItem, error)
	UpdateItem(ctx context.Context, id models.DocID, patch map[string]interface{}) (*models.InventoryItem, error)
	DeleteItem(ctx context.Context, id models.DocID) (*models.InventoryItem, error)
}

type inventoryService struct {
	repo        InventoryRepository
	broadcaster broadcast.Broadcaster
	logger      *logrus.Logger
}

// NewInventoryService создает сервис склада
func NewInventoryService(repo InventoryRepository, broadcaster broadcast.Broadcaster, logger *logrus.Logger) InventoryService {
	return &inventoryService{repo: repo, broadcaster: broadcaster, logger: logger}
}

func (s *inventoryService) CreateItem(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	created, err := s.repo.Insert(ctx, item)
	if err != nil {
		s.logger.WithError(err).Error("Failed to create inventory item in repository")
		return nil, fmt.Errorf("service: could not create inventory item: %w", err)
	}

	s.broadcaster.Broadcast(broadcast.NewEvent(broadcast.EventInventoryCreated, created))
	return created, nil
}

func (s *inventoryService) GetItem(ctx context.Context, id models.DocID) (*models.InventoryItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not get inventory item: %w", err)
	}
	return item, nil
}

func (s *inventoryService) ListItems(ctx context.Context) ([]*models.InventoryItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: could not list inventory items: %w", err)
	}
	return items, nil
}

func (s *inventoryService) UpdateItem(ctx context.Context, id models.DocID, patch map[string]interface{}) (*models.InventoryItem, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "inventory",
		"method":  "UpdateItem",
		"item_id": id.String(),
	})

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		log.WithError(err).Error("Failed to update inventory item in repository")
		return nil, fmt.Errorf("service: could not update inventory item: %w", err)
	}

	s.broadcaster.Broadcast(broadcast.NewEvent(broadcast.EventInventoryUpdated, updated))
	return updated, nil
}

func (s *inventoryService) DeleteItem(ctx context.Context, id models.DocID) (*models.InventoryItem, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not delete inventory item: %w", err)
	}

	s.broadcaster.Broadcast(broadcast.NewEvent(broadcast.EventInventoryDeleted, map[string]string{"_id": id.String()}))
	return deleted, nil
}
