package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shenikar/disaster_response_hub/internal/models"
	"github.com/shenikar/disaster_response_hub/internal/service"
)

const inventoryCollection = "inventory"

// InventoryRepository — хранилище складских позиций поверх коллекции Mongo
type InventoryRepository struct {
	col *mongo.Collection
}

// NewInventoryRepository создает репозиторий склада
func NewInventoryRepository(db *mongo.Database) service.InventoryRepository {
	return &InventoryRepository{col: db.Collection(inventoryCollection)}
}

// Insert создает складскую позицию и возвращает её перечитанной из бд
func (r *InventoryRepository) Insert(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	result, err := r.col.InsertOne(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("repository: could not insert inventory item: %w", err)
	}

	created, err := r.GetByID(ctx, models.DocIDFromValue(result.InsertedID))
	if err != nil {
		return nil, fmt.Errorf("repository: could not re-read inserted inventory item: %w", err)
	}
	return created, nil
}

// GetByID находит позицию, пробуя обе формы идентификатора
func (r *InventoryRepository) GetByID(ctx context.Context, id models.DocID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.col.FindOne(ctx, id.Filter()).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("repository: inventory item %s: %w", id.String(), service.ErrNotFound)
		}
		return nil, fmt.Errorf("repository: could not get inventory item: %w", err)
	}
	return &item, nil
}

// List возвращает все складские позиции
func (r *InventoryRepository) List(ctx context.Context) ([]*models.InventoryItem, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("repository: could not list inventory: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]*models.InventoryItem, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("repository: could not decode inventory: %w", err)
	}
	return items, nil
}

// Update применяет $set-патч и возвращает обновленный документ
func (r *InventoryRepository) Update(ctx context.Context, id models.DocID, patch map[string]interface{}) (*models.InventoryItem, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.InventoryItem
	err := r.col.FindOneAndUpdate(ctx, id.Filter(), bson.M{"$set": bson.M(patch)}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("repository: inventory item %s: %w", id.String(), service.ErrNotFound)
		}
		return nil, fmt.Errorf("repository: could not update inventory item: %w", err)
	}
	return &updated, nil
}

// Delete удаляет позицию и возвращает удаленный документ
func (r *InventoryRepository) Delete(ctx context.Context, id models.DocID) (*models.InventoryItem, error) {
	var deleted models.InventoryItem
	err := r.col.FindOneAndDelete(ctx, id.Filter()).Decode(&deleted)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("repository: inventory item %s: %w", id.String(), service.ErrNotFound)
		}
		return nil, fmt.Errorf("repository: could not delete inventory item: %w", err)
	}
	return &deleted, nil
}
