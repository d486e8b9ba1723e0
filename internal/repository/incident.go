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

const incidentCollection = "incident"

// IncidentRepository — хранилище инцидентов поверх коллекции Mongo
type IncidentRepository struct {
	col *mongo.Collection
}

// NewIncidentRepository создает репозиторий инцидентов
func NewIncidentRepository(db *mongo.Database) service.IncidentRepository {
	return &IncidentRepository{col: db.Collection(incidentCollection)}
}

// Insert создает новую запись об инциденте и возвращает её перечитанной из бд
func (r *IncidentRepository) Insert(ctx context.Context, incident *models.Incident) (*models.Incident, error) {
	result, err := r.col.InsertOne(ctx, incident)
	if err != nil {
		return nil, fmt.Errorf("repository: could not insert incident: %w", err)
	}

	id := models.DocIDFromValue(result.InsertedID)
	created, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("repository: could not re-read inserted incident: %w", err)
	}
	return created, nil
}

// GetByID находит инцидент, пробуя обе формы идентификатора
func (r *IncidentRepository) GetByID(ctx context.Context, id models.DocID) (*models.Incident, error) {
	var incident models.Incident
	err := r.col.FindOne(ctx, id.Filter()).Decode(&incident)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("repository: incident %s: %w", id.String(), service.ErrNotFound)
		}
		return nil, fmt.Errorf("repository: could not get incident: %w", err)
	}
	return &incident, nil
}

// List возвращает все инциденты в порядке итерации хранилища
func (r *IncidentRepository) List(ctx context.Context) ([]*models.Incident, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("repository: could not list incidents: %w", err)
	}
	defer cursor.Close(ctx)

	incidents := make([]*models.Incident, 0)
	if err := cursor.All(ctx, &incidents); err != nil {
		return nil, fmt.Errorf("repository: could not decode incidents: %w", err)
	}
	return incidents, nil
}

// Update применяет $set-патч и возвращает обновленный документ
func (r *IncidentRepository) Update(ctx context.Context, id models.DocID, patch map[string]interface{}) (*models.Incident, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Incident
	err := r.col.FindOneAndUpdate(ctx, id.Filter(), bson.M{"$set": bson.M(patch)}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("repository: incident %s: %w", id.String(), service.ErrNotFound)
		}
		return nil, fmt.Errorf("repository: could not update incident: %w", err)
	}
	return &updated, nil
}

// Delete удаляет инцидент и возвращает удаленный документ
func (r *IncidentRepository) Delete(ctx context.Context, id models.DocID) (*models.Incident, error) {
	var deleted models.Incident
	err := r.col.FindOneAndDelete(ctx, id.Filter()).Decode(&deleted)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("repository: incident %s: %w", id.String(), service.ErrNotFound)
		}
		return nil, fmt.Errorf("repository: could not delete incident: %w", err)
	}
	return &deleted, nil
}
