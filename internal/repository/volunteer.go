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

const volunteerCollection = "volunteer"

// VolunteerRepository — хранилище волонтеров поверх коллекции Mongo
type VolunteerRepository struct {
	col *mongo.Collection
}

// NewVolunteerRepository создает репозиторий волонтеров
func NewVolunteerRepository(db *mongo.Database) service.VolunteerRepository {
	return &VolunteerRepository{col: db.Collection(volunteerCollection)}
}

// Insert создает запись о волонтере и возвращает её перечитанной из бд
func (r *VolunteerRepository) Insert(ctx context.Context, volunteer *models.Volunteer) (*models.Volunteer, error) {
	result, err := r.col.InsertOne(ctx, volunteer)
	if err != nil {
		return nil, fmt.Errorf("repository: could not insert volunteer: %w", err)
	}

	created, err := r.GetByID(ctx, models.DocIDFromValue(result.InsertedID))
	if err != nil {
		return nil, fmt.Errorf("repository: could not re-read inserted volunteer: %w", err)
	}
	return created, nil
}

// GetByID находит волонтера, пробуя обе формы идентификатора
func (r *VolunteerRepository) GetByID(ctx context.Context, id models.DocID) (*models.Volunteer, error) {
	var volunteer models.Volunteer
	err := r.col.FindOne(ctx, id.Filter()).Decode(&volunteer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("repository: volunteer %s: %w", id.String(), service.ErrNotFound)
		}
		return nil, fmt.Errorf("repository: could not get volunteer: %w", err)
	}
	return &volunteer, nil
}

// List возвращает всех волонтеров
func (r *VolunteerRepository) List(ctx context.Context) ([]*models.Volunteer, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("repository: could not list volunteers: %w", err)
	}
	defer cursor.Close(ctx)

	volunteers := make([]*models.Volunteer, 0)
	if err := cursor.All(ctx, &volunteers); err != nil {
		return nil, fmt.Errorf("repository: could not decode volunteers: %w", err)
	}
	return volunteers, nil
}

// Update применяет $set-патч и возвращает обновленный документ
func (r *VolunteerRepository) Update(ctx context.Context, id models.DocID, patch map[string]interface{}) (*models.Volunteer, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Volunteer
	err := r.col.FindOneAndUpdate(ctx, id.Filter(), bson.M{"$set": bson.M(patch)}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("repository: volunteer %s: %w", id.String(), service.ErrNotFound)
		}
		return nil, fmt.Errorf("repository: could not update volunteer: %w", err)
	}
	return &updated, nil
}

// Delete удаляет волонтера и возвращает удаленный документ
func (r *VolunteerRepository) Delete(ctx context.Context, id models.DocID) (*models.Volunteer, error) {
	var deleted models.Volunteer
	err := r.col.FindOneAndDelete(ctx, id.Filter()).Decode(&deleted)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("repository: volunteer %s: %w", id.String(), service.ErrNotFound)
		}
		return nil, fmt.Errorf("repository: could not delete volunteer: %w", err)
	}
	return &deleted, nil
}
