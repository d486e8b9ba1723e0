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

const missionCollection = "mission"

// MissionRepository — хранилище миссий поверх коллекции Mongo.
// Идентификаторы миссий всегда строковые, поэтому дуальная форма _id
// здесь не нужна.
type MissionRepository struct {
	col *mongo.Collection
}

// NewMissionRepository создает репозиторий миссий
func NewMissionRepository(db *mongo.Database) *MissionRepository {
	return &MissionRepository{col: db.Collection(missionCollection)}
}

// EnsureIndexes создает уникальный индекс (incident_id, name), который
// закрывает гонку конкурирующих синтезов одной и той же миссии
func (r *MissionRepository) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys: bson.D{
			{Key: "incident_id", Value: 1},
			{Key: "name", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("uniq_incident_mission_name"),
	}

	if _, err := r.col.Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("repository: could not create mission indexes: %w", err)
	}
	return nil
}

// Insert вставляет миссию и возвращает подтвержденный insertedId.
// Нарушение уникальности (incident_id, name) мапится в ErrDuplicateMission.
func (r *MissionRepository) Insert(ctx context.Context, mission *models.Mission) (string, error) {
	result, err := r.col.InsertOne(ctx, mission)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("repository: mission %q for incident %s: %w", mission.Name, mission.IncidentID, service.ErrDuplicateMission)
		}
		return "", fmt.Errorf("repository: could not insert mission: %w", err)
	}

	insertedID, ok := result.InsertedID.(string)
	if !ok || insertedID == "" {
		return "", fmt.Errorf("repository: mission insert: %w", service.ErrInsertNotAcknowledged)
	}
	return insertedID, nil
}

// GetByID находит миссию по строковому идентификатору
func (r *MissionRepository) GetByID(ctx context.Context, id string) (*models.Mission, error) {
	var mission models.Mission
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&mission)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("repository: mission %s: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("repository: could not get mission: %w", err)
	}
	return &mission, nil
}

// List возвращает все миссии
func (r *MissionRepository) List(ctx context.Context) ([]*models.Mission, error) {
	return r.find(ctx, bson.M{})
}

// FindByIncident возвращает все миссии, порожденные инцидентом
func (r *MissionRepository) FindByIncident(ctx context.Context, incidentID string) ([]*models.Mission, error) {
	return r.find(ctx, bson.M{"incident_id": incidentID})
}

// FindByIncidentAndName возвращает (nil, nil), если миссии нет
func (r *MissionRepository) FindByIncidentAndName(ctx context.Context, incidentID, name string) (*models.Mission, error) {
	var mission models.Mission
	err := r.col.FindOne(ctx, bson.M{"incident_id": incidentID, "name": name}).Decode(&mission)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: could not find mission by name: %w", err)
	}
	return &mission, nil
}

// Update применяет $set-патч и возвращает обновленный документ
func (r *MissionRepository) Update(ctx context.Context, id string, patch map[string]interface{}) (*models.Mission, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Mission
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(patch)}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("repository: mission %s: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("repository: could not update mission: %w", err)
	}
	return &updated, nil
}

// Delete удаляет миссию и возвращает удаленный документ
func (r *MissionRepository) Delete(ctx context.Context, id string) (*models.Mission, error) {
	var deleted models.Mission
	err := r.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&deleted)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("repository: mission %s: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("repository: could not delete mission: %w", err)
	}
	return &deleted, nil
}

func (r *MissionRepository) find(ctx context.Context, filter bson.M) ([]*models.Mission, error) {
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("repository: could not query missions: %w", err)
	}
	defer cursor.Close(ctx)

	missions := make([]*models.Mission, 0)
	if err := cursor.All(ctx, &missions); err != nil {
		return nil, fmt.Errorf("repository: could not decode missions: %w", err)
	}
	return missions, nil
}
