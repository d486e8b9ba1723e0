package v1

import "github.com/shenikar/disaster_response_hub/internal/models"

func dtoToGeoPoint(dto *GeoPointDTO) *models.GeoPoint {
	if dto == nil {
		return nil
	}
	return &models.GeoPoint{Type: dto.Type, Coordinates: dto.Coordinates}
}

// DTOToIncidentModel преобразует DTO создания в доменную модель
func DTOToIncidentModel(dto CreateIncidentRequest) *models.Incident {
	incident := &models.Incident{
		Type:        dto.Type,
		Status:      dto.Status,
		Description: dto.Description,
		Needs:       dto.Needs,
		Location:    dtoToGeoPoint(dto.Location),
		Dispatched:  dto.Dispatched,
	}
	if incident.Status == "" {
		incident.Status = models.IncidentStatusActive
	}
	if dto.Metadata != nil {
		incident.Metadata = &models.IncidentMetadata{
			Source:           dto.Metadata.Source,
			ReliabilityScore: dto.Metadata.ReliabilityScore,
		}
	}
	return incident
}

// DTOToMissionModel преобразует DTO создания в доменную модель.
// Идентификатор и дефолты проставляет сервис.
func DTOToMissionModel(dto CreateMissionRequest) *models.Mission {
	return &models.Mission{
		IncidentID:        dto.IncidentID,
		Name:              dto.Name,
		Description:       dto.Description,
		Priority:          dto.Priority,
		Status:            dto.Status,
		Location:          dtoToGeoPoint(dto.Location),
		AssignedResources: []string{},
	}
}

// DTOToVolunteerModel преобразует DTO регистрации в доменную модель
func DTOToVolunteerModel(dto CreateVolunteerRequest) *models.Volunteer {
	return &models.Volunteer{
		Name:     dto.Name,
		Status:   dto.Status,
		Skills:   dto.Skills,
		Location: dtoToGeoPoint(dto.Location),
	}
}

// DTOToInventoryModel преобразует DTO создания в доменную модель
func DTOToInventoryModel(dto CreateInventoryItemRequest) *models.InventoryItem {
	return &models.InventoryItem{
		Name:     dto.Name,
		Category: dto.Category,
		Quantity: dto.Quantity,
		Status:   dto.Status,
		Location: dtoToGeoPoint(dto.Location),
	}
}

// sanitizePatch убирает из патча системные поля, которые нельзя менять через $set
func sanitizePatch(patch map[string]interface{}) map[string]interface{} {
	delete(patch, "_id")
	return patch
}
