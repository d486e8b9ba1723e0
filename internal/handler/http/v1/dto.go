package v1

// GeoPointDTO — GeoJSON-точка в запросах и ответах
type GeoPointDTO struct {
	Type        string    `json:"type" validate:"required,oneof=Point"`
	Coordinates []float64 `json:"coordinates" validate:"required,len=2"`
}

// IncidentMetadataDTO — происхождение и надежность сообщения
type IncidentMetadataDTO struct {
	Source           string  `json:"source,omitempty"`
	ReliabilityScore float64 `json:"reliability_score,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// CreateIncidentRequest DTO для создания инцидента
type CreateIncidentRequest struct {
	Type        string               `json:"type" validate:"required,min=2,max=255"`
	Status      string               `json:"status,omitempty" validate:"omitempty,oneof=Active Triaged Resolved"`
	Description string               `json:"description,omitempty"`
	Needs       []string             `json:"needs,omitempty"`
	Location    *GeoPointDTO         `json:"location,omitempty"`
	Dispatched  bool                 `json:"dispatched,omitempty"`
	Metadata    *IncidentMetadataDTO `json:"metadata,omitempty"`
}

// CreateIncidentFromTextRequest DTO для создания инцидента из свободного текста
type CreateIncidentFromTextRequest struct {
	Description string `json:"description" validate:"required,min=3"`
}

// CreateMissionRequest DTO для ручного создания миссии
type CreateMissionRequest struct {
	IncidentID  string       `json:"incident_id" validate:"required"`
	Name        string       `json:"name" validate:"required,min=2,max=255"`
	Description string       `json:"description,omitempty"`
	Priority    string       `json:"priority,omitempty" validate:"omitempty,oneof=High Medium Low"`
	Status      string       `json:"status,omitempty"`
	Location    *GeoPointDTO `json:"location,omitempty"`
}

// CreateVolunteerRequest DTO для регистрации волонтера
type CreateVolunteerRequest struct {
	Name     string       `json:"name" validate:"required,min=2,max=255"`
	Status   string       `json:"status,omitempty" validate:"omitempty,oneof=idle mission"`
	Skills   []string     `json:"skills,omitempty"`
	Location *GeoPointDTO `json:"location,omitempty"`
}

// CreateInventoryItemRequest DTO для создания складской позиции
type CreateInventoryItemRequest struct {
	Name     string       `json:"name" validate:"required,min=2,max=255"`
	Category string       `json:"category,omitempty"`
	Quantity int          `json:"quantity" validate:"gte=0"`
	Status   string       `json:"status,omitempty"`
	Location *GeoPointDTO `json:"location,omitempty"`
}
