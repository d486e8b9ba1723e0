package models

// Статусы жизненного цикла инцидента
const (
	IncidentStatusActive   = "Active"
	IncidentStatusTriaged  = "Triaged"
	IncidentStatusResolved = "Resolved"
)

// GeoPoint — географическая точка в формате GeoJSON: [lng, lat]
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// IncidentMetadata — сведения об источнике сообщения
type IncidentMetadata struct {
	Source           string  `bson:"source,omitempty" json:"source,omitempty"`
	ReliabilityScore float64 `bson:"reliability_score,omitempty" json:"reliability_score,omitempty"`
}

// Incident — зарегистрированное чрезвычайное событие. Флаг Dispatched —
// единственный авторитетный сигнал того, что по инциденту нужно выделять ресурсы.
type Incident struct {
	ID          DocID             `bson:"_id,omitempty" json:"_id"`
	Type        string            `bson:"type" json:"type"`
	Status      string            `bson:"status" json:"status"`
	Description string            `bson:"description,omitempty" json:"description,omitempty"`
	Needs       []string          `bson:"needs,omitempty" json:"needs,omitempty"`
	Location    *GeoPoint         `bson:"location,omitempty" json:"location,omitempty"`
	Dispatched  bool              `bson:"dispatched" json:"dispatched"`
	Metadata    *IncidentMetadata `bson:"metadata,omitempty" json:"metadata,omitempty"`
}
