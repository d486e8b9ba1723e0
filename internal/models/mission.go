package models

import "time"

// Приоритеты и начальные состояния миссии
const (
	MissionPriorityHigh   = "High"
	MissionPriorityMedium = "Medium"

	MissionStatusPending     = "Pending"
	MissionWorkflowCreated   = "Created"

	// DefaultNeed подставляется, когда у инцидента не указаны потребности
	DefaultNeed = "General Response"
)

// MissionTimeline — отметки жизненного цикла миссии. При создании заполнен
// только CreatedAt, остальные проставляются позже.
type MissionTimeline struct {
	CreatedAt           time.Time  `bson:"created_at" json:"created_at"`
	EOCApprovedAt       *time.Time `bson:"eoc_approved_at" json:"eoc_approved_at"`
	VolunteerAcceptedAt *time.Time `bson:"volunteer_accepted_at" json:"volunteer_accepted_at"`
	CompletedAt         *time.Time `bson:"completed_at" json:"completed_at"`
}

// MissionAIMetadata — результат обогащения миссии текстовой моделью
type MissionAIMetadata struct {
	ConfidenceScore float64 `bson:"confidence_score" json:"confidence_score"`
	MatchReasoning  string  `bson:"match_reasoning" json:"match_reasoning"`
}

// Mission — единица работы по одной потребности одного инцидента.
// IncidentID хранится как каноническая строка идентификатора инцидента,
// Name служит фактическим ключом дедупликации в рамках инцидента.
type Mission struct {
	ID                string            `bson:"_id" json:"_id"`
	IncidentID        string            `bson:"incident_id" json:"incident_id"`
	VolunteerID       *string           `bson:"volunteer_id" json:"volunteer_id"`
	AssignedResources []string          `bson:"assigned_resources" json:"assigned_resources"`
	WorkflowStep      string            `bson:"workflow_step" json:"workflow_step"`
	Priority          string            `bson:"priority" json:"priority"`
	CommsChannel      string            `bson:"comms_channel" json:"comms_channel"`
	Location          *GeoPoint         `bson:"location,omitempty" json:"location,omitempty"`
	Name              string            `bson:"name" json:"name"`
	Description       string            `bson:"description" json:"description"`
	Status            string            `bson:"status" json:"status"`
	Timeline          MissionTimeline   `bson:"timeline" json:"timeline"`
	AIMetadata        MissionAIMetadata `bson:"ai_metadata" json:"ai_metadata"`
}
