package models

// Статусы волонтера
const (
	VolunteerStatusIdle    = "idle"
	VolunteerStatusMission = "mission"
)

// Volunteer — доброволец, привлекаемый к миссиям
type Volunteer struct {
	ID               DocID     `bson:"_id,omitempty" json:"_id"`
	Name             string    `bson:"name" json:"name"`
	Status           string    `bson:"status" json:"status"`
	Skills           []string  `bson:"skills,omitempty" json:"skills,omitempty"`
	Location         *GeoPoint `bson:"location,omitempty" json:"location,omitempty"`
	CurrentMissionID string    `bson:"current_mission_id,omitempty" json:"current_mission_id,omitempty"`
}
