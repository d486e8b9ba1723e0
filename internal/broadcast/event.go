package broadcast

// EventType — тип события, рассылаемого подключенным клиентам
type EventType string

// Таксономия событий реального времени
const (
	EventIncidentCreated  EventType = "incident_created"
	EventIncidentUpdated  EventType = "incident_updated"
	EventIncidentDeleted  EventType = "incident_deleted"
	EventMissionCreated   EventType = "mission_created"
	EventMissionUpdated   EventType = "mission_updated"
	EventMissionDeleted   EventType = "mission_deleted"
	EventVolunteerCreated EventType = "volunteer_created"
	EventVolunteerUpdated EventType = "volunteer_updated"
	EventVolunteerDeleted EventType = "volunteer_deleted"
	EventInventoryCreated EventType = "inventory_created"
	EventInventoryUpdated EventType = "inventory_updated"
	EventInventoryDeleted EventType = "inventory_deleted"

	// EventReload — грубый сигнал инвалидации: клиенты перечитывают все коллекции
	EventReload EventType = "reload"
)

// Event — сообщение для всех слушателей. Доставка best-effort, at-most-once.
type Event struct {
	Type   EventType   `json:"type"`
	Data   interface{} `json:"data,omitempty"`
	Reload bool        `json:"reload,omitempty"`
}

// NewEvent создает событие с полезной нагрузкой
func NewEvent(t EventType, data interface{}) Event {
	return Event{Type: t, Data: data}
}

// ReloadEvent создает сигнал полной перезагрузки данных
func ReloadEvent() Event {
	return Event{Type: EventReload, Reload: true}
}
