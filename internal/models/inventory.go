package models

// InventoryItem — позиция склада ресурсов
type InventoryItem struct {
	ID       DocID     `bson:"_id,omitempty" json:"_id"`
	Name     string    `bson:"name" json:"name"`
	Category string    `bson:"category,omitempty" json:"category,omitempty"`
	Quantity int       `bson:"quantity" json:"quantity"`
	Status   string    `bson:"status,omitempty" json:"status,omitempty"`
	Location *GeoPoint `bson:"location,omitempty" json:"location,omitempty"`
}
