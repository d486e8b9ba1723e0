package ai

import (
	"context"
	"fmt"

	"github.com/shenikar/disaster_response_hub/internal/models"
)

const intakeSystemPrompt = `You are an emergency response system that extracts structured information from natural language incident reports.
Extract all relevant details including incident type, location (latitude and longitude if mentioned, or estimate based on context),
description, required resources/needs, status, and metadata.
If location is not provided, use default coordinates (37.7749, -122.4194) for San Francisco.
Always set dispatched to false.
Return a JSON object with: type, location ({"type":"Point","coordinates":[lng,lat]}), description, needs (array of strings), status (Active|Triaged|Resolved), dispatched, metadata ({"source","reliability_score"}).`

// Координаты Сан-Франциско по умолчанию [lng, lat]
var defaultIntakeLocation = models.GeoPoint{
	Type:        "Point",
	Coordinates: []float64{-122.4194, 37.7749},
}

// ParseIncidentReport разбирает свободный текст сообщения в структурированный
// инцидент. В отличие от обогащения миссий сбой здесь возвращается вызывающему:
// без структуры инцидент создавать не из чего.
func (c *Client) ParseIncidentReport(ctx context.Context, description string) (*models.Incident, error) {
	log := c.logger.WithField("component", "intake")

	raw, err := c.complete(ctx, intakeSystemPrompt, description, 1024)
	if err != nil {
		return nil, fmt.Errorf("ai: failed to parse incident report: %w", err)
	}

	var incident models.Incident
	if err := decodeJSON(raw, &incident); err != nil {
		return nil, fmt.Errorf("ai: failed to parse incident report: %w", err)
	}

	// Новые инциденты никогда не приходят диспетчеризованными
	incident.Dispatched = false

	if incident.Location == nil || len(incident.Location.Coordinates) != 2 {
		loc := defaultIntakeLocation
		incident.Location = &loc
	}
	if incident.Needs == nil {
		incident.Needs = []string{}
	}
	if incident.Status == "" {
		incident.Status = models.IncidentStatusActive
	}

	log.WithField("type", incident.Type).Info("Incident report parsed")
	return &incident, nil
}
