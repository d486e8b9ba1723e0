package ai

import (
	"context"
	"fmt"

	"github.com/shenikar/disaster_response_hub/internal/models"
)

const (
	// Фиксированная уверенность при сбое обогащения
	fallbackConfidence = 0.75
	// Уверенность по умолчанию, если модель не вернула оценку
	defaultConfidence = 0.85

	enricherSystemPrompt = "You are an emergency response coordinator. Generate detailed mission descriptions and reasoning in JSON format."
)

// EnrichMission запрашивает у модели описание, обоснование и оценку
// уверенности для миссии. Сбой вызова или некорректный ответ не являются
// ошибкой операции: метод деградирует до шаблонного текста.
func (c *Client) EnrichMission(ctx context.Context, incident *models.Incident, need string) Enrichment {
	log := c.logger.WithFields(map[string]interface{}{
		"component": "enricher",
		"need":      need,
		"type":      incident.Type,
	})

	prompt := buildEnrichmentPrompt(incident, need)

	raw, err := c.complete(ctx, enricherSystemPrompt, prompt, 1024)
	if err != nil {
		log.WithError(err).Warn("AI enrichment failed, using template fallback")
		return fallbackEnrichment(incident, need)
	}

	var enr Enrichment
	if err := decodeJSON(raw, &enr); err != nil {
		log.WithError(err).Warn("AI enrichment returned malformed output, using template fallback")
		return fallbackEnrichment(incident, need)
	}

	// Пустые поля добиваем шаблоном, оценку приводим к [0,1]
	if enr.Description == "" {
		enr.Description = templateDescription(incident, need)
	}
	if enr.Reasoning == "" {
		enr.Reasoning = fmt.Sprintf("Auto-generated mission for %q resource based on incident needs.", need)
	}
	if enr.ConfidenceScore == 0 {
		enr.ConfidenceScore = defaultConfidence
	}
	if enr.ConfidenceScore < 0 {
		enr.ConfidenceScore = 0
	}
	if enr.ConfidenceScore > 1 {
		enr.ConfidenceScore = 1
	}

	log.WithField("confidence", enr.ConfidenceScore).Debug("AI enrichment received")
	return enr
}

func buildEnrichmentPrompt(incident *models.Incident, need string) string {
	description := incident.Description
	if description == "" {
		description = "No additional details"
	}
	location := "Unknown"
	if incident.Location != nil {
		location = fmt.Sprintf("Coordinates: %v", incident.Location.Coordinates)
	}

	return fmt.Sprintf(`You are an emergency response coordinator. Generate a detailed mission description and reasoning for a %s mission related to a %s incident.

Incident Details:
- Type: %s
- Status: %s
- Description: %s
- Location: %s

Required Resource/Need: %s

Generate:
1. A detailed mission description (2-3 sentences)
2. Reasoning for why this mission is important
3. Confidence score (0.0-1.0) for mission relevance

Return a JSON object with: description, reasoning, confidence_score`,
		need, incident.Type, incident.Type, incident.Status, description, location, need)
}

// fallbackEnrichment — детерминированный шаблон на случай сбоя апстрима
func fallbackEnrichment(incident *models.Incident, need string) Enrichment {
	return Enrichment{
		Description: templateDescription(incident, need),
		Reasoning: fmt.Sprintf("Auto-generated mission for %q resource based on incident needs. Incident type: %s",
			need, incident.Type),
		ConfidenceScore: fallbackConfidence,
	}
}

func templateDescription(incident *models.Incident, need string) string {
	details := incident.Description
	if details == "" {
		details = "No additional details."
	}
	return fmt.Sprintf("Provide %s support for %s incident. %s", need, incident.Type, details)
}
