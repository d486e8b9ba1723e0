package ai

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shenikar/disaster_response_hub/internal/models"
)

func enrichmentIncident() *models.Incident {
	return &models.Incident{
		ID:          models.ParseDocID("65f1a2b3c4d5e6f708192a3b"),
		Type:        "Flood",
		Status:      models.IncidentStatusActive,
		Description: "Вода затопила подземный переход",
		Location:    &models.GeoPoint{Type: "Point", Coordinates: []float64{-122.4194, 37.7749}},
	}
}

func TestEnrichMission_Success(t *testing.T) {
	// Подготовка: модель отвечает JSON-объектом в код-блоке
	stub := &stubMessages{resp: "```json\n{\"description\":\"Организовать эвакуацию\",\"reasoning\":\"Уровень воды растет\",\"confidence_score\":0.92}\n```"}
	client := newTestClient(stub)

	// Действие
	enr := client.EnrichMission(context.Background(), enrichmentIncident(), "Water Rescue")

	// Проверки
	assert.Equal(t, "Организовать эвакуацию", enr.Description)
	assert.Equal(t, "Уровень воды растет", enr.Reasoning)
	assert.Equal(t, 0.92, enr.ConfidenceScore)
	assert.Equal(t, 1, stub.calls)

	// Промпт содержит тип инцидента и потребность
	require.Len(t, stub.lastParams.Messages, 1)
	assert.Contains(t, stub.lastParams.System[0].Text, "emergency response coordinator")
}

func TestEnrichMission_FallbackOnUpstreamError(t *testing.T) {
	// Подготовка: апстрим недоступен
	stub := &stubMessages{err: fmt.Errorf("api: overloaded")}
	client := newTestClient(stub)
	incident := enrichmentIncident()

	// Действие
	enr := client.EnrichMission(context.Background(), incident, "Water Rescue")

	// Проверки: детерминированный шаблон и фиксированная уверенность
	assert.Equal(t, "Provide Water Rescue support for Flood incident. Вода затопила подземный переход", enr.Description)
	assert.Contains(t, enr.Reasoning, "Water Rescue")
	assert.Equal(t, 0.75, enr.ConfidenceScore)
}

func TestEnrichMission_FallbackOnMalformedOutput(t *testing.T) {
	// Подготовка: модель вернула прозу без JSON
	stub := &stubMessages{resp: "Я не могу сформировать ответ в требуемом формате."}
	client := newTestClient(stub)
	incident := enrichmentIncident()
	incident.Description = ""

	// Действие
	enr := client.EnrichMission(context.Background(), incident, "Shelter")

	// Проверки: пустое описание инцидента подменяется заглушкой
	assert.Equal(t, "Provide Shelter support for Flood incident. No additional details.", enr.Description)
	assert.Equal(t, 0.75, enr.ConfidenceScore)
}

func TestEnrichMission_DefaultsForMissingFields(t *testing.T) {
	// Подготовка: модель вернула валидный JSON без оценки и обоснования
	stub := &stubMessages{resp: `{"description":"Доставить питьевую воду"}`}
	client := newTestClient(stub)

	// Действие
	enr := client.EnrichMission(context.Background(), enrichmentIncident(), "Water Supplies")

	// Проверки
	assert.Equal(t, "Доставить питьевую воду", enr.Description)
	assert.NotEmpty(t, enr.Reasoning)
	assert.Equal(t, 0.85, enr.ConfidenceScore)
}

func TestEnrichMission_ClampsConfidence(t *testing.T) {
	// Подготовка
	stub := &stubMessages{resp: `{"description":"d","reasoning":"r","confidence_score":1.7}`}
	client := newTestClient(stub)

	// Действие
	enr := client.EnrichMission(context.Background(), enrichmentIncident(), "Shelter")

	// Проверки
	assert.Equal(t, 1.0, enr.ConfidenceScore)
}
