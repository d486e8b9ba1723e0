package ai

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shenikar/disaster_response_hub/internal/models"
)

func TestParseIncidentReport_Success(t *testing.T) {
	// Подготовка
	stub := &stubMessages{resp: `{
		"type": "Fire",
		"location": {"type": "Point", "coordinates": [-122.41, 37.78]},
		"description": "Пожар на складе",
		"needs": ["Fire Suppression", "Medical Aid"],
		"status": "Active",
		"dispatched": true,
		"metadata": {"source": "Phone Call", "reliability_score": 0.9}
	}`}
	client := newTestClient(stub)

	// Действие
	incident, err := client.ParseIncidentReport(context.Background(), "На складе у порта пожар, есть пострадавшие")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, "Fire", incident.Type)
	assert.Equal(t, []string{"Fire Suppression", "Medical Aid"}, incident.Needs)
	assert.Equal(t, []float64{-122.41, 37.78}, incident.Location.Coordinates)
	require.NotNil(t, incident.Metadata)
	assert.Equal(t, "Phone Call", incident.Metadata.Source)

	// Новый инцидент никогда не приходит диспетчеризованным, что бы ни сказала модель
	assert.False(t, incident.Dispatched)
}

func TestParseIncidentReport_Defaults(t *testing.T) {
	// Подготовка: модель вернула только тип
	stub := &stubMessages{resp: `{"type": "Power Outage"}`}
	client := newTestClient(stub)

	// Действие
	incident, err := client.ParseIncidentReport(context.Background(), "Света нет во всем районе")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.IncidentStatusActive, incident.Status)
	assert.NotNil(t, incident.Needs)
	assert.Empty(t, incident.Needs)
	require.NotNil(t, incident.Location)
	assert.Equal(t, []float64{-122.4194, 37.7749}, incident.Location.Coordinates)
	assert.False(t, incident.Dispatched)
}

func TestParseIncidentReport_UpstreamError(t *testing.T) {
	// Подготовка
	stub := &stubMessages{err: fmt.Errorf("api: rate limited")}
	client := newTestClient(stub)

	// Действие
	incident, err := client.ParseIncidentReport(context.Background(), "report")

	// Проверки: в отличие от обогащения, сбой возвращается вызывающему
	require.Error(t, err)
	assert.Nil(t, incident)
	assert.ErrorContains(t, err, "failed to parse incident report")
}

func TestParseIncidentReport_MalformedOutput(t *testing.T) {
	// Подготовка
	stub := &stubMessages{resp: "Извините, не могу распознать сообщение."}
	client := newTestClient(stub)

	// Действие
	incident, err := client.ParseIncidentReport(context.Background(), "report")

	// Проверки
	require.Error(t, err)
	assert.Nil(t, incident)
}
